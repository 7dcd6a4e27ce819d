package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Cadence banner and version to w.
func PrintBanner(w io.Writer, version string) {
	p := termenv.ColorProfile()
	// teal to violet, one shade per line
	lines := []struct{ text, color string }{
		{"   ___          _                    ", "#2dd4bf"},
		{"  / __|__ _  __| |___ _ _  __ ___    ", "#38bdf8"},
		{" | (__/ _` |/ _` / -_) ' \\/ _/ -_)   ", "#818cf8"},
		{"  \\___\\__,_|\\__,_\\___|_||_\\__\\___|   ", "#c084fc"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	if version != "" {
		fmt.Fprintln(w, termenv.String("  "+version).Faint())
	}
	fmt.Fprintln(w)
}
