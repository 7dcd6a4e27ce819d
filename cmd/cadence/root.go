package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "cadence",
	Short: "Cadence compiles and drives declarative animations",
	Long: `Cadence reads animation and trigger definitions (YAML, JSON or Markdown front matter),
compiles them into timelines and plays them through a pluggable driver.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("dir", ".", "Directory containing the definitions")
	rootCmd.PersistentFlags().String("driver", cli.DefaultDriver, "Animation backend: noop, css-keyframes or web-animations")
	rootCmd.PersistentFlags().String("html", "", "HTML document hosting the animated elements")
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level: debug, info, warn or error")
	rootCmd.PersistentFlags().String("redis", "", "Read definitions from the Redis store at this address instead of --dir")
}

// options reads the persistent flags. A positional directory argument wins
// over a default --dir.
func options(cmd *cobra.Command, dirArg string) cli.Options {
	dir, _ := cmd.Flags().GetString("dir")
	if !cmd.Flags().Changed("dir") && dirArg != "" {
		dir = dirArg
	}
	driver, _ := cmd.Flags().GetString("driver")
	html, _ := cmd.Flags().GetString("html")
	level, _ := cmd.Flags().GetString("log-level")
	redis, _ := cmd.Flags().GetString("redis")
	return cli.Options{Dir: dir, Driver: driver, HTML: html, LogLevel: level, Redis: redis}
}

func newSession(cmd *cobra.Command, args []string) (*cli.Session, error) {
	dirArg := ""
	if len(args) > 0 {
		dirArg = args[0]
	}
	return cli.NewSession(options(cmd, dirArg))
}

// loadedSession builds a session and registers every definition.
func loadedSession(cmd *cobra.Command) (*cli.Session, error) {
	s, err := cli.NewSession(options(cmd, ""))
	if err != nil {
		return nil, err
	}
	if _, err := s.Load(cmd.Context()); err != nil {
		return nil, err
	}
	return s, nil
}

// parseParams turns repeated key=value flags into animation params.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid param %q: expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}
