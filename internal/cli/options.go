package cli

import (
	"log/slog"

	"github.com/aretw0/cadence/internal/logging"
	"github.com/aretw0/cadence/pkg/domain"
)

// Options contains the flags shared by every command.
type Options struct {
	// Dir holds the definition files. Empty means no loader.
	Dir string
	// Driver names the backend in the driver registry.
	Driver string
	// HTML is a file whose document hosts the animated elements.
	// Empty uses an empty body.
	HTML     string
	LogLevel string
	// Redis, when set, is the address of a shared definition store read
	// instead of Dir.
	Redis string
	// Hooks run after the logging hooks every session installs.
	Hooks domain.LifecycleHooks
}

// DefaultDriver is the backend used when Options.Driver is empty.
const DefaultDriver = "noop"

// createLogger configures the application logger. Logs go to stderr so they
// never mix with command output.
func createLogger(level string) (*slog.Logger, error) {
	l, err := logging.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return logging.New(l), nil
}
