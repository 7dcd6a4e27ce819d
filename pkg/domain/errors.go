package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrPlayerNotFound is returned when a command targets an id without a live player.
var ErrPlayerNotFound = errors.New("timeline player not found")

// ErrDefinitionNotFound is returned when a definition id cannot be found in a store or loader.
var ErrDefinitionNotFound = errors.New("definition not found")

// ErrTriggerNotFound is returned when a state change targets a trigger that was never registered.
var ErrTriggerNotFound = errors.New("trigger not found")

// ErrInvalidDefinition is returned when a definition document cannot be turned into metadata.
var ErrInvalidDefinition = errors.New("invalid definition")

// BuildError carries every message collected while compiling or instantiating an animation.
// The operation is one of "build", "create" or "animate".
type BuildError struct {
	Op       string
	Messages []string
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("unable to %s the animation due to the following errors: %s", e.Op, strings.Join(e.Messages, "\n"))
}

// NewBuildError returns nil when there is nothing to report.
func NewBuildError(op string, messages []string) error {
	if len(messages) == 0 {
		return nil
	}
	return &BuildError{Op: op, Messages: append([]string(nil), messages...)}
}

// BuildMessages returns the collected messages if err is (or wraps) a BuildError.
func BuildMessages(err error) []string {
	var be *BuildError
	if errors.As(err, &be) {
		return be.Messages
	}
	return nil
}
