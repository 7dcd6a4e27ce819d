package cli

import (
	"context"
	"errors"

	"github.com/aretw0/cadence/internal/validator"
)

// ErrNoDefinitions is returned by commands that need a definition directory.
var ErrNoDefinitions = errors.New("no definition directory: use --dir")

// Validate compiles every definition of the session directory against the
// session driver without registering anything.
func (s *Session) Validate(ctx context.Context) ([]validator.Result, error) {
	loader := s.Engine.Loader()
	if loader == nil {
		return nil, ErrNoDefinitions
	}
	return validator.ValidateDefinitions(ctx, loader, s.Engine.Driver())
}
