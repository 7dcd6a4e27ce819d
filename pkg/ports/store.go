package ports

import (
	"context"

	"github.com/aretw0/cadence/pkg/domain"
)

// DefinitionStore persists definitions so that engines can register them by id.
type DefinitionStore interface {
	DefinitionLoader

	// Save persists the definition under def.ID, replacing any previous version.
	Save(ctx context.Context, def *domain.Definition) error

	// Delete removes the definition. Deleting an unknown id is not an error.
	Delete(ctx context.Context, id string) error
}
