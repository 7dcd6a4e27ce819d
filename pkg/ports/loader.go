package ports

import (
	"context"

	"github.com/aretw0/cadence/pkg/domain"
)

// DefinitionLoader retrieves definitions from a read-only source.
type DefinitionLoader interface {
	// Load returns domain.ErrDefinitionNotFound when the id is unknown.
	Load(ctx context.Context, id string) (*domain.Definition, error)
	// List returns every definition id, sorted.
	List(ctx context.Context) ([]string, error)
}

// Watchable is implemented by loaders that can report changed definitions.
type Watchable interface {
	// Watch emits the id of each definition that changes until ctx is done.
	Watch(ctx context.Context) (<-chan string, error)
}
