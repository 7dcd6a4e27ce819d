package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
)

// Loader implements ports.DefinitionLoader over raw YAML or JSON documents.
type Loader struct {
	docs   map[string][]byte
	parser *compiler.Parser
}

// NewLoader creates a Loader from documents keyed by id.
func NewLoader(data map[string]string) *Loader {
	docs := make(map[string][]byte)
	for k, v := range data {
		docs[k] = []byte(v)
	}
	return &Loader{
		docs:   docs,
		parser: compiler.NewParser(),
	}
}

// Load parses the document stored under id. The document id must match.
func (l *Loader) Load(ctx context.Context, id string) (*domain.Definition, error) {
	content, ok := l.docs[id]
	if !ok {
		return nil, fmt.Errorf("%s: %w", id, domain.ErrDefinitionNotFound)
	}
	def, err := l.parser.Parse(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	if def.ID != id {
		return nil, fmt.Errorf("%w: document %s declares id %q", domain.ErrInvalidDefinition, id, def.ID)
	}
	return def, nil
}

// List returns all available ids.
func (l *Loader) List(ctx context.Context) ([]string, error) {
	keys := make([]string, 0, len(l.docs))
	for k := range l.docs {
		keys = append(keys, k)
	}
	sort.Strings(keys) // Deterministic order
	return keys, nil
}
