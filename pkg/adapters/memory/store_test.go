package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunDefinitionStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	def := &domain.Definition{ID: "a", Params: map[string]domain.ParamSpec{"x": {Type: "number"}}}
	require.NoError(t, store.Save(ctx, def))

	def.Params["x"] = domain.ParamSpec{Type: "string"}
	loaded, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "number", loaded.Params["x"].Type)

	assert.ErrorIs(t, store.Save(ctx, &domain.Definition{}), domain.ErrInvalidDefinition)
}
