package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDefinitionStoreContract runs a suite of tests to verify that a DefinitionStore
// implementation adheres to the defined interface contract.
func RunDefinitionStoreContract(t *testing.T, store DefinitionStore) {
	ctx := context.Background()
	id := "contract-test-" + time.Now().Format("20060102150405")

	newDefinition := func(id string) *domain.Definition {
		return &domain.Definition{
			ID:   id,
			Kind: domain.KindAnimation,
			Params: map[string]domain.ParamSpec{
				"time": {Type: "timing", Default: "300ms"},
			},
			Steps: []domain.Step{
				{Style: map[string]any{"opacity": "0"}},
				{Animate: &domain.AnimateSpec{Timings: "{{ time }}", Style: map[string]any{"opacity": "1"}}},
			},
		}
	}

	t.Run("Save and Load", func(t *testing.T) {
		def := newDefinition(id)

		err := store.Save(ctx, def)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, id)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, id, loaded.ID)
		assert.Equal(t, domain.KindAnimation, loaded.EffectiveKind())
		require.Len(t, loaded.Steps, 2)
		require.NotNil(t, loaded.Steps[1].Animate)
		assert.Equal(t, "{{ time }}", domain.FormatValue(loaded.Steps[1].Animate.Timings))
		assert.Equal(t, "300ms", domain.FormatValue(loaded.Params["time"].Default))
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+id)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, newDefinition(id))
		require.NoError(t, err)

		err = store.Delete(ctx, id)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, id)
		assert.ErrorIs(t, err, domain.ErrDefinitionNotFound, "Load after Delete should return ErrDefinitionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := id + "-1"
		id2 := id + "-2"
		_ = store.Save(ctx, newDefinition(id1))
		_ = store.Save(ctx, newDefinition(id2))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		ids, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, ids, id1)
		assert.Contains(t, ids, id2)
	})
}
