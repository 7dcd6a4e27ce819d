package memory_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader(t *testing.T) {
	ctx := context.Background()
	loader := memory.NewLoader(map[string]string{
		"fade": `
id: fade
steps:
  - style: {opacity: 0}
  - animate: {timings: 300ms, style: {opacity: 1}}
`,
		"json": `{"id": "json", "steps": [{"animate": {"timings": 100}}]}`,
		"liar": `id: someone-else`,
	})

	ids, err := loader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fade", "json", "liar"}, ids)

	def, err := loader.Load(ctx, "fade")
	require.NoError(t, err)
	require.Len(t, def.Steps, 2)
	assert.Equal(t, "300ms", def.Steps[1].Animate.Timings)

	def, err = loader.Load(ctx, "json")
	require.NoError(t, err)
	assert.Equal(t, domain.KindAnimation, def.EffectiveKind())

	_, err = loader.Load(ctx, "liar")
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = loader.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}
