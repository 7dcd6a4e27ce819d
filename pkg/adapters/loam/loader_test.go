package loam_test

import (
	"context"
	"testing"

	"github.com/aretw0/cadence/internal/testutils"
	loamadapter "github.com/aretw0/cadence/pkg/adapters/loam"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/loam"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoader_LoadAndList(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteDefinitions(t, tmpDir, map[string]string{
		"fade.yaml": `
id: fade
steps:
  - style: {opacity: 0}
  - animate: {timings: 300ms, style: {opacity: 1}}
`,
		"panel.md": `---
kind: trigger
trigger:
  name: panel
  states:
    - name: open
      style: {height: 100px}
---
Opens and closes the side panel.`,
		"slide.json": `{"id": "slide.json", "steps": [{"animate": {"timings": "1s"}}]}`,
	})
	loader := loamadapter.New(loam.NewTypedRepository[domain.Definition](repo))
	ctx := context.Background()

	ids, err := loader.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"fade", "panel", "slide"}, ids)

	def, err := loader.Load(ctx, "fade")
	require.NoError(t, err)
	assert.Equal(t, "fade", def.ID)
	require.Len(t, def.Steps, 2)

	def, err = loader.Load(ctx, "panel")
	require.NoError(t, err)
	assert.Equal(t, "panel", def.ID)
	assert.Equal(t, domain.KindTrigger, def.EffectiveKind())
	assert.Equal(t, "Opens and closes the side panel.", def.Description)

	def, err = loader.Load(ctx, "slide")
	require.NoError(t, err)
	assert.Equal(t, "slide", def.ID, "ids keep no extension")
}

func TestLoader_DetectsCollisions(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteDefinitions(t, tmpDir, map[string]string{
		"foo.yaml": "id: foo\n",
		"foo.json": `{"id": "foo"}`,
	})
	loader := loamadapter.New(loam.NewTypedRepository[domain.Definition](repo))

	_, err := loader.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "collision detected")
	assert.Contains(t, err.Error(), "foo")
}

func TestLoader_Missing(t *testing.T) {
	_, repo := testutils.SetupTestRepo(t)
	loader := loamadapter.New(loam.NewTypedRepository[domain.Definition](repo))

	_, err := loader.Load(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrDefinitionNotFound)
}
