package file_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cadence/pkg/adapters/file"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStore_Contract(t *testing.T) {
	store := file.New(t.TempDir())
	ports.RunDefinitionStoreContract(t, store)
}

func TestFileStore_ReadsHandWrittenYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "panel.yaml"), []byte(`
id: panel
kind: trigger
trigger:
  name: panel
  states:
    - name: open
      style: {height: 100px}
  transitions:
    - expr: "* => open"
      steps:
        - animate: {timings: 1s}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))

	store := file.New(dir)
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"panel"}, ids)

	def, err := store.Load(context.Background(), "panel")
	require.NoError(t, err)
	assert.Equal(t, domain.KindTrigger, def.EffectiveKind())
	require.NotNil(t, def.Trigger)
	assert.Len(t, def.Trigger.Transitions, 1)
}

func TestFileStore_RejectsPathIDs(t *testing.T) {
	store := file.New(t.TempDir())
	err := store.Save(context.Background(), &domain.Definition{ID: "../escape"})
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	_, err = store.Load(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
}

func TestFileStore_ListMissingDir(t *testing.T) {
	store := file.New(filepath.Join(t.TempDir(), "nope"))
	ids, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, ids)
}
