package cli_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/pkg/adapters/csskeyframes"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/noop"
	"github.com/aretw0/cadence/pkg/adapters/redis"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fadeYAML = `
id: fade
steps:
  - style: {opacity: 0}
  - animate:
      timings: 250ms
      style: {opacity: 1}
`

func TestNewSession_DriverSelection(t *testing.T) {
	s, err := cli.NewSession(cli.Options{})
	require.NoError(t, err)
	assert.IsType(t, &noop.Driver{}, s.Engine.Driver())

	s, err = cli.NewSession(cli.Options{Driver: csskeyframes.Backend})
	require.NoError(t, err)
	assert.IsType(t, &csskeyframes.Driver{}, s.Engine.Driver())

	_, err = cli.NewSession(cli.Options{Driver: "flash"})
	assert.ErrorContains(t, err, "driver not found: flash")

	_, err = cli.NewSession(cli.Options{LogLevel: "loud"})
	assert.Error(t, err)
}

func TestSession_Element(t *testing.T) {
	dir := t.TempDir()
	page := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(page, []byte(`<body><div class="box"></div></body>`), 0o644))

	s, err := cli.NewSession(cli.Options{HTML: page})
	require.NoError(t, err)

	el, err := s.Element(".box")
	require.NoError(t, err)
	assert.NotEmpty(t, el.ID())

	body, err := s.Element("")
	require.NoError(t, err)
	assert.NotEqual(t, el.ID(), body.ID())

	_, err = s.Element(".missing")
	assert.ErrorContains(t, err, `no element matches ".missing"`)

	_, err = cli.NewSession(cli.Options{HTML: filepath.Join(dir, "nope.html")})
	assert.Error(t, err)
}

func TestSession_ValidateAndCompile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fade.md"), []byte("---"+fadeYAML+"---\nFades in.\n"), 0o644))

	s, err := cli.NewSession(cli.Options{Dir: dir, Driver: csskeyframes.Backend})
	require.NoError(t, err)

	results, err := s.Validate(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "fade", results[0].ID)

	n, err := s.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	el, err := s.Element("")
	require.NoError(t, err)
	instructions, err := s.Engine.Compile(context.Background(), "fade", el, nil)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, 250.0, instructions[0].Duration)
}

func TestSession_ValidateNeedsDirectory(t *testing.T) {
	s, err := cli.NewSession(cli.Options{})
	require.NoError(t, err)
	_, err = s.Validate(context.Background())
	assert.ErrorIs(t, err, cli.ErrNoDefinitions)
}

type watchLoader struct {
	*memory.Loader
	events chan string
}

func (w *watchLoader) Watch(ctx context.Context) (<-chan string, error) {
	return w.events, nil
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSession_WatchReloads(t *testing.T) {
	docs := map[string]string{"fade": fadeYAML}
	loader := &watchLoader{Loader: memory.NewLoader(docs), events: make(chan string, 2)}
	s, err := cli.NewSession(cli.Options{}, cadence.WithLoader(loader))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	out := &syncBuffer{}
	done := make(chan error, 1)
	go func() { done <- s.Watch(ctx, out) }()

	loader.events <- "fade"
	loader.events <- "ghost"
	require.Eventually(t, func() bool {
		text := out.String()
		return bytes.Contains([]byte(text), []byte("Reloaded 'fade'.")) &&
			bytes.Contains([]byte(text), []byte("Reload of 'ghost' failed"))
	}, 2*time.Second, 10*time.Millisecond)

	close(loader.events)
	require.NoError(t, <-done)
	assert.Contains(t, out.String(), "Watching 1 definitions.")
}

func TestNewSession_RedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	store := redis.New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = store.Close() })

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, &domain.Definition{
		ID:    "pulse",
		Steps: []domain.Step{{Animate: &domain.AnimateSpec{Timings: "120ms"}}},
	}))

	s, err := cli.NewSession(cli.Options{Dir: t.TempDir(), Redis: mr.Addr()})
	require.NoError(t, err)
	assert.IsType(t, &redis.Store{}, s.Engine.Loader())

	loaded, err := s.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)
	assert.Equal(t, []string{"pulse"}, s.Engine.Definitions())
}
