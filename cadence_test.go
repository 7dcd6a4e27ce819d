package cadence_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fadeDoc = `
id: fade
params:
  time: {type: timing, default: 300ms}
  target: {type: number, default: 1}
steps:
  - style: {opacity: 0}
  - animate:
      timings: "{{ time }}"
      style: {opacity: "{{ target }}"}
`

const panelDoc = `
id: panel
kind: trigger
trigger:
  states:
    - name: closed
      style: {height: 0px}
    - name: open
      style: {height: 100px}
  transitions:
    - expr: closed <=> open
      steps:
        - animate: {timings: 200ms}
`

func newEngine(t *testing.T, docs map[string]string, opts ...cadence.Option) (*cadence.Engine, *mock.Driver) {
	t.Helper()
	queue := scheduler.NewQueue()
	driver := mock.NewDriver(mock.WithScheduler(queue))
	opts = append([]cadence.Option{
		cadence.WithQueue(queue),
		cadence.WithDriver(driver),
		cadence.WithLoader(memory.NewLoader(docs)),
	}, opts...)
	eng, err := cadence.New("", opts...)
	require.NoError(t, err)
	return eng, driver
}

func TestEngine_CreateAppliesParamDefaults(t *testing.T) {
	ctx := context.Background()
	eng, driver := newEngine(t, map[string]string{"fade": fadeDoc})
	require.NoError(t, eng.Load(ctx, "fade"))

	el := mock.NewElement("div")
	_, err := eng.Create(ctx, "fade", el, nil)
	require.NoError(t, err)
	require.Len(t, driver.Log(), 1)
	assert.Equal(t, 300.0, driver.Log()[0].Duration)
	assert.Equal(t, "1", driver.Log()[0].Keyframes[1].Styles["opacity"])

	driver.ResetLog()
	_, err = eng.Create(ctx, "fade", el, dsl.Params(map[string]any{"time": "1s", "target": "0.5"}))
	require.NoError(t, err)
	require.Len(t, driver.Log(), 1)
	assert.Equal(t, 1000.0, driver.Log()[0].Duration)
	assert.Equal(t, "0.5", driver.Log()[0].Keyframes[1].Styles["opacity"])
}

func TestEngine_CompileUsesDefaults(t *testing.T) {
	ctx := context.Background()
	eng, driver := newEngine(t, map[string]string{"fade": fadeDoc})
	require.NoError(t, eng.Load(ctx, "fade"))

	instructions, err := eng.Compile(ctx, "fade", mock.NewElement("div"), nil)
	require.NoError(t, err)
	require.Len(t, instructions, 1)
	assert.Equal(t, 300.0, instructions[0].TotalTime)
	assert.Empty(t, driver.Log())
}

func TestEngine_CreateRejectsInvalidParams(t *testing.T) {
	ctx := context.Background()
	eng, driver := newEngine(t, map[string]string{"fade": fadeDoc})
	require.NoError(t, eng.Load(ctx, "fade"))

	_, err := eng.Create(ctx, "fade", mock.NewElement("div"), dsl.Params(map[string]any{"time": "soon"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to create the animation")
	assert.Contains(t, err.Error(), `"soon" is not a valid timing value`)
	assert.Empty(t, driver.Log())
	assert.Empty(t, eng.Players())
}

func TestEngine_RegisterDefinitionValidatesParams(t *testing.T) {
	ctx := context.Background()
	eng, _ := newEngine(t, nil)

	tests := []struct {
		name string
		def  *domain.Definition
	}{
		{"missing id", &domain.Definition{}},
		{"unknown type", &domain.Definition{ID: "a", Params: map[string]domain.ParamSpec{"c": {Type: "color"}}}},
		{"bad default", &domain.Definition{ID: "b", Params: map[string]domain.ParamSpec{"t": {Type: "timing", Default: "fast"}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := eng.RegisterDefinition(ctx, tt.def)
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
		})
	}
	assert.Empty(t, eng.Definitions())
}

func TestEngine_LoadAllReportsEveryFailure(t *testing.T) {
	ctx := context.Background()
	eng, _ := newEngine(t, map[string]string{
		"fade":   fadeDoc,
		"panel":  panelDoc,
		"broken": "id: broken\nsteps:\n  - animate: {timings: -1s}\n",
		"liar":   "id: someone-else\n",
	})

	loaded, err := eng.LoadAll(ctx)
	assert.Equal(t, 2, loaded)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "found 2 errors:\n- broken: ")
	assert.Contains(t, err.Error(), "\n- liar: ")
	assert.Equal(t, []string{"fade", "panel"}, eng.Definitions())

	kind, ok := eng.Kind("panel")
	assert.True(t, ok)
	assert.Equal(t, domain.KindTrigger, kind)

	s, defaults, err := eng.Params("fade")
	require.NoError(t, err)
	assert.Equal(t, []string{"target: number", "time: timing"}, s.Describe())
	assert.Equal(t, "300ms", defaults["time"])
}

func TestEngine_CommandsAndFlush(t *testing.T) {
	ctx := context.Background()
	eng, err := cadence.New("")
	require.NoError(t, err)

	el := mock.NewElement("div")
	require.NoError(t, eng.Command(ctx, "grow", el, domain.CommandRegister,
		dsl.Animate("500ms", dsl.Style(map[string]any{"width": "100px"}))))
	require.NoError(t, eng.Command(ctx, "grow", el, domain.CommandCreate, &domain.Options{}))

	var phases []string
	for _, phase := range []string{domain.PhaseStart, domain.PhaseDone, domain.PhaseDestroy} {
		require.NoError(t, eng.Listen("grow", el, phase, func(ev domain.AnimationEvent) {
			phases = append(phases, ev.PhaseName)
			assert.Equal(t, 500.0, ev.TotalTime)
		}))
	}

	require.NoError(t, eng.Command(ctx, "grow", el, domain.CommandPlay))
	assert.Equal(t, []string{"start"}, phases, "done waits for Flush")
	assert.Positive(t, eng.Queue().Len())

	assert.Positive(t, eng.Flush())
	assert.Equal(t, []string{"start", "done"}, phases)

	require.NoError(t, eng.Command(ctx, "grow", el, domain.CommandDestroy))
	assert.Equal(t, []string{"start", "done", "destroy"}, phases)

	_, err = eng.Player("grow")
	assert.ErrorIs(t, err, domain.ErrPlayerNotFound)
	assert.ErrorIs(t, eng.Command(ctx, "grow", el, domain.CommandPlay), domain.ErrPlayerNotFound)
	assert.ErrorIs(t, eng.Destroy(ctx, "grow"), domain.ErrPlayerNotFound)
}

func TestEngine_Triggers(t *testing.T) {
	ctx := context.Background()
	eng, driver := newEngine(t, map[string]string{"panel": panelDoc})
	require.NoError(t, eng.Load(ctx, "panel"))

	el := mock.NewElement("div")
	assert.Equal(t, domain.VoidState, eng.State(el, "panel"))

	p, err := eng.SetState(ctx, el, "panel", "closed", nil)
	require.NoError(t, err)
	assert.Nil(t, p, "void => closed has no transition")

	var done int
	eng.ListenTrigger(el, "panel", domain.PhaseDone, func(domain.AnimationEvent) { done++ })

	p, err = eng.SetState(ctx, el, "panel", "open", nil)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.Len(t, driver.Log(), 1)
	assert.Equal(t, 200.0, driver.Log()[0].Duration)
	assert.Equal(t, "open", eng.State(el, "panel"))
	assert.Len(t, eng.TriggerPlayers(el), 1, "transitions start playing right away")
	assert.Zero(t, done)

	eng.Flush()
	assert.Equal(t, 1, done)
	assert.Empty(t, eng.TriggerPlayers(el))

	styles, err := eng.Styles(el, "panel")
	require.NoError(t, err)
	assert.Equal(t, "100px", styles["height"])

	_, err = eng.SetState(ctx, el, "drawer", "open", nil)
	assert.ErrorIs(t, err, domain.ErrTriggerNotFound)
}

func TestEngine_WithoutLoader(t *testing.T) {
	ctx := context.Background()
	eng, err := cadence.New("")
	require.NoError(t, err)

	assert.ErrorContains(t, eng.Load(ctx, "fade"), "engine has no loader")
	_, err = eng.LoadAll(ctx)
	assert.Error(t, err)
	_, err = eng.Watch(ctx)
	assert.ErrorContains(t, err, "does not support watching")
	assert.NotNil(t, eng.Driver())
	assert.Nil(t, eng.Loader())
}

func TestEngine_LoamDirectory(t *testing.T) {
	dir := t.TempDir()
	content := []byte(`---
id: fade
params:
  time: {type: timing, default: 250ms}
steps:
  - animate: {timings: "{{ time }}", style: {opacity: 1}}
---
Fades an element in.`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "fade.md"), content, 0644))

	driver := mock.NewDriver()
	eng, err := cadence.New(dir, cadence.WithDriver(driver))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(dir), eng.Name)

	loaded, err := eng.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, loaded)

	_, err = eng.Create(context.Background(), "fade", mock.NewElement("div"), nil)
	require.NoError(t, err)
	require.Len(t, driver.Log(), 1)
	assert.Equal(t, 250.0, driver.Log()[0].Duration)
}

func TestEngine_CommandRegister(t *testing.T) {
	ctx := context.Background()
	eng, err := cadence.New("")
	require.NoError(t, err)
	el := mock.NewElement("div")

	require.NoError(t, eng.Command(ctx, "x", el, domain.CommandRegister,
		dsl.Animate("200ms", dsl.Style(map[string]any{"opacity": 1}))))
	assert.Equal(t, []string{"x"}, eng.Definitions())
	kind, ok := eng.Kind("x")
	assert.True(t, ok)
	assert.Equal(t, domain.KindAnimation, kind)

	err = eng.Command(ctx, "y", el, domain.CommandRegister, "not metadata")
	var buildErr *domain.BuildError
	require.ErrorAs(t, err, &buildErr)
	assert.NotContains(t, eng.Definitions(), "y")
	assert.Error(t, eng.Command(ctx, "y", el, domain.CommandCreate))
	assert.Error(t, eng.Command(ctx, "z", el, domain.CommandRegister))
}
