package runtime_test

import (
	"testing"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/internal/runtime"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTrigger(t *testing.T, m *domain.TriggerMetadata) *runtime.Trigger {
	t.Helper()
	var errs []string
	ast := compiler.BuildTriggerAst(mock.NewDriver(), m, &errs)
	require.Empty(t, errs)
	return runtime.BuildTrigger(ast.Name, ast, nil)
}

func TestBuildTrigger_BalancesBooleanStates(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "toggle",
		Definitions: []domain.Metadata{
			&domain.StateMetadata{Name: "true", Styles: style(map[string]any{"opacity": 1})},
			&domain.StateMetadata{Name: "0", Styles: style(map[string]any{"opacity": 0})},
		},
	})
	assert.Equal(t, []string{"true", "0", "1", "false"}, trigger.States().Names())

	var errs []string
	assert.Equal(t, domain.StyleMap{"opacity": "1"}, trigger.MatchStyles("1", nil, &errs))
	assert.Equal(t, domain.StyleMap{"opacity": "1"}, trigger.MatchStyles(true, nil, &errs))
	assert.Equal(t, domain.StyleMap{"opacity": "0"}, trigger.MatchStyles(false, nil, &errs))
	assert.Empty(t, errs)
}

func TestTrigger_MatchTransitionFirstWins(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "order",
		Definitions: []domain.Metadata{
			&domain.TransitionMetadata{Expr: "a => b", Animation: animate(100, nil)},
			&domain.TransitionMetadata{Expr: "* => *", Animation: animate(200, nil)},
		},
	})
	require.Len(t, trigger.Transitions(), 2)

	assert.Same(t, trigger.Transitions()[0], trigger.MatchTransition("a", "b", nil, nil))
	assert.Same(t, trigger.Transitions()[1], trigger.MatchTransition("b", "a", nil, nil))
}

func TestTrigger_NoMatchFallsBackForStyles(t *testing.T) {
	trigger := buildTrigger(t, openCloseTrigger())

	assert.Nil(t, trigger.MatchTransition("open", "unknown", nil, nil))

	var errs []string
	assert.NotPanics(t, func() {
		assert.Equal(t, domain.StyleMap{}, trigger.MatchStyles("unknown", nil, &errs))
		assert.Equal(t, domain.StyleMap{"height": "100px"}, trigger.MatchStyles("open", nil, &errs))
	})
	assert.Empty(t, errs)
	assert.NotContains(t, trigger.Transitions(), trigger.FallbackTransition())
	assert.True(t, trigger.FallbackTransition().Match("x", "y", nil, nil))
}

func TestTrigger_StarStateIsBackupStyles(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "star",
		Definitions: []domain.Metadata{
			&domain.StateMetadata{Name: "*", Styles: style(map[string]any{"color": "blue"})},
			&domain.StateMetadata{Name: "red", Styles: style(map[string]any{"color": "red"})},
		},
	})
	var errs []string
	assert.Equal(t, domain.StyleMap{"color": "blue"}, trigger.MatchStyles("other", nil, &errs))
	assert.Equal(t, domain.StyleMap{"color": "red"}, trigger.MatchStyles("red", nil, &errs))
}

func TestTrigger_StateParams(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "sized",
		Definitions: []domain.Metadata{
			&domain.StateMetadata{
				Name:    "big",
				Styles:  style(map[string]any{"width": "{{ w }}px"}),
				Options: &domain.Options{Params: map[string]any{"w": 100}},
			},
		},
	})
	var errs []string
	assert.Equal(t, domain.StyleMap{"width": "100px"}, trigger.MatchStyles("big", nil, &errs))
	assert.Equal(t, domain.StyleMap{"width": "300px"}, trigger.MatchStyles("big", map[string]any{"w": 300}, &errs))
	assert.Equal(t, domain.StyleMap{"width": "100px"}, trigger.MatchStyles("big", map[string]any{"w": nil}, &errs))
	assert.Empty(t, errs)
}

func TestTrigger_ContainsQueries(t *testing.T) {
	assert.False(t, buildTrigger(t, openCloseTrigger()).ContainsQueries())

	withQuery := buildTrigger(t, &domain.TriggerMetadata{
		Name: "list",
		Definitions: []domain.Metadata{
			&domain.TransitionMetadata{Expr: "* => *", Animation: &domain.QueryMetadata{
				Selector:  ".item",
				Animation: animate(100, style(map[string]any{"opacity": 1})),
				Options:   &domain.QueryOptions{Optional: true},
			}},
		},
	})
	assert.True(t, withQuery.ContainsQueries())
}

func TestTransitionFactory_BuildOpenClosed(t *testing.T) {
	trigger := buildTrigger(t, openCloseTrigger())
	el := mock.NewElement("div")

	factory := trigger.MatchTransition("closed", "open", el, nil)
	require.NotNil(t, factory)

	instr := factory.Build(mock.NewDriver(), el, "closed", "open", runtime.BuildOptions{})
	require.Empty(t, instr.Errors)
	require.Len(t, instr.Timelines, 1)

	assert.Equal(t, "openClose", instr.TriggerName)
	assert.Equal(t, domain.StyleMap{"height": "0px"}, instr.FromStyles)
	assert.Equal(t, domain.StyleMap{"height": "100px"}, instr.ToStyles)
	assert.False(t, instr.IsRemovalTransition)
	assert.Equal(t, 1000.0, instr.TotalTime)
	assert.Empty(t, instr.QueriedElements)

	timeline := instr.Timelines[0]
	assert.Equal(t, domain.StyleMap{"height": "0px"}, timeline.Keyframes[0].Styles)
	assert.Equal(t, domain.StyleMap{"height": "100px"}, lastKeyframe(timeline).Styles)
}

func TestTransitionFactory_BuildReportsErrors(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "broken",
		Definitions: []domain.Metadata{
			&domain.TransitionMetadata{Expr: "* => *", Animation: &domain.QueryMetadata{
				Selector:  ".nothing",
				Animation: animate(100, style(map[string]any{"opacity": 1})),
			}},
		},
	})
	el := mock.NewElement("div")
	instr := trigger.MatchTransition("a", "void", el, nil).Build(mock.NewDriver(), el, "a", "void", runtime.BuildOptions{})
	assert.Len(t, instr.Errors, 1)
	assert.Empty(t, instr.Timelines)
	assert.True(t, instr.IsRemovalTransition)
}

func TestTransitionFactory_QueriedElements(t *testing.T) {
	trigger := buildTrigger(t, &domain.TriggerMetadata{
		Name: "list",
		Definitions: []domain.Metadata{
			&domain.TransitionMetadata{Expr: "* => *", Animation: staggered(50)},
		},
	})
	root, items := listWithItems(2)
	instr := trigger.MatchTransition("a", "b", root, nil).Build(mock.NewDriver(), root, "a", "b", runtime.BuildOptions{})
	require.Empty(t, instr.Errors)
	require.Len(t, instr.QueriedElements, 2)
	assert.Equal(t, items[1].ID(), instr.QueriedElements[1].ID())
	assert.Equal(t, map[string]bool{"opacity": true}, instr.PostStyleProps[items[0].ID()])
	assert.Equal(t, 150.0, instr.TotalTime)
}
