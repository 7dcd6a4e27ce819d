package dsl_test

import (
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStyle(t *testing.T) {
	m := dsl.Style(dsl.Props{"opacity": 0}, dsl.Auto, domain.StyleMap{"width": "1px"})
	require.Len(t, m.Styles, 3)
	assert.Equal(t, map[string]any{"opacity": 0}, m.Styles[0].Props)
	assert.Equal(t, domain.AutoStyle, m.Styles[1].Token)
	assert.Nil(t, m.Styles[1].Props)
	assert.Equal(t, map[string]any{"width": "1px"}, m.Styles[2].Props)
}

func TestAnimation_WrapsSeveralStepsInSequence(t *testing.T) {
	single := dsl.Animation(dsl.Animate(100))
	assert.IsType(t, &domain.AnimateMetadata{}, single.Animation)

	several := dsl.Animation(dsl.Style(dsl.Props{"opacity": 0}), dsl.Animate(100))
	seq, ok := several.Animation.(*domain.SequenceMetadata)
	require.True(t, ok)
	assert.Len(t, seq.Steps, 2)
}

func TestQueryOptions(t *testing.T) {
	q := dsl.Query(".item", dsl.Animate(100), dsl.Optional(), dsl.Limit(-2), dsl.QueryDelay("50ms"))
	require.NotNil(t, q.Options)
	assert.True(t, q.Options.Optional)
	assert.Equal(t, -2, q.Options.Limit)
	assert.Equal(t, "50ms", q.Options.Delay)

	assert.Nil(t, dsl.Query(".item", dsl.Animate(100)).Options)
}

func TestWithOptions(t *testing.T) {
	seq := dsl.WithOptions(dsl.Sequence(dsl.Animate(100)), dsl.Params(map[string]any{"x": 1}))
	assert.Equal(t, map[string]any{"x": 1}, seq.(*domain.SequenceMetadata).Options.Params)
}

func TestTriggerBuilder(t *testing.T) {
	b := dsl.NewTrigger("openClose").
		State("open", dsl.Style(dsl.Props{"height": "200px"})).
		StateWithParams("closed", dsl.Style(dsl.Props{"height": "{{ h }}"}), map[string]any{"h": "0px"}).
		Transition("open => closed", dsl.Animate("1s")).
		TransitionFunc(func(from, to any, _ domain.Element, _ map[string]any) bool { return true }, dsl.Animate("0.5s"))

	trigger := b.Build()
	assert.Equal(t, "openClose", trigger.Name)
	require.Len(t, trigger.Definitions, 4)

	closed := trigger.Definitions[1].(*domain.StateMetadata)
	assert.Equal(t, map[string]any{"h": "0px"}, closed.Options.Params)

	tr := trigger.Definitions[3].(*domain.TransitionMetadata)
	assert.NotNil(t, tr.Matcher)
	assert.Empty(t, tr.Expr)

	// later changes to the builder do not leak into built triggers
	b.Transition("* => *")
	assert.Len(t, trigger.Definitions, 4)
}

func TestTrigger(t *testing.T) {
	trigger := dsl.Trigger("fade",
		dsl.State("void", dsl.Style(dsl.Props{"opacity": 0}), nil),
		dsl.Transition(":enter", dsl.Animate(300, dsl.Style(dsl.Props{"opacity": 1}))),
	)
	require.Len(t, trigger.Definitions, 2)
	assert.Nil(t, trigger.Definitions[0].(*domain.StateMetadata).Options)
}
