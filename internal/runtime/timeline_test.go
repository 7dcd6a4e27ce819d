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

func buildTimelines(t *testing.T, root *mock.Element, m domain.Metadata, options *domain.Options) ([]*domain.TimelineInstruction, []string) {
	t.Helper()
	var errs []string
	out := runtime.BuildAnimationTimelines(mock.NewDriver(), root, compile(t, m), domain.EnterClassName, domain.LeaveClassName,
		domain.StyleMap{}, domain.StyleMap{}, options, nil, &errs)
	return out, errs
}

func offsets(instr *domain.TimelineInstruction) []float64 {
	var out []float64
	for _, kf := range instr.Keyframes {
		out = append(out, kf.Offset)
	}
	return out
}

func TestBuildAnimationTimelines_Sequence(t *testing.T) {
	root := mock.NewElement("div")
	out, errs := buildTimelines(t, root, sequence(
		style(map[string]any{"opacity": 0}),
		animate(1000, style(map[string]any{"opacity": 1})),
	), nil)
	require.Empty(t, errs)
	require.Len(t, out, 1)

	instr := out[0]
	assert.Equal(t, root.ID(), instr.Element.ID())
	assert.Equal(t, 1000.0, instr.Duration)
	assert.Equal(t, 0.0, instr.Delay)
	assert.Equal(t, []float64{0, 1}, offsets(instr))
	assert.Equal(t, domain.StyleMap{"opacity": "0"}, instr.Keyframes[0].Styles)
	assert.Equal(t, domain.StyleMap{"opacity": "1"}, instr.Keyframes[1].Styles)
	assert.False(t, instr.SubTimeline)
}

func TestBuildAnimationTimelines_AnimateDelayHoldsStyles(t *testing.T) {
	out, errs := buildTimelines(t, mock.NewElement("div"), sequence(
		style(map[string]any{"opacity": 0}),
		animate("1s 500ms", style(map[string]any{"opacity": 1})),
	), nil)
	require.Empty(t, errs)
	require.Len(t, out, 1)

	instr := out[0]
	assert.Equal(t, 1500.0, instr.Duration)
	require.Len(t, instr.Keyframes, 3)
	assert.InDelta(t, 1.0/3, instr.Keyframes[1].Offset, 1e-9)
	assert.Equal(t, "0", instr.Keyframes[1].Styles["opacity"])
	assert.Equal(t, "1", lastKeyframe(instr).Styles["opacity"])
}

func TestBuildAnimationTimelines_EmptyAnimation(t *testing.T) {
	root := mock.NewElement("div")
	var errs []string
	out := runtime.BuildAnimationTimelines(mock.NewDriver(), root, compiler.EmptySequence(), "", "",
		domain.StyleMap{}, domain.StyleMap{}, &domain.Options{Delay: 250}, nil, &errs)
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, root.ID(), out[0].Element.ID())
	assert.Empty(t, out[0].Keyframes)
	assert.Equal(t, 0.0, out[0].Duration)
	assert.Equal(t, 250.0, out[0].Delay)
}

func TestBuildAnimationTimelines_StyleOnlySpansWholeTimeline(t *testing.T) {
	out, errs := buildTimelines(t, mock.NewElement("div"), sequence(style(map[string]any{"color": "red"})), nil)
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, []float64{0, 1}, offsets(out[0]))
	assert.Equal(t, "red", out[0].Keyframes[1].Styles["color"])
}

func TestBuildAnimationTimelines_Group(t *testing.T) {
	out, errs := buildTimelines(t, mock.NewElement("div"), &domain.GroupMetadata{Steps: []domain.Metadata{
		animate(1000, style(map[string]any{"width": "100px"})),
		animate(2000, style(map[string]any{"height": "50px"})),
	}}, nil)
	require.Empty(t, errs)
	require.Len(t, out, 2)

	assert.Equal(t, 1000.0, out[0].Duration)
	assert.Equal(t, []string{"width"}, out[0].PostStyleProps)
	assert.Equal(t, domain.AutoStyle, out[0].Keyframes[0].Styles["width"])

	assert.Equal(t, 2000.0, out[1].Duration)
	assert.Equal(t, []string{"height"}, out[1].PostStyleProps)
}

func listWithItems(n int) (*mock.Element, []*mock.Element) {
	root := mock.NewElement("ul")
	var items []*mock.Element
	for i := 0; i < n; i++ {
		item := mock.NewElement("li", "item")
		items = append(items, item)
		root.Append(item)
	}
	root.Append(mock.NewElement("li", "other"))
	return root, items
}

func staggered(timings any) domain.Metadata {
	return &domain.QueryMetadata{
		Selector: ".item",
		Animation: &domain.StaggerMetadata{
			Timings:   timings,
			Animation: animate(100, style(map[string]any{"opacity": 1})),
		},
	}
}

func TestBuildAnimationTimelines_QueryStagger(t *testing.T) {
	root, items := listWithItems(3)
	out, errs := buildTimelines(t, root, staggered(100), nil)
	require.Empty(t, errs)
	require.Len(t, out, 3)

	for i, instr := range out {
		assert.Equal(t, items[i].ID(), instr.Element.ID())
		assert.Equal(t, float64(i)*100, instr.Delay)
		assert.Equal(t, 100.0, instr.Duration)
		assert.Equal(t, []string{"opacity"}, instr.PostStyleProps)
	}
}

func TestBuildAnimationTimelines_QueryStaggerReverse(t *testing.T) {
	root, _ := listWithItems(3)
	out, errs := buildTimelines(t, root, staggered(-100), nil)
	require.Empty(t, errs)
	require.Len(t, out, 3)
	assert.Equal(t, []float64{200, 100, 0}, []float64{out[0].Delay, out[1].Delay, out[2].Delay})
}

func TestBuildAnimationTimelines_QueryLimit(t *testing.T) {
	root, items := listWithItems(3)
	query := func(limit int) domain.Metadata {
		return &domain.QueryMetadata{
			Selector:  ".item",
			Animation: animate(100, style(map[string]any{"opacity": 1})),
			Options:   &domain.QueryOptions{Limit: limit},
		}
	}

	out, errs := buildTimelines(t, root, query(2), nil)
	require.Empty(t, errs)
	require.Len(t, out, 2)
	assert.Equal(t, items[0].ID(), out[0].Element.ID())

	out, errs = buildTimelines(t, root, query(-1), nil)
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, items[2].ID(), out[0].Element.ID())
}

func TestBuildAnimationTimelines_QueryEnterToken(t *testing.T) {
	root := mock.NewElement("div")
	entering := mock.NewElement("span", domain.EnterClassName)
	root.Append(mock.NewElement("span"), entering)

	out, errs := buildTimelines(t, root, &domain.QueryMetadata{
		Selector:  ":enter",
		Animation: animate(100, style(map[string]any{"opacity": 1})),
	}, nil)
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, entering.ID(), out[0].Element.ID())
}

func TestBuildAnimationTimelines_QueryWithoutResults(t *testing.T) {
	root := mock.NewElement("div")
	query := &domain.QueryMetadata{Selector: ".missing", Animation: animate(100, style(map[string]any{"opacity": 1}))}

	_, errs := buildTimelines(t, root, query, nil)
	assert.Equal(t, []string{
		"`query(\".missing\")` returned zero elements. (Use `query(\".missing\", { optional: true })` if you wish to allow this.)",
	}, errs)

	query.Options = &domain.QueryOptions{Optional: true}
	out, errs := buildTimelines(t, root, query, nil)
	assert.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Empty(t, out[0].Keyframes)
}

func TestBuildAnimationTimelines_Params(t *testing.T) {
	m := animate("{{ time }}", style(map[string]any{"opacity": "{{ o }}"}))

	out, errs := buildTimelines(t, mock.NewElement("div"), m, &domain.Options{Params: map[string]any{"time": "300ms", "o": 0.5}})
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, 300.0, out[0].Duration)
	assert.Equal(t, "0.5", lastKeyframe(out[0]).Styles["opacity"])

	_, errs = buildTimelines(t, mock.NewElement("div"), m, &domain.Options{Params: map[string]any{"time": "300ms"}})
	assert.Contains(t, errs, "Please provide a value for the animation param o")
}

func TestBuildAnimationTimelines_AnimateChildStretchesStartingKeyframe(t *testing.T) {
	root := mock.NewElement("div")
	sub := runtime.NewElementInstructionMap()
	child := domain.NewTimelineInstruction(root, []domain.Keyframe{
		{Offset: 0, Styles: domain.StyleMap{"opacity": "0"}},
		{Offset: 1, Styles: domain.StyleMap{"opacity": "1"}},
	}, nil, nil, 1000, 500, "", false)
	child.StretchStartingKeyframe = true
	sub.Append(root, child)

	var errs []string
	out := runtime.BuildAnimationTimelines(mock.NewDriver(), root, compile(t, sequence(&domain.AnimateChildMetadata{})), "", "",
		domain.StyleMap{}, domain.StyleMap{}, nil, sub, &errs)
	require.Empty(t, errs)
	require.Len(t, out, 1)

	instr := out[0]
	assert.True(t, instr.SubTimeline)
	assert.Equal(t, 1500.0, instr.Duration)
	assert.Equal(t, 0.0, instr.Delay)
	assert.Equal(t, []float64{0, 0.33, 1}, offsets(instr))
	assert.Equal(t, "0", instr.Keyframes[1].Styles["opacity"])
}

func TestBuildAnimationTimelines_AnimateChildConsumesSubInstructions(t *testing.T) {
	root := mock.NewElement("div")
	sub := runtime.NewElementInstructionMap()
	sub.Append(root, domain.NewTimelineInstruction(root, []domain.Keyframe{
		{Offset: 0, Styles: domain.StyleMap{"opacity": "0"}},
		{Offset: 1, Styles: domain.StyleMap{"opacity": "1"}},
	}, nil, nil, 400, 0, "", false))

	var errs []string
	m := sequence(&domain.AnimateChildMetadata{}, &domain.AnimateChildMetadata{})
	out := runtime.BuildAnimationTimelines(mock.NewDriver(), root, compile(t, m), "", "",
		domain.StyleMap{}, domain.StyleMap{}, nil, sub, &errs)
	require.Empty(t, errs)

	var total float64
	for _, instr := range out {
		if instr.SubTimeline {
			total += instr.Duration
		}
	}
	assert.Equal(t, 400.0, total, "the second animateChild has nothing left to play")
	assert.False(t, sub.Has(root))
}

func TestElementInstructionMap_Consume(t *testing.T) {
	el := mock.NewElement("div")
	m := runtime.NewElementInstructionMap()
	m.Append(el, domain.NewTimelineInstruction(el, nil, nil, nil, 100, 0, "", false))

	assert.Len(t, m.Consume(el), 1)
	assert.Nil(t, m.Consume(el))
	assert.False(t, m.Has(el))
}

func TestBuildAnimationTimelines_FinalStyles(t *testing.T) {
	root := mock.NewElement("div")
	var errs []string
	out := runtime.BuildAnimationTimelines(mock.NewDriver(), root, compile(t, animate(1000, nil)), "", "",
		domain.StyleMap{"height": "0px"}, domain.StyleMap{"height": "100px"}, nil, nil, &errs)
	require.Empty(t, errs)
	require.Len(t, out, 1)
	assert.Equal(t, domain.StyleMap{"height": "0px"}, out[0].Keyframes[0].Styles)
	assert.Equal(t, domain.StyleMap{"height": "100px"}, lastKeyframe(out[0]).Styles)
	assert.Empty(t, out[0].PostStyleProps)
}
