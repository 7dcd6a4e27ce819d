package compiler

import (
	"fmt"
	"math"
	"regexp"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
)

const rootSelector = ""

var selfTokenRe = regexp.MustCompile(`\s*:self\s*,?`)

// PropertyValidator decides which style properties may be animated.
type PropertyValidator interface {
	ValidateStyleProperty(prop string) bool
}

type timeRange struct {
	start, end float64
}

type builderContext struct {
	errors                *[]string
	queryCount            int
	depCount              int
	currentQuery          *domain.QueryMetadata
	currentQuerySelector  string
	currentAnimateTimings *TimingAst
	currentTime           float64
	collectedStyles       map[string]map[string]timeRange
}

type astBuilder struct {
	validator PropertyValidator
}

// BuildAnimationAst validates metadata and compiles it into an Ast.
// Problems are appended to errors; the returned Ast is only usable when none were added.
func BuildAnimationAst(validator PropertyValidator, metadata domain.Metadata, errors *[]string) Ast {
	b := &astBuilder{validator: validator}
	ctx := &builderContext{errors: errors}
	b.resetStyleTiming(ctx)
	return b.visit(normalizeEntry(metadata), ctx)
}

// BuildTriggerAst compiles a trigger definition.
func BuildTriggerAst(validator PropertyValidator, metadata *domain.TriggerMetadata, errors *[]string) *TriggerAst {
	if metadata == nil {
		*errors = append(*errors, "no trigger metadata was provided")
		return &TriggerAst{}
	}
	b := &astBuilder{validator: validator}
	ctx := &builderContext{errors: errors}
	b.resetStyleTiming(ctx)
	return b.visitTrigger(metadata, ctx)
}

func normalizeEntry(m domain.Metadata) domain.Metadata {
	if m == nil {
		return &domain.SequenceMetadata{}
	}
	return m
}

func (b *astBuilder) resetStyleTiming(ctx *builderContext) {
	ctx.currentQuerySelector = rootSelector
	ctx.collectedStyles = map[string]map[string]timeRange{rootSelector: {}}
	ctx.currentTime = 0
}

func (b *astBuilder) visit(m domain.Metadata, ctx *builderContext) Ast {
	switch n := m.(type) {
	case *domain.TriggerMetadata:
		return b.visitTrigger(n, ctx)
	case *domain.StateMetadata:
		return b.visitState(n, ctx)
	case *domain.TransitionMetadata:
		return b.visitTransition(n, ctx)
	case *domain.SequenceMetadata:
		return b.visitSequence(n, ctx)
	case *domain.GroupMetadata:
		return b.visitGroup(n, ctx)
	case *domain.AnimateMetadata:
		return b.visitAnimate(n, ctx)
	case *domain.KeyframesMetadata:
		return b.visitKeyframes(n, ctx)
	case *domain.StyleMetadata:
		return b.visitStyle(n, ctx)
	case *domain.ReferenceMetadata:
		return b.visitReference(n, ctx)
	case *domain.AnimateChildMetadata:
		return b.visitAnimateChild(n, ctx)
	case *domain.AnimateRefMetadata:
		return b.visitAnimateRef(n, ctx)
	case *domain.QueryMetadata:
		return b.visitQuery(n, ctx)
	case *domain.StaggerMetadata:
		return b.visitStagger(n, ctx)
	}
	b.fail(ctx, "Unable to resolve animation metadata node #%T", m)
	return EmptySequence()
}

func (b *astBuilder) fail(ctx *builderContext, format string, args ...any) {
	*ctx.errors = append(*ctx.errors, fmt.Sprintf(format, args...))
}

func (b *astBuilder) visitTrigger(m *domain.TriggerMetadata, ctx *builderContext) *TriggerAst {
	ast := &TriggerAst{Name: m.Name}
	ctx.queryCount = 0
	ctx.depCount = 0
	if strings.HasPrefix(m.Name, "@") {
		b.fail(ctx, "animation triggers cannot be prefixed with an `@` sign (e.g. trigger('@foo', [...]))")
	}

	for _, def := range m.Definitions {
		b.resetStyleTiming(ctx)
		switch d := def.(type) {
		case *domain.StateMetadata:
			for _, name := range clauseSplitRe.Split(d.Name, -1) {
				state := *d
				state.Name = name
				ast.States = append(ast.States, b.visitState(&state, ctx))
			}
		case *domain.TransitionMetadata:
			t := b.visitTransition(d, ctx)
			ast.QueryCount += t.QueryCount
			ast.DepCount += t.DepCount
			ast.Transitions = append(ast.Transitions, t)
		default:
			b.fail(ctx, "only state() and transition() definitions can sit inside of a trigger()")
		}
	}
	return ast
}

func (b *astBuilder) visitState(m *domain.StateMetadata, ctx *builderContext) *StateAst {
	styles := m.Styles
	if styles == nil {
		styles = &domain.StyleMetadata{}
	}
	style := b.visitStyle(styles, ctx)

	var params map[string]any
	if m.Options != nil && m.Options.Params != nil {
		params = NormalizeParams(m.Options.Params)
	}
	if style.ContainsDynamicStyles {
		var missing []string
		seen := map[string]bool{}
		for _, tuple := range style.Styles {
			for _, prop := range tuple.Props.Keys() {
				for _, sub := range ExtractStyleParams(tuple.Props[prop]) {
					if _, ok := params[sub]; !ok && !seen[sub] {
						seen[sub] = true
						missing = append(missing, sub)
					}
				}
			}
		}
		if len(missing) > 0 {
			b.fail(ctx, "state(\"%s\", ...) must define default values for all the following style substitutions: %s", m.Name, strings.Join(missing, ", "))
		}
	}
	return &StateAst{Name: m.Name, Style: style, Params: params}
}

func (b *astBuilder) visitTransition(m *domain.TransitionMetadata, ctx *builderContext) *TransitionAst {
	ctx.queryCount = 0
	ctx.depCount = 0
	animation := b.visit(normalizeEntry(m.Animation), ctx)

	var matchers []domain.MatcherFunc
	if m.Matcher != nil {
		matchers = ParseTransitionExpr(m.Matcher, ctx.errors)
	} else {
		matchers = ParseTransitionExpr(m.Expr, ctx.errors)
	}
	return &TransitionAst{
		Matchers:   matchers,
		Animation:  animation,
		QueryCount: ctx.queryCount,
		DepCount:   ctx.depCount,
		Options:    normalizeOptions(m.Options),
	}
}

func (b *astBuilder) visitSequence(m *domain.SequenceMetadata, ctx *builderContext) *SequenceAst {
	ast := &SequenceAst{Options: normalizeOptions(m.Options)}
	for _, step := range m.Steps {
		ast.Steps = append(ast.Steps, b.visit(step, ctx))
	}
	return ast
}

func (b *astBuilder) visitGroup(m *domain.GroupMetadata, ctx *builderContext) *GroupAst {
	ast := &GroupAst{Options: normalizeOptions(m.Options)}
	current := ctx.currentTime
	furthest := 0.0
	for _, step := range m.Steps {
		ctx.currentTime = current
		ast.Steps = append(ast.Steps, b.visit(step, ctx))
		furthest = math.Max(furthest, ctx.currentTime)
	}
	ctx.currentTime = furthest
	return ast
}

func (b *astBuilder) visitAnimate(m *domain.AnimateMetadata, ctx *builderContext) *AnimateAst {
	timings := constructTimingAst(m.Timings, ctx.errors)
	ctx.currentAnimateTimings = timings
	defer func() { ctx.currentAnimateTimings = nil }()

	if kf, ok := m.Styles.(*domain.KeyframesMetadata); ok {
		return &AnimateAst{Timings: timings, Style: b.visitKeyframes(kf, ctx)}
	}

	styleMeta, _ := m.Styles.(*domain.StyleMetadata)
	isEmpty := false
	if styleMeta == nil {
		isEmpty = true
		props := map[string]any{}
		if timings.Easing != "" {
			props["easing"] = timings.Easing
		}
		styleMeta = &domain.StyleMetadata{Styles: []domain.StyleEntry{{Props: props}}}
	}
	ctx.currentTime += timings.Duration + timings.Delay
	style := b.visitStyle(styleMeta, ctx)
	style.IsEmptyStep = isEmpty
	return &AnimateAst{Timings: timings, Style: style}
}

func (b *astBuilder) visitStyle(m *domain.StyleMetadata, ctx *builderContext) *StyleAst {
	ast := b.makeStyleAst(m, ctx)
	b.validateStyleAst(ast, ctx)
	return ast
}

func (b *astBuilder) makeStyleAst(m *domain.StyleMetadata, ctx *builderContext) *StyleAst {
	ast := &StyleAst{Offset: m.Offset}
	for _, entry := range m.Styles {
		if entry.Props == nil {
			if entry.Token == domain.AutoStyle {
				ast.Styles = append(ast.Styles, StyleTuple{Auto: true})
			} else {
				b.fail(ctx, "The provided style string value %s is not allowed.", entry.Token)
			}
			continue
		}
		props := make(domain.StyleMap, len(entry.Props))
		for prop, v := range entry.Props {
			props[prop] = domain.FormatValue(v)
		}
		ast.Styles = append(ast.Styles, StyleTuple{Props: props})
	}

	for _, tuple := range ast.Styles {
		if tuple.Auto {
			continue
		}
		if easing, ok := tuple.Props["easing"]; ok {
			ast.Easing = easing
			delete(tuple.Props, "easing")
		}
		if !ast.ContainsDynamicStyles {
			for _, v := range tuple.Props {
				if ContainsParams(v) {
					ast.ContainsDynamicStyles = true
					break
				}
			}
		}
	}
	return ast
}

// validateStyleAst checks properties against the driver and reports properties
// animated twice over the same time span within one query scope.
func (b *astBuilder) validateStyleAst(ast *StyleAst, ctx *builderContext) {
	timings := ctx.currentAnimateTimings
	end := ctx.currentTime
	start := ctx.currentTime
	if timings != nil && start > 0 {
		start -= timings.Duration + timings.Delay
	}

	for _, tuple := range ast.Styles {
		if tuple.Auto {
			continue
		}
		for _, prop := range tuple.Props.Keys() {
			if !b.validator.ValidateStyleProperty(prop) {
				b.fail(ctx, "The provided animation property \"%s\" is not a supported CSS property for animations", prop)
				continue
			}
			collected := ctx.collectedStyles[ctx.currentQuerySelector]
			update := true
			if entry, ok := collected[prop]; ok {
				if start != end && start >= entry.start && end <= entry.end {
					b.fail(ctx, "The CSS property \"%s\" that exists between the times of \"%sms\" and \"%sms\" is also being animated in a parallel animation between the times of \"%sms\" and \"%sms\"",
						prop, domain.FormatValue(entry.start), domain.FormatValue(entry.end), domain.FormatValue(start), domain.FormatValue(end))
					update = false
				}
				start = entry.start
			}
			if update {
				collected[prop] = timeRange{start: start, end: end}
			}
		}
	}
}

func (b *astBuilder) visitKeyframes(m *domain.KeyframesMetadata, ctx *builderContext) *KeyframesAst {
	ast := &KeyframesAst{}
	if ctx.currentAnimateTimings == nil {
		b.fail(ctx, "keyframes() must be placed inside of a call to animate()")
		return ast
	}

	var (
		withOffsets   int
		offsets       []float64
		outOfOrder    bool
		outOfRange    bool
		previousValue float64
		keyframes     []*StyleAst
	)
	for _, step := range m.Steps {
		style := b.makeStyleAst(step, ctx)
		offsetVal := style.Offset
		if offsetVal == nil {
			offsetVal = consumeOffset(style)
		}
		offset := 0.0
		if offsetVal != nil {
			withOffsets++
			offset = *offsetVal
			style.Offset = &offset
		}
		outOfRange = outOfRange || offset < 0 || offset > 1
		outOfOrder = outOfOrder || offset < previousValue
		previousValue = offset
		offsets = append(offsets, offset)
		keyframes = append(keyframes, style)
	}

	if outOfRange {
		b.fail(ctx, "Please ensure that all keyframe offsets are between 0 and 1")
	}
	if outOfOrder {
		b.fail(ctx, "Please ensure that all keyframe offsets are in order")
	}

	length := len(m.Steps)
	generated := 0.0
	if withOffsets > 0 && withOffsets < length {
		b.fail(ctx, "Not all style() steps within the declared keyframes() contain offsets")
	} else if withOffsets == 0 {
		generated = 1 / float64(length-1)
	}

	limit := length - 1
	current := ctx.currentTime
	animate := ctx.currentAnimateTimings
	scratch := *animate
	ctx.currentAnimateTimings = &scratch
	for i, kf := range keyframes {
		offset := offsets[i]
		if generated > 0 {
			if i == limit {
				offset = 1
			} else {
				offset = generated * float64(i)
			}
		}
		upToFrame := offset * animate.Duration
		ctx.currentTime = current + animate.Delay + upToFrame
		scratch.Duration = upToFrame
		b.validateStyleAst(kf, ctx)
		o := offset
		kf.Offset = &o
		ast.Styles = append(ast.Styles, kf)
	}
	ctx.currentAnimateTimings = animate
	return ast
}

// consumeOffset moves an "offset" property out of the style values.
func consumeOffset(style *StyleAst) *float64 {
	var offset *float64
	for _, tuple := range style.Styles {
		if tuple.Auto {
			continue
		}
		if v, ok := tuple.Props["offset"]; ok {
			f := domain.ParseFloat(v)
			offset = &f
			delete(tuple.Props, "offset")
		}
	}
	return offset
}

func (b *astBuilder) visitReference(m *domain.ReferenceMetadata, ctx *builderContext) *ReferenceAst {
	return &ReferenceAst{
		Animation: b.visit(normalizeEntry(m.Animation), ctx),
		Options:   normalizeOptions(m.Options),
	}
}

func (b *astBuilder) visitAnimateChild(m *domain.AnimateChildMetadata, ctx *builderContext) *AnimateChildAst {
	ctx.depCount++
	return &AnimateChildAst{Options: normalizeOptions(m.Options)}
}

func (b *astBuilder) visitAnimateRef(m *domain.AnimateRefMetadata, ctx *builderContext) *AnimateRefAst {
	ctx.depCount++
	ref := m.Animation
	if ref == nil {
		ref = &domain.ReferenceMetadata{}
	}
	return &AnimateRefAst{
		Animation: b.visitReference(ref, ctx),
		Options:   normalizeOptions(m.Options),
	}
}

func (b *astBuilder) visitQuery(m *domain.QueryMetadata, ctx *builderContext) *QueryAst {
	parentSelector := ctx.currentQuerySelector
	opts := m.Options
	if opts == nil {
		opts = &domain.QueryOptions{}
	}
	ctx.queryCount++
	parentQuery := ctx.currentQuery
	ctx.currentQuery = m

	selector, includeSelf := normalizeSelector(m.Selector)
	if parentSelector != "" {
		ctx.currentQuerySelector = parentSelector + " " + selector
	} else {
		ctx.currentQuerySelector = selector
	}
	if _, ok := ctx.collectedStyles[ctx.currentQuerySelector]; !ok {
		ctx.collectedStyles[ctx.currentQuerySelector] = map[string]timeRange{}
	}

	animation := b.visit(normalizeEntry(m.Animation), ctx)
	ctx.currentQuery = parentQuery
	ctx.currentQuerySelector = parentSelector

	return &QueryAst{
		Selector:         selector,
		OriginalSelector: m.Selector,
		Limit:            opts.Limit,
		Optional:         opts.Optional,
		IncludeSelf:      includeSelf,
		Animation:        animation,
		Options:          normalizeOptions(&opts.Options),
	}
}

func (b *astBuilder) visitStagger(m *domain.StaggerMetadata, ctx *builderContext) *StaggerAst {
	if ctx.currentQuery == nil {
		b.fail(ctx, "stagger() can only be used inside of query()")
	}
	var timings Timings
	if s, ok := m.Timings.(string); ok && s == "full" {
		timings = Timings{Easing: "full"}
	} else {
		timings = ResolveTiming(m.Timings, ctx.errors, true)
	}
	return &StaggerAst{
		Timings:   timings,
		Animation: b.visit(normalizeEntry(m.Animation), ctx),
	}
}

// normalizeSelector strips the :self token and reports whether it was present.
func normalizeSelector(selector string) (string, bool) {
	includeSelf := false
	for _, token := range clauseSplitRe.Split(selector, -1) {
		if token == ":self" {
			includeSelf = true
			break
		}
	}
	if includeSelf {
		selector = strings.TrimSpace(selfTokenRe.ReplaceAllString(selector, ""))
	}
	return selector, includeSelf
}
