package runtime

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
)

const (
	oneFrame    = 1.0
	enterToken  = ":enter"
	leaveToken  = ":leave"
	easingKey   = "easing"
	fullStagger = "full"
)

// Querier resolves query selectors below an element.
type Querier interface {
	Query(el domain.Element, selector string, multi bool) []domain.Element
}

// ElementInstructionMap collects the instructions of child animations per
// element so an animateChild step can splice them into the parent timeline.
type ElementInstructionMap struct {
	byID map[string][]*domain.TimelineInstruction
}

func NewElementInstructionMap() *ElementInstructionMap {
	return &ElementInstructionMap{byID: make(map[string][]*domain.TimelineInstruction)}
}

func (m *ElementInstructionMap) Get(el domain.Element) []*domain.TimelineInstruction {
	if m == nil || el == nil {
		return nil
	}
	return m.byID[el.ID()]
}

// Consume returns the instructions of el and forgets them.
func (m *ElementInstructionMap) Consume(el domain.Element) []*domain.TimelineInstruction {
	instructions := m.Get(el)
	if instructions != nil {
		delete(m.byID, el.ID())
	}
	return instructions
}

func (m *ElementInstructionMap) Append(el domain.Element, instructions ...*domain.TimelineInstruction) {
	m.byID[el.ID()] = append(m.byID[el.ID()], instructions...)
}

func (m *ElementInstructionMap) Has(el domain.Element) bool {
	_, ok := m.byID[el.ID()]
	return ok
}

func (m *ElementInstructionMap) Clear() {
	m.byID = make(map[string][]*domain.TimelineInstruction)
}

func sameElement(a, b domain.Element) bool {
	return a != nil && b != nil && a.ID() == b.ID()
}

// BuildAnimationTimelines walks ast from root and returns one instruction per
// timeline that animates something. When nothing animates, a single empty
// instruction for root is returned. Problems are appended to errors.
func BuildAnimationTimelines(
	querier Querier,
	root domain.Element,
	ast compiler.Ast,
	enterClassName, leaveClassName string,
	startStyles, finalStyles domain.StyleMap,
	options *domain.Options,
	subInstructions *ElementInstructionMap,
	errors *[]string,
) []*domain.TimelineInstruction {
	if subInstructions == nil {
		subInstructions = NewElementInstructionMap()
	}
	if options == nil {
		options = &domain.Options{}
	}

	tb := &timelineBuilderVisitor{}
	ctx := newTimelineContext(querier, root, subInstructions, enterClassName, leaveClassName, errors, &[]timeline{}, nil)
	ctx.options = timelineOptions{params: compiler.NormalizeParams(options.Params)}

	delay := 0.0
	if options.Delay != nil {
		delay = compiler.ResolveTimingValue(options.Delay)
	}
	ctx.currentTimeline.delayNextStep(delay)
	ctx.currentTimeline.setStyles([]compiler.StyleTuple{{Props: startStyles}}, "", errors, ctx.options.params)

	tb.visit(ast, ctx)

	var timelines []timeline
	for _, tl := range *ctx.timelines {
		if tl.containsAnimation() {
			timelines = append(timelines, tl)
		}
	}

	if len(timelines) > 0 && len(finalStyles) > 0 {
		for i := len(timelines) - 1; i >= 0; i-- {
			if !sameElement(timelines[i].target(), root) {
				continue
			}
			// sub timelines replay recorded keyframes and take no extra styles
			if last, ok := timelines[i].(*timelineBuilder); ok && !last.allowOnlyTimelineStyles() {
				last.setStyles([]compiler.StyleTuple{{Props: finalStyles}}, "", errors, ctx.options.params)
			}
			break
		}
	}

	if len(timelines) == 0 {
		return []*domain.TimelineInstruction{domain.NewTimelineInstruction(root, nil, nil, nil, 0, delay, "", false)}
	}
	out := make([]*domain.TimelineInstruction, 0, len(timelines))
	for _, tl := range timelines {
		out = append(out, tl.buildKeyframes())
	}
	return out
}

type timelineBuilderVisitor struct{}

func (v *timelineBuilderVisitor) visit(ast compiler.Ast, ctx *timelineContext) {
	switch n := ast.(type) {
	case *compiler.SequenceAst:
		v.visitSequence(n, ctx)
	case *compiler.GroupAst:
		v.visitGroup(n, ctx)
	case *compiler.AnimateAst:
		v.visitAnimate(n, ctx)
	case *compiler.StyleAst:
		v.visitStyle(n, ctx)
	case *compiler.KeyframesAst:
		v.visitKeyframes(n, ctx)
	case *compiler.ReferenceAst:
		v.visitReference(n, ctx)
	case *compiler.AnimateChildAst:
		v.visitAnimateChild(n, ctx)
	case *compiler.AnimateRefAst:
		v.visitAnimateRef(n, ctx)
	case *compiler.QueryAst:
		v.visitQuery(n, ctx)
	case *compiler.StaggerAst:
		v.visitStagger(n, ctx)
	}
}

func (v *timelineBuilderVisitor) visitAnimateChild(ast *compiler.AnimateChildAst, ctx *timelineContext) {
	instructions := ctx.subInstructions.Consume(ctx.element)
	if len(instructions) > 0 {
		inner := ctx.createSubContext(ast.Options, nil, 0)
		start := ctx.currentTimeline.currentTime()
		end := v.visitSubInstructions(instructions, inner, inner.options)
		if start != end {
			ctx.transformIntoNewTimeline(end)
		}
	}
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitAnimateRef(ast *compiler.AnimateRefAst, ctx *timelineContext) {
	inner := ctx.createSubContext(ast.Options, nil, 0)
	inner.transformIntoNewTimeline(0)
	for _, opts := range []*domain.Options{ast.Options, ast.Animation.Options} {
		if opts == nil || opts.Delay == nil {
			continue
		}
		var delay float64
		if f, ok := domain.ToFloat(opts.Delay); ok {
			delay = f
		} else {
			delay = compiler.ResolveTimingValue(compiler.InterpolateParams(domain.FormatValue(opts.Delay), opts.Params, ctx.errors))
		}
		inner.delayNextStep(delay)
	}
	v.visitReference(ast.Animation, inner)
	ctx.transformIntoNewTimeline(inner.currentTimeline.currentTime())
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitSubInstructions(instructions []*domain.TimelineInstruction, ctx *timelineContext, opts timelineOptions) float64 {
	start := ctx.currentTimeline.currentTime()
	furthest := start
	if opts.duration != nil && *opts.duration == 0 {
		return furthest
	}
	for _, instruction := range instructions {
		timings := ctx.appendInstructionToTimeline(instruction, opts.duration, opts.delay)
		furthest = math.Max(furthest, timings.Duration+timings.Delay)
	}
	return furthest
}

func (v *timelineBuilderVisitor) visitReference(ast *compiler.ReferenceAst, ctx *timelineContext) {
	ctx.updateOptions(ast.Options, true)
	v.visit(ast.Animation, ctx)
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitSequence(ast *compiler.SequenceAst, ctx *timelineContext) {
	subContextCount := ctx.subContextCount
	c := ctx
	opts := ast.Options
	if opts != nil && (opts.Params != nil || opts.Delay != nil) {
		c = ctx.createSubContext(opts, nil, 0)
		c.transformIntoNewTimeline(0)
		if opts.Delay != nil {
			if _, ok := c.previousNode.(*compiler.StyleAst); ok {
				c.currentTimeline.snapshotCurrentStyles()
				c.previousNode = nil
			}
			c.delayNextStep(compiler.ResolveTimingValue(opts.Delay))
		}
	}

	if len(ast.Steps) > 0 {
		for _, step := range ast.Steps {
			v.visit(step, c)
		}
		// the steps may end with a style() call
		c.currentTimeline.applyStylesToKeyframe()
		// a step forked a sub timeline, so this timeline cannot overlap the sequence
		if c.subContextCount > subContextCount {
			c.transformIntoNewTimeline(0)
		}
	}
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitGroup(ast *compiler.GroupAst, ctx *timelineContext) {
	var inner []*timelineBuilder
	furthest := ctx.currentTimeline.currentTime()
	delay := 0.0
	if ast.Options != nil && ast.Options.Delay != nil {
		delay = compiler.ResolveTimingValue(ast.Options.Delay)
	}

	for _, step := range ast.Steps {
		c := ctx.createSubContext(ast.Options, nil, 0)
		if delay != 0 {
			c.delayNextStep(delay)
		}
		v.visit(step, c)
		furthest = math.Max(furthest, c.currentTimeline.currentTime())
		inner = append(inner, c.currentTimeline)
	}

	// merged after the loop so forked timelines saw the parent's styles untouched
	for _, tl := range inner {
		ctx.currentTimeline.mergeTimelineCollectedStyles(tl)
	}
	ctx.transformIntoNewTimeline(furthest)
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitTiming(ast *compiler.TimingAst, ctx *timelineContext) compiler.Timings {
	if ast.Dynamic {
		value := ast.Source
		if ctx.options.params != nil {
			value = compiler.InterpolateParams(value, ctx.options.params, ctx.errors)
		}
		return compiler.ResolveTiming(value, ctx.errors, false)
	}
	return ast.Timings
}

func (v *timelineBuilderVisitor) visitAnimate(ast *compiler.AnimateAst, ctx *timelineContext) {
	timings := v.visitTiming(ast.Timings, ctx)
	ctx.currentAnimateTimings = &timings
	tl := ctx.currentTimeline
	if timings.Delay != 0 {
		ctx.incrementTime(timings.Delay)
		tl.snapshotCurrentStyles()
	}

	switch s := ast.Style.(type) {
	case *compiler.KeyframesAst:
		v.visitKeyframes(s, ctx)
	case *compiler.StyleAst:
		ctx.incrementTime(timings.Duration)
		v.visitStyle(s, ctx)
		tl.applyStylesToKeyframe()
	}

	ctx.currentAnimateTimings = nil
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitStyle(ast *compiler.StyleAst, ctx *timelineContext) {
	tl := ctx.currentTimeline
	timings := ctx.currentAnimateTimings

	// a style() directly following an animate() starts on the next frame
	if timings == nil && tl.hasCurrentStyleProperties() {
		tl.forwardFrame()
	}

	easing := ast.Easing
	if timings != nil && timings.Easing != "" {
		easing = timings.Easing
	}
	if ast.IsEmptyStep {
		tl.applyEmptyStep(easing)
	} else {
		tl.setStyles(ast.Styles, easing, ctx.errors, ctx.options.params)
	}
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitKeyframes(ast *compiler.KeyframesAst, ctx *timelineContext) {
	timings := ctx.currentAnimateTimings
	start := ctx.currentTimeline.duration
	duration := timings.Duration
	inner := ctx.createSubContext(nil, nil, 0)
	innerTl := inner.currentTimeline
	innerTl.easing = timings.Easing

	for _, step := range ast.Styles {
		offset := 0.0
		if step.Offset != nil {
			offset = *step.Offset
		}
		innerTl.forwardTime(offset * duration)
		innerTl.setStyles(step.Styles, step.Easing, ctx.errors, ctx.options.params)
		innerTl.applyStylesToKeyframe()
	}

	// the parent timeline gets the child's styles even if the fork below is never used
	ctx.currentTimeline.mergeTimelineCollectedStyles(innerTl)
	ctx.transformIntoNewTimeline(start + duration)
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitQuery(ast *compiler.QueryAst, ctx *timelineContext) {
	start := ctx.currentTimeline.currentTime()
	delay := 0.0
	if ast.Options != nil && ast.Options.Delay != nil {
		delay = compiler.ResolveTimingValue(ast.Options.Delay)
	}

	_, afterStyle := ctx.previousNode.(*compiler.StyleAst)
	if delay != 0 && (afterStyle || (start == 0 && ctx.currentTimeline.hasCurrentStyleProperties())) {
		ctx.currentTimeline.snapshotCurrentStyles()
		ctx.previousNode = nil
	}

	furthest := start
	elements := ctx.invokeQuery(ast.Selector, ast.OriginalSelector, ast.Limit, ast.IncludeSelf, ast.Optional, ctx.errors)

	ctx.currentQueryTotal = len(elements)
	var sameElementTimeline *timelineBuilder
	for i, el := range elements {
		ctx.currentQueryIndex = i
		inner := ctx.createSubContext(ast.Options, el, 0)
		if delay != 0 {
			inner.delayNextStep(delay)
		}
		if sameElement(el, ctx.element) {
			sameElementTimeline = inner.currentTimeline
		}
		v.visit(ast.Animation, inner)
		// the query may end with a style() call
		inner.currentTimeline.applyStylesToKeyframe()
		furthest = math.Max(furthest, inner.currentTimeline.currentTime())
	}

	ctx.currentQueryIndex = 0
	ctx.currentQueryTotal = 0
	ctx.transformIntoNewTimeline(furthest)

	if sameElementTimeline != nil {
		ctx.currentTimeline.mergeTimelineCollectedStyles(sameElementTimeline)
		ctx.currentTimeline.snapshotCurrentStyles()
	}
	ctx.previousNode = ast
}

func (v *timelineBuilderVisitor) visitStagger(ast *compiler.StaggerAst, ctx *timelineContext) {
	parent := ctx.parentContext
	tl := ctx.currentTimeline
	timings := ast.Timings
	duration := math.Abs(timings.Duration)
	maxTime := duration * float64(ctx.currentQueryTotal-1)
	delay := duration * float64(ctx.currentQueryIndex)

	transform := timings.Easing
	if timings.Duration < 0 {
		transform = "reverse"
	}
	switch transform {
	case "reverse":
		delay = maxTime - delay
	case fullStagger:
		if parent != nil {
			delay = parent.currentStaggerTime
		}
	}

	if delay != 0 {
		tl.delayNextStep(delay)
	}

	startingTime := tl.currentTime()
	v.visit(ast.Animation, ctx)
	ctx.previousNode = ast

	if parent != nil {
		parent.currentStaggerTime = tl.currentTime() - startingTime + (tl.startTime - parent.currentTimeline.startTime)
	}
}

type timelineOptions struct {
	params   map[string]any
	delay    *float64
	duration *float64
}

type timelineContext struct {
	querier         Querier
	element         domain.Element
	subInstructions *ElementInstructionMap
	enterClassName  string
	leaveClassName  string
	errors          *[]string
	timelines       *[]timeline

	parentContext         *timelineContext
	currentTimeline       *timelineBuilder
	currentAnimateTimings *compiler.Timings
	previousNode          compiler.Ast
	subContextCount       int
	options               timelineOptions
	currentQueryIndex     int
	currentQueryTotal     int
	currentStaggerTime    float64
}

func newTimelineContext(querier Querier, el domain.Element, sub *ElementInstructionMap, enter, leave string, errors *[]string, timelines *[]timeline, initial *timelineBuilder) *timelineContext {
	ctx := &timelineContext{
		querier:         querier,
		element:         el,
		subInstructions: sub,
		enterClassName:  enter,
		leaveClassName:  leave,
		errors:          errors,
		timelines:       timelines,
		currentTimeline: initial,
	}
	if ctx.currentTimeline == nil {
		ctx.currentTimeline = newTimelineBuilder(el, 0, nil)
	}
	*timelines = append(*timelines, ctx.currentTimeline)
	return ctx
}

func (c *timelineContext) updateOptions(opts *domain.Options, skipIfExists bool) {
	if opts == nil {
		return
	}
	if opts.Duration != nil {
		d := compiler.ResolveTimingValue(opts.Duration)
		c.options.duration = &d
	}
	if opts.Delay != nil {
		d := compiler.ResolveTimingValue(opts.Delay)
		c.options.delay = &d
	}
	if len(opts.Params) > 0 {
		if c.options.params == nil {
			c.options.params = map[string]any{}
		}
		names := make([]string, 0, len(opts.Params))
		for name := range opts.Params {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			if _, exists := c.options.params[name]; skipIfExists && exists {
				continue
			}
			value := opts.Params[name]
			if s, ok := value.(string); ok {
				c.options.params[name] = compiler.InterpolateParams(s, c.options.params, c.errors)
			} else {
				c.options.params[name] = value
			}
		}
	}
}

func (c *timelineContext) copyOptions() timelineOptions {
	var out timelineOptions
	if c.options.params != nil {
		out.params = compiler.NormalizeParams(c.options.params)
	}
	return out
}

// createSubContext forks the current timeline for el (or the context element).
func (c *timelineContext) createSubContext(opts *domain.Options, el domain.Element, newTime float64) *timelineContext {
	target := el
	if target == nil {
		target = c.element
	}
	sub := newTimelineContext(c.querier, target, c.subInstructions, c.enterClassName, c.leaveClassName, c.errors, c.timelines,
		c.currentTimeline.fork(target, newTime))
	sub.previousNode = c.previousNode
	sub.currentAnimateTimings = c.currentAnimateTimings
	sub.options = c.copyOptions()
	sub.updateOptions(opts, false)
	sub.currentQueryIndex = c.currentQueryIndex
	sub.currentQueryTotal = c.currentQueryTotal
	sub.parentContext = c
	c.subContextCount++
	return sub
}

func (c *timelineContext) transformIntoNewTimeline(newTime float64) *timelineBuilder {
	c.previousNode = nil
	c.currentTimeline = c.currentTimeline.fork(c.element, newTime)
	*c.timelines = append(*c.timelines, c.currentTimeline)
	return c.currentTimeline
}

func (c *timelineContext) appendInstructionToTimeline(instruction *domain.TimelineInstruction, duration, delay *float64) compiler.Timings {
	timings := compiler.Timings{Duration: instruction.Duration, Delay: c.currentTimeline.currentTime() + instruction.Delay}
	if duration != nil {
		timings.Duration = *duration
	}
	if delay != nil {
		timings.Delay += *delay
	}
	*c.timelines = append(*c.timelines, newSubTimelineBuilder(instruction, timings))
	return timings
}

func (c *timelineContext) incrementTime(t float64) {
	c.currentTimeline.forwardTime(c.currentTimeline.duration + t)
}

// delayNextStep ignores negative delays.
func (c *timelineContext) delayNextStep(delay float64) {
	if delay > 0 {
		c.currentTimeline.delayNextStep(delay)
	}
}

func (c *timelineContext) invokeQuery(selector, originalSelector string, limit int, includeSelf, optional bool, errors *[]string) []domain.Element {
	var results []domain.Element
	if includeSelf {
		results = append(results, c.element)
	}
	// the selector is only empty when :self was used alone
	if selector != "" {
		selector = strings.ReplaceAll(selector, enterToken, "."+c.enterClassName)
		selector = strings.ReplaceAll(selector, leaveToken, "."+c.leaveClassName)
		elements := c.querier.Query(c.element, selector, limit != 1)
		if limit != 0 {
			if limit < 0 {
				from := len(elements) + limit
				if from < 0 {
					from = 0
				}
				elements = elements[from:]
			} else if limit < len(elements) {
				elements = elements[:limit]
			}
		}
		results = append(results, elements...)
	}
	if !optional && len(results) == 0 {
		*errors = append(*errors, fmt.Sprintf("`query(\"%s\")` returned zero elements. (Use `query(\"%s\", { optional: true })` if you wish to allow this.)", originalSelector, originalSelector))
	}
	return results
}
