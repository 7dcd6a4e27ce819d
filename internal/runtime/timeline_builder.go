package runtime

import (
	"math"
	"sort"

	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
)

type timeline interface {
	target() domain.Element
	containsAnimation() bool
	buildKeyframes() *domain.TimelineInstruction
}

type styleAtTime struct {
	time  float64
	value string
}

// elementStyles is shared by every timeline of a build so that timelines of
// the same element see each other's styles.
type elementStyles map[string]domain.StyleMap

// timelineBuilder records keyframes for one element, keyed by the time they
// were written at. Keyframes keep their insertion order. Each keyframe only
// stores its own values; missing ones come from backFill when built.
type timelineBuilder struct {
	element   domain.Element
	startTime float64
	duration  float64
	easing    string

	times     []float64
	keyframes map[float64]domain.StyleMap

	previousKeyframe domain.StyleMap
	currentKeyframe  domain.StyleMap
	// emptyStepAt is the key of the keyframe written by the last empty step.
	emptyStepAt *float64

	styleSummary   map[string]styleAtTime
	localStyles    domain.StyleMap
	globalStyles   domain.StyleMap
	pendingStyles  domain.StyleMap
	backFill       domain.StyleMap
	elementLookups elementStyles
}

func newTimelineBuilder(el domain.Element, startTime float64, lookup elementStyles) *timelineBuilder {
	if lookup == nil {
		lookup = elementStyles{}
	}
	tb := &timelineBuilder{
		element:        el,
		startTime:      startTime,
		keyframes:      make(map[float64]domain.StyleMap),
		styleSummary:   make(map[string]styleAtTime),
		localStyles:    domain.StyleMap{},
		pendingStyles:  domain.StyleMap{},
		backFill:       domain.StyleMap{},
		elementLookups: lookup,
	}
	key := ""
	if el != nil {
		key = el.ID()
	}
	tb.globalStyles = lookup[key]
	if tb.globalStyles == nil {
		tb.globalStyles = tb.localStyles
		lookup[key] = tb.localStyles
	}
	tb.loadKeyframe()
	return tb
}

func (t *timelineBuilder) target() domain.Element { return t.element }

func (t *timelineBuilder) containsAnimation() bool {
	switch len(t.keyframes) {
	case 0:
		return false
	case 1:
		return t.hasCurrentStyleProperties()
	default:
		return true
	}
}

func (t *timelineBuilder) hasCurrentStyleProperties() bool { return len(t.currentKeyframe) > 0 }

func (t *timelineBuilder) currentTime() float64 { return t.startTime + t.duration }

func (t *timelineBuilder) delayNextStep(delay float64) {
	// styles set before the first step must hold until the delay has passed
	hasPreStyleStep := len(t.keyframes) == 1 && len(t.pendingStyles) > 0
	if t.duration != 0 || hasPreStyleStep {
		t.forwardTime(t.currentTime() + delay)
		if hasPreStyleStep {
			t.snapshotCurrentStyles()
		}
	} else {
		t.startTime += delay
	}
}

// fork starts a new timeline at currentTime, or at the end of this one when
// currentTime is zero.
func (t *timelineBuilder) fork(el domain.Element, currentTime float64) *timelineBuilder {
	t.applyStylesToKeyframe()
	if currentTime == 0 {
		currentTime = t.currentTime()
	}
	return newTimelineBuilder(el, currentTime, t.elementLookups)
}

func (t *timelineBuilder) loadKeyframe() {
	if t.currentKeyframe != nil {
		t.previousKeyframe = t.currentKeyframe
	}
	kf, ok := t.keyframes[t.duration]
	if !ok {
		kf = domain.StyleMap{}
		t.keyframes[t.duration] = kf
		t.times = append(t.times, t.duration)
	}
	t.currentKeyframe = kf
}

func (t *timelineBuilder) forwardFrame() {
	t.duration += oneFrame
	t.loadKeyframe()
}

func (t *timelineBuilder) forwardTime(time float64) {
	t.applyStylesToKeyframe()
	t.duration = time
	t.loadKeyframe()
}

func (t *timelineBuilder) updateStyle(prop, value string) {
	t.localStyles[prop] = value
	t.globalStyles[prop] = value
	t.styleSummary[prop] = styleAtTime{time: t.currentTime(), value: value}
}

func (t *timelineBuilder) allowOnlyTimelineStyles() bool {
	return t.emptyStepAt == nil || *t.emptyStepAt != t.duration
}

// applyEmptyStep animates every known property back to its auto value.
func (t *timelineBuilder) applyEmptyStep(easing string) {
	if easing != "" && t.previousKeyframe != nil {
		t.previousKeyframe[easingKey] = easing
	}
	for prop, value := range t.globalStyles {
		if value == "" {
			value = domain.AutoStyle
		}
		t.backFill[prop] = value
		t.currentKeyframe[prop] = domain.AutoStyle
	}
	at := t.duration
	t.emptyStepAt = &at
}

func (t *timelineBuilder) setStyles(input []compiler.StyleTuple, easing string, errors *[]string, params map[string]any) {
	if easing != "" && t.previousKeyframe != nil {
		t.previousKeyframe[easingKey] = easing
	}
	if params == nil {
		params = map[string]any{}
	}
	styles := flattenStyles(input, t.globalStyles)
	for _, prop := range styles.Keys() {
		value := compiler.InterpolateParams(styles[prop], params, errors)
		t.pendingStyles[prop] = value
		if _, own := t.localStyles[prop]; !own {
			if global, ok := t.globalStyles[prop]; ok {
				t.backFill[prop] = global
			} else {
				t.backFill[prop] = domain.AutoStyle
			}
		}
		t.updateStyle(prop, value)
	}
}

func (t *timelineBuilder) applyStylesToKeyframe() {
	if len(t.pendingStyles) == 0 {
		return
	}
	styles := t.pendingStyles
	t.pendingStyles = domain.StyleMap{}
	for prop, value := range styles {
		t.currentKeyframe[prop] = value
	}
	for prop, value := range t.localStyles {
		if _, ok := t.currentKeyframe[prop]; !ok {
			t.currentKeyframe[prop] = value
		}
	}
}

func (t *timelineBuilder) snapshotCurrentStyles() {
	for _, prop := range t.localStyles.Keys() {
		value := t.localStyles[prop]
		t.pendingStyles[prop] = value
		t.updateStyle(prop, value)
	}
}

// mergeTimelineCollectedStyles adopts every style other wrote later than this
// timeline did.
func (t *timelineBuilder) mergeTimelineCollectedStyles(other *timelineBuilder) {
	props := make([]string, 0, len(other.styleSummary))
	for prop := range other.styleSummary {
		props = append(props, prop)
	}
	sort.Strings(props)
	for _, prop := range props {
		mine, ok := t.styleSummary[prop]
		theirs := other.styleSummary[prop]
		if !ok || theirs.time > mine.time {
			t.updateStyle(prop, theirs.value)
		}
	}
}

func (t *timelineBuilder) buildKeyframes() *domain.TimelineInstruction {
	t.applyStylesToKeyframe()
	pre := map[string]bool{}
	post := map[string]bool{}
	isEmpty := len(t.keyframes) == 1 && t.duration == 0

	var out []domain.Keyframe
	for _, time := range t.times {
		kf := domain.Keyframe{Styles: domain.StyleMap{}}
		for prop, value := range t.backFill {
			kf.Styles[prop] = value
		}
		for prop, value := range t.keyframes[time] {
			kf.Styles[prop] = value
		}
		if easing, ok := kf.Styles[easingKey]; ok {
			kf.Easing = easing
			delete(kf.Styles, easingKey)
		}
		for prop, value := range kf.Styles {
			switch value {
			case domain.PreStyle:
				pre[prop] = true
			case domain.AutoStyle:
				post[prop] = true
			}
		}
		if !isEmpty {
			kf.Offset = time / t.duration
		}
		out = append(out, kf)
	}

	if isEmpty {
		first := out[0]
		first.Offset = 0
		last := first.Copy()
		last.Offset = 1
		out = []domain.Keyframe{first, last}
	}
	return domain.NewTimelineInstruction(t.element, out, sortedSet(pre), sortedSet(post), t.duration, t.startTime, t.easing, false)
}

// subTimelineBuilder replays the keyframes of an instruction built for a
// child animation inside a parent animation.
type subTimelineBuilder struct {
	element  domain.Element
	instr    *domain.TimelineInstruction
	duration float64
	delay    float64
	easing   string
}

func newSubTimelineBuilder(instruction *domain.TimelineInstruction, timings compiler.Timings) *subTimelineBuilder {
	return &subTimelineBuilder{
		element:  instruction.Element,
		instr:    instruction,
		duration: timings.Duration,
		delay:    timings.Delay,
		easing:   timings.Easing,
	}
}

func (s *subTimelineBuilder) target() domain.Element { return s.element }

func (s *subTimelineBuilder) containsAnimation() bool { return len(s.instr.Keyframes) > 1 }

func (s *subTimelineBuilder) buildKeyframes() *domain.TimelineInstruction {
	keyframes := s.instr.Keyframes
	duration, delay, easing := s.duration, s.delay, s.easing

	if s.instr.StretchStartingKeyframe && delay != 0 {
		total := duration + delay
		startingGap := delay / total

		stretched := make([]domain.Keyframe, 0, len(keyframes)+1)
		first := keyframes[0].Copy()
		first.Offset = 0
		stretched = append(stretched, first)

		held := keyframes[0].Copy()
		held.Offset = roundOffset(startingGap, 3)
		stretched = append(stretched, held)

		for _, kf := range keyframes[1:] {
			kf = kf.Copy()
			timeAtKeyframe := delay + kf.Offset*duration
			kf.Offset = roundOffset(timeAtKeyframe/total, 3)
			stretched = append(stretched, kf)
		}

		duration = total
		delay = 0
		easing = ""
		keyframes = stretched
	}

	return domain.NewTimelineInstruction(s.element, keyframes, s.instr.PreStyleProps, s.instr.PostStyleProps, duration, delay, easing, true)
}

func roundOffset(offset float64, decimalPoints int) float64 {
	mult := math.Pow(10, float64(decimalPoints-1))
	return math.Round(offset*mult) / mult
}

// flattenStyles merges style tuples; the auto token sets every property known
// to allStyles to the auto value.
func flattenStyles(input []compiler.StyleTuple, allStyles domain.StyleMap) domain.StyleMap {
	styles := domain.StyleMap{}
	for _, tuple := range input {
		if tuple.Auto {
			for prop := range allStyles {
				styles[prop] = domain.AutoStyle
			}
			continue
		}
		for prop, value := range tuple.Props {
			styles[prop] = value
		}
	}
	return styles
}

func sortedSet(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
