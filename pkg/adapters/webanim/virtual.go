package webanim

import (
	"math"
	"regexp"
	"strconv"
	"sync"

	"github.com/aretw0/cadence/pkg/domain"
)

var numericRe = regexp.MustCompile(`^([+-]?(?:\d+\.?\d*|\.\d+))([a-z%]*)$`)

// Timeline runs virtual animations on a manually advanced clock. It stands in
// for the browser when previewing or testing timelines.
type Timeline struct {
	mu         sync.Mutex
	animations []*VirtualAnimation
}

func NewTimeline() *Timeline {
	return &Timeline{}
}

// Animate is an AnimateFunc creating paused virtual animations.
func (t *Timeline) Animate(el domain.Element, keyframes []domain.Keyframe, timing Timing) Animation {
	a := &VirtualAnimation{element: el, keyframes: keyframes, timing: timing}
	t.mu.Lock()
	t.animations = append(t.animations, a)
	t.mu.Unlock()
	return a
}

// Animations returns every animation created so far.
func (t *Timeline) Animations() []*VirtualAnimation {
	t.mu.Lock()
	defer t.mu.Unlock()
	return append([]*VirtualAnimation(nil), t.animations...)
}

// Advance moves every playing animation forward by ms, firing finish
// listeners of the ones that reach their end.
func (t *Timeline) Advance(ms float64) {
	for _, a := range t.Animations() {
		a.advance(ms)
	}
}

// VirtualAnimation samples its keyframes at the current time.
type VirtualAnimation struct {
	element   domain.Element
	keyframes []domain.Keyframe
	timing    Timing

	playing  bool
	finished bool
	current  float64
	onFinish []func()
}

func (a *VirtualAnimation) Element() domain.Element { return a.element }
func (a *VirtualAnimation) Timing() Timing          { return a.timing }
func (a *VirtualAnimation) Playing() bool           { return a.playing }

func (a *VirtualAnimation) Play() {
	if a.finished {
		a.finished = false
		a.current = 0
	}
	a.playing = true
}

func (a *VirtualAnimation) Pause() { a.playing = false }

func (a *VirtualAnimation) Finish() {
	a.current = a.end()
	a.complete()
}

// Cancel rewinds the animation and stops it without firing finish listeners.
func (a *VirtualAnimation) Cancel() {
	a.playing = false
	a.finished = false
	a.current = 0
}

func (a *VirtualAnimation) CurrentTime() float64 { return a.current }

func (a *VirtualAnimation) SetCurrentTime(ms float64) {
	a.current = math.Max(0, math.Min(ms, a.end()))
}

func (a *VirtualAnimation) OnFinish(fn func()) { a.onFinish = append(a.onFinish, fn) }

func (a *VirtualAnimation) end() float64 { return a.timing.Delay + a.timing.Duration }

func (a *VirtualAnimation) advance(ms float64) {
	if !a.playing {
		return
	}
	a.current += ms
	if a.current >= a.end() {
		a.current = a.end()
		a.complete()
	}
}

func (a *VirtualAnimation) complete() {
	if a.finished {
		return
	}
	a.playing = false
	a.finished = true
	for _, fn := range a.onFinish {
		fn()
	}
}

// Sample returns the interpolated styles at the current time. Before the
// delay elapses the first keyframe holds only when the fill mode allows it.
func (a *VirtualAnimation) Sample() domain.StyleMap {
	if len(a.keyframes) == 0 {
		return domain.StyleMap{}
	}
	local := a.current - a.timing.Delay
	if local < 0 {
		if a.timing.Fill == "both" || a.timing.Fill == "backwards" {
			return a.keyframes[0].Styles.Copy()
		}
		return domain.StyleMap{}
	}
	progress := 1.0
	if a.timing.Duration > 0 {
		progress = math.Min(local/a.timing.Duration, 1)
	}
	return SampleKeyframes(a.keyframes, Ease(a.timing.Easing, progress))
}

// SampleKeyframes interpolates keyframes at progress (0..1). Numeric values
// sharing a unit are interpolated linearly; anything else flips halfway.
func SampleKeyframes(keyframes []domain.Keyframe, progress float64) domain.StyleMap {
	if len(keyframes) == 0 {
		return domain.StyleMap{}
	}
	first, last := keyframes[0], keyframes[len(keyframes)-1]
	if progress <= first.Offset {
		return first.Styles.Copy()
	}
	if progress >= last.Offset {
		return last.Styles.Copy()
	}

	var from, to domain.Keyframe
	for i := 0; i < len(keyframes)-1; i++ {
		if progress >= keyframes[i].Offset && progress < keyframes[i+1].Offset {
			from, to = keyframes[i], keyframes[i+1]
			break
		}
	}
	span := to.Offset - from.Offset
	t := 1.0
	if span > 0 {
		t = Ease(from.Easing, (progress-from.Offset)/span)
	}

	out := from.Styles.Copy()
	for prop, target := range to.Styles {
		start, ok := from.Styles[prop]
		if !ok {
			out[prop] = target
			continue
		}
		out[prop] = interpolate(start, target, t)
	}
	return out
}

func interpolate(from, to string, t float64) string {
	a := numericRe.FindStringSubmatch(from)
	b := numericRe.FindStringSubmatch(to)
	if a == nil || b == nil || (a[2] != b[2] && a[1] != "0" && b[1] != "0") {
		if t < 0.5 {
			return from
		}
		return to
	}
	unit := a[2]
	if unit == "" {
		unit = b[2]
	}
	x, _ := strconv.ParseFloat(a[1], 64)
	y, _ := strconv.ParseFloat(b[1], 64)
	v := math.Round((x+(y-x)*t)*1000) / 1000
	return strconv.FormatFloat(v, 'f', -1, 64) + unit
}

// Ease maps linear progress through a named timing function. Unknown names
// are treated as linear.
func Ease(name string, t float64) float64 {
	switch name {
	case "ease-in":
		return t * t * t
	case "ease-out":
		return 1 - math.Pow(1-t, 3)
	case "ease", "ease-in-out":
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	default:
		return t
	}
}
