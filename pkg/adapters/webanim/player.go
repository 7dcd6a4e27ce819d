package webanim

import (
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// Backend is the name web animations players accept snapshots from.
const Backend = "web-animations"

// Player controls one native animation.
type Player struct {
	element   domain.Element
	keyframes []domain.Keyframe
	timing    Timing
	animate   AnimateFunc
	special   *styles.SpecialCased
	compute   styles.ComputeFunc

	onStartFns, onDoneFns, onDestroyFns []func()

	initialized, started, finished, destroyed bool

	native        Animation
	finalKeyframe domain.StyleMap
	parent        ports.Player
	snapshot      domain.StyleMap
}

func newPlayer(el domain.Element, keyframes []domain.Keyframe, timing Timing, animate AnimateFunc, special *styles.SpecialCased, compute styles.ComputeFunc) *Player {
	return &Player{
		element:   el,
		keyframes: keyframes,
		timing:    timing,
		animate:   animate,
		special:   special,
		compute:   compute,
		snapshot:  domain.StyleMap{},
	}
}

func (p *Player) Keyframes() []domain.Keyframe { return p.keyframes }
func (p *Player) Timing() Timing               { return p.timing }

// Native returns the underlying animation, or nil before Init or Play.
func (p *Player) Native() Animation { return p.native }

func (p *Player) OnStart(fn func())   { p.onStartFns = append(p.onStartFns, fn) }
func (p *Player) OnDone(fn func())    { p.onDoneFns = append(p.onDoneFns, fn) }
func (p *Player) OnDestroy(fn func()) { p.onDestroyFns = append(p.onDestroyFns, fn) }

func (p *Player) Init() {
	p.build()
	// keep the animation from running before Play
	if p.timing.Delay != 0 {
		p.native.Cancel()
	} else {
		p.native.Pause()
	}
}

func (p *Player) build() {
	if p.initialized {
		return
	}
	p.initialized = true
	p.native = p.animate(p.element, p.keyframes, p.timing)
	p.finalKeyframe = domain.StyleMap{}
	if n := len(p.keyframes); n > 0 {
		p.finalKeyframe = p.keyframes[n-1].Styles
	}
	p.native.OnFinish(p.onFinish)
}

func (p *Player) HasStarted() bool { return p.started }

func (p *Player) Play() {
	p.build()
	if !p.started {
		p.flush(&p.onStartFns)
		p.started = true
		if p.special != nil {
			p.special.Start()
		}
	}
	p.native.Play()
}

func (p *Player) Pause() {
	p.Init()
	p.native.Pause()
}

func (p *Player) Finish() {
	p.Init()
	if p.special != nil {
		p.special.Finish()
	}
	p.onFinish()
	p.native.Finish()
}

func (p *Player) Reset() {
	p.cancel()
	p.destroyed = false
	p.finished = false
	p.started = false
}

func (p *Player) Restart() {
	p.Reset()
	p.Play()
}

func (p *Player) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.cancel()
	p.onFinish()
	if p.special != nil {
		p.special.Destroy()
	}
	p.flush(&p.onDestroyFns)
}

func (p *Player) SetPosition(pos float64) {
	p.build()
	p.native.SetCurrentTime(pos * p.TotalTime())
}

func (p *Player) Position() float64 {
	if p.native == nil || p.TotalTime() == 0 {
		return 0
	}
	return p.native.CurrentTime() / p.TotalTime()
}

func (p *Player) TotalTime() float64        { return p.timing.Delay + p.timing.Duration }
func (p *Player) Parent() ports.Player      { return p.parent }
func (p *Player) SetParent(pl ports.Player) { p.parent = pl }

func (p *Player) TriggerCallback(phase string) {
	if phase == domain.PhaseStart {
		p.flush(&p.onStartFns)
	} else {
		p.flush(&p.onDoneFns)
	}
}

// BeforeDestroy captures the final keyframe once finished, or the computed
// values of its properties while still running.
func (p *Player) BeforeDestroy() {
	captures := domain.StyleMap{}
	if p.started {
		for prop, value := range p.finalKeyframe {
			if p.finished {
				captures[prop] = value
			} else {
				captures[prop] = p.compute(prop)
			}
		}
	}
	p.snapshot = captures
}

func (p *Player) CurrentSnapshot() domain.StyleMap { return p.snapshot }

func (p *Player) SupportsSnapshotMerge(backend string) bool { return backend == Backend }

func (p *Player) onFinish() {
	if p.finished {
		return
	}
	p.finished = true
	p.flush(&p.onDoneFns)
}

func (p *Player) cancel() {
	if p.native != nil {
		p.native.Cancel()
	}
}

func (p *Player) flush(fns *[]func()) {
	run := *fns
	*fns = nil
	for _, fn := range run {
		fn()
	}
}

var _ ports.SnapshotMerger = (*Player)(nil)
