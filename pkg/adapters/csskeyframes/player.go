package csskeyframes

import (
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// Backend is the name keyframes players accept snapshots from.
const Backend = "css-keyframes"

type controlState int

const (
	stateReset controlState = iota
	stateInitialized
	stateStarted
	stateFinished
	stateDestroyed
)

// Player runs a generated @keyframes rule on an element.
type Player struct {
	element     ports.Styled
	keyframes   []domain.Keyframe
	name        string
	duration    float64
	delay       float64
	easing      string
	finalStyles domain.StyleMap
	special     *styles.SpecialCased
	compute     styles.ComputeFunc
	now         func() time.Time

	onStartFns, onDoneFns, onDestroyFns []func()

	styler   *styler
	state    controlState
	parent   ports.Player
	snapshot domain.StyleMap
}

func newPlayer(el ports.Styled, keyframes []domain.Keyframe, name string, duration, delay float64, easing string, finalStyles domain.StyleMap, special *styles.SpecialCased, compute styles.ComputeFunc, now func() time.Time) *Player {
	p := &Player{
		element:     el,
		keyframes:   keyframes,
		name:        name,
		duration:    duration,
		delay:       delay,
		easing:      easing,
		finalStyles: finalStyles,
		special:     special,
		compute:     compute,
		now:         now,
		snapshot:    domain.StyleMap{},
	}
	p.buildStyler()
	return p
}

func (p *Player) buildStyler() {
	p.styler = newStyler(p.element, p.name, p.duration, p.delay, p.easing, "forwards", p.now, p.Finish)
}

// Name returns the generated @keyframes name.
func (p *Player) Name() string { return p.name }

func (p *Player) Keyframes() []domain.Keyframe { return p.keyframes }

func (p *Player) OnStart(fn func())   { p.onStartFns = append(p.onStartFns, fn) }
func (p *Player) OnDone(fn func())    { p.onDoneFns = append(p.onDoneFns, fn) }
func (p *Player) OnDestroy(fn func()) { p.onDestroyFns = append(p.onDestroyFns, fn) }

func (p *Player) Init() {
	if p.state >= stateInitialized {
		return
	}
	p.state = stateInitialized
	p.styler.apply()
	if p.delay != 0 {
		p.styler.pause()
	}
}

func (p *Player) HasStarted() bool { return p.state >= stateStarted }

func (p *Player) Play() {
	p.Init()
	if !p.HasStarted() {
		p.flushStart()
		p.state = stateStarted
		if p.special != nil {
			p.special.Start()
		}
	}
	p.styler.resume()
}

func (p *Player) Pause() {
	p.Init()
	p.styler.pause()
}

func (p *Player) Finish() {
	if p.state >= stateFinished {
		return
	}
	p.state = stateFinished
	p.styler.finish()
	p.flushStart()
	if p.special != nil {
		p.special.Finish()
	}
	p.flushDone()
}

func (p *Player) Destroy() {
	if p.state >= stateDestroyed {
		return
	}
	p.state = stateDestroyed
	p.BeforeDestroy()
	p.styler.destroy()
	p.flushStart()
	p.flushDone()
	if p.special != nil {
		p.special.Destroy()
	}
	fns := p.onDestroyFns
	p.onDestroyFns = nil
	for _, fn := range fns {
		fn()
	}
}

// Reset removes the running animation and applies a fresh one.
func (p *Player) Reset() {
	p.state = stateReset
	p.styler.destroy()
	p.buildStyler()
	p.styler.apply()
}

func (p *Player) Restart() {
	p.Reset()
	p.Play()
}

func (p *Player) SetPosition(pos float64) { p.styler.setPosition(pos) }

func (p *Player) Position() float64 {
	if p.duration == 0 {
		return 1
	}
	return p.styler.getPosition() / p.duration
}

func (p *Player) TotalTime() float64        { return p.duration + p.delay }
func (p *Player) Parent() ports.Player      { return p.parent }
func (p *Player) SetParent(pl ports.Player) { p.parent = pl }

func (p *Player) TriggerCallback(phase string) {
	if phase == domain.PhaseStart {
		p.flushStart()
	} else {
		p.flushDone()
	}
}

// BeforeDestroy captures the final styles once finished, or the computed
// values while the animation is still running.
func (p *Player) BeforeDestroy() {
	captures := domain.StyleMap{}
	if p.HasStarted() {
		finished := p.state >= stateFinished
		for prop, value := range p.finalStyles {
			if finished {
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

func (p *Player) flushStart() {
	fns := p.onStartFns
	p.onStartFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (p *Player) flushDone() {
	fns := p.onDoneFns
	p.onDoneFns = nil
	for _, fn := range fns {
		fn()
	}
}

var _ ports.SnapshotMerger = (*Player)(nil)
