package player

import (
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
)

// Option configures a player.
type Option func(*options)

type options struct {
	scheduler scheduler.Scheduler
}

// WithScheduler sets where deferred completion is queued. By default it runs immediately.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(o *options) {
		if s != nil {
			o.scheduler = s
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{scheduler: scheduler.Immediate}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Noop is a player that animates nothing. Playing it schedules its completion.
type Noop struct {
	onStartFns, onDoneFns, onDestroyFns   []func()
	originalOnStartFns, originalOnDoneFns []func()

	started, finished, destroyed bool
	position                     float64
	totalTime                    float64
	parent                       ports.Player
	scheduler                    scheduler.Scheduler
}

// NewNoop creates a no-op player whose total time is duration plus delay.
func NewNoop(duration, delay float64, opts ...Option) *Noop {
	o := buildOptions(opts)
	return &Noop{totalTime: duration + delay, scheduler: o.scheduler}
}

func (p *Noop) OnStart(fn func()) {
	p.originalOnStartFns = append(p.originalOnStartFns, fn)
	p.onStartFns = append(p.onStartFns, fn)
}

func (p *Noop) OnDone(fn func()) {
	p.originalOnDoneFns = append(p.originalOnDoneFns, fn)
	p.onDoneFns = append(p.onDoneFns, fn)
}

func (p *Noop) OnDestroy(fn func()) {
	p.onDestroyFns = append(p.onDestroyFns, fn)
}

func (p *Noop) Init()            {}
func (p *Noop) Pause()           {}
func (p *Noop) Restart()         {}
func (p *Noop) HasStarted() bool { return p.started }

func (p *Noop) Play() {
	if !p.started {
		p.onStart()
		p.scheduler.Schedule(p.onFinish)
	}
	p.started = true
}

func (p *Noop) Finish() { p.onFinish() }

// Destroy fires start (if it never ran), done and destroy callbacks, once.
func (p *Noop) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	if !p.started {
		p.onStart()
	}
	p.Finish()
	fns := p.onDestroyFns
	p.onDestroyFns = nil
	for _, fn := range fns {
		fn()
	}
}

// Reset rearms the start and done callbacks registered so far.
func (p *Noop) Reset() {
	p.started = false
	p.finished = false
	p.onStartFns = append([]func(){}, p.originalOnStartFns...)
	p.onDoneFns = append([]func(){}, p.originalOnDoneFns...)
}

func (p *Noop) SetPosition(pos float64) {
	if p.totalTime != 0 {
		p.position = pos * p.totalTime
	} else {
		p.position = 1
	}
}

func (p *Noop) Position() float64 {
	if p.totalTime != 0 {
		return p.position / p.totalTime
	}
	return 1
}

func (p *Noop) TotalTime() float64        { return p.totalTime }
func (p *Noop) Parent() ports.Player      { return p.parent }
func (p *Noop) SetParent(pl ports.Player) { p.parent = pl }

func (p *Noop) TriggerCallback(phase string) {
	var fns []func()
	if phase == domain.PhaseStart {
		fns, p.onStartFns = p.onStartFns, nil
	} else {
		fns, p.onDoneFns = p.onDoneFns, nil
	}
	for _, fn := range fns {
		fn()
	}
}

func (p *Noop) onStart() {
	fns := p.onStartFns
	p.onStartFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (p *Noop) onFinish() {
	if p.finished {
		return
	}
	p.finished = true
	fns := p.onDoneFns
	p.onDoneFns = nil
	for _, fn := range fns {
		fn()
	}
}
