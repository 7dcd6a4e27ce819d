package player

import (
	"math"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// Group drives several players as one. It starts, finishes and is destroyed
// once every child has.
type Group struct {
	players []ports.Player

	onStartFns, onDoneFns, onDestroyFns []func()

	started, finished, destroyed bool
	totalTime                    float64
	parent                       ports.Player
}

// NewGroup wraps players. With no players the group finishes through the scheduler.
func NewGroup(players []ports.Player, opts ...Option) *Group {
	o := buildOptions(opts)
	g := &Group{players: players}

	total := len(players)
	if total == 0 {
		o.scheduler.Schedule(g.onFinish)
	} else {
		var doneCount, destroyCount, startCount int
		for _, p := range players {
			p.SetParent(g)
			p.OnDone(func() {
				doneCount++
				if doneCount == total {
					g.onFinish()
				}
			})
			p.OnDestroy(func() {
				destroyCount++
				if destroyCount == total {
					g.onDestroy()
				}
			})
			p.OnStart(func() {
				startCount++
				if startCount == total {
					g.onStart()
				}
			})
		}
	}
	for _, p := range players {
		g.totalTime = math.Max(g.totalTime, p.TotalTime())
	}
	return g
}

// OptimizeGroupPlayer avoids wrapping when zero or one player is involved.
func OptimizeGroupPlayer(players []ports.Player, opts ...Option) ports.Player {
	switch len(players) {
	case 0:
		return NewNoop(0, 0, opts...)
	case 1:
		return players[0]
	default:
		return NewGroup(players, opts...)
	}
}

// Players returns the wrapped players.
func (g *Group) Players() []ports.Player { return g.players }

func (g *Group) OnStart(fn func())   { g.onStartFns = append(g.onStartFns, fn) }
func (g *Group) OnDone(fn func())    { g.onDoneFns = append(g.onDoneFns, fn) }
func (g *Group) OnDestroy(fn func()) { g.onDestroyFns = append(g.onDestroyFns, fn) }

func (g *Group) Init() {
	for _, p := range g.players {
		p.Init()
	}
}

func (g *Group) HasStarted() bool { return g.started }

// Play initializes the children unless a parent already did.
func (g *Group) Play() {
	if g.parent == nil {
		g.Init()
	}
	g.onStart()
	for _, p := range g.players {
		p.Play()
	}
}

func (g *Group) Pause() {
	for _, p := range g.players {
		p.Pause()
	}
}

func (g *Group) Restart() {
	for _, p := range g.players {
		p.Restart()
	}
}

func (g *Group) Finish() {
	g.onFinish()
	for _, p := range g.players {
		p.Finish()
	}
}

func (g *Group) Destroy() { g.onDestroy() }

func (g *Group) Reset() {
	for _, p := range g.players {
		p.Reset()
	}
	g.destroyed = false
	g.finished = false
	g.started = false
}

// SetPosition maps p over the group's total time onto each child.
func (g *Group) SetPosition(p float64) {
	at := p * g.totalTime
	for _, pl := range g.players {
		pos := 1.0
		if t := pl.TotalTime(); t != 0 {
			pos = math.Min(1, at/t)
		}
		pl.SetPosition(pos)
	}
}

// Position is the position of the longest child.
func (g *Group) Position() float64 {
	var longest ports.Player
	for _, p := range g.players {
		if longest == nil || p.TotalTime() > longest.TotalTime() {
			longest = p
		}
	}
	if longest == nil {
		return 0
	}
	return longest.Position()
}

// BeforeDestroy lets interruptible children capture their styles.
func (g *Group) BeforeDestroy() {
	for _, p := range g.players {
		if i, ok := p.(ports.Interruptible); ok {
			i.BeforeDestroy()
		}
	}
}

func (g *Group) TotalTime() float64       { return g.totalTime }
func (g *Group) Parent() ports.Player     { return g.parent }
func (g *Group) SetParent(p ports.Player) { g.parent = p }

func (g *Group) TriggerCallback(phase string) {
	var fns []func()
	if phase == domain.PhaseStart {
		fns, g.onStartFns = g.onStartFns, nil
	} else {
		fns, g.onDoneFns = g.onDoneFns, nil
	}
	for _, fn := range fns {
		fn()
	}
}

func (g *Group) onStart() {
	if g.started {
		return
	}
	g.started = true
	fns := g.onStartFns
	g.onStartFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (g *Group) onFinish() {
	if g.finished {
		return
	}
	g.finished = true
	fns := g.onDoneFns
	g.onDoneFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (g *Group) onDestroy() {
	if g.destroyed {
		return
	}
	g.destroyed = true
	g.onFinish()
	for _, p := range g.players {
		p.Destroy()
	}
	fns := g.onDestroyFns
	g.onDestroyFns = nil
	for _, fn := range fns {
		fn()
	}
}
