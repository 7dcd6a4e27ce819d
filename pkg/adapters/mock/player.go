package mock

import (
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// Backend is the name mock players accept snapshots from.
const Backend = "mock"

// Player records what it was asked to animate and behaves like a no-op player.
type Player struct {
	*player.Noop

	Element         domain.Element
	Keyframes       []domain.Keyframe
	Duration        float64
	Delay           float64
	Easing          string
	PreviousPlayers []ports.Player

	// PreviousStyles holds the snapshots merged from interrupted players.
	PreviousStyles domain.StyleMap

	finished    bool
	initialized bool
	snapshot    domain.StyleMap
	onInitFns   []func()
}

func newPlayer(el domain.Element, keyframes []domain.Keyframe, duration, delay float64, easing string, previous []ports.Player, window styles.MergeWindowFunc, opts ...player.Option) *Player {
	p := &Player{
		Noop:            player.NewNoop(duration, delay, opts...),
		Element:         el,
		Keyframes:       keyframes,
		Duration:        duration,
		Delay:           delay,
		Easing:          easing,
		PreviousPlayers: previous,
		PreviousStyles:  domain.StyleMap{},
		snapshot:        domain.StyleMap{},
	}
	if window(duration, delay) {
		for _, prev := range previous {
			if m, ok := prev.(ports.SnapshotMerger); ok && m.SupportsSnapshotMerge(Backend) {
				p.PreviousStyles.Merge(m.CurrentSnapshot())
			}
		}
	}
	return p
}

// OnInit registers fn to run on the next Init.
func (p *Player) OnInit(fn func()) { p.onInitFns = append(p.onInitFns, fn) }

func (p *Player) Init() {
	p.Noop.Init()
	p.initialized = true
	fns := p.onInitFns
	p.onInitFns = nil
	for _, fn := range fns {
		fn()
	}
}

func (p *Player) Initialized() bool { return p.initialized }

func (p *Player) Finish() {
	p.Noop.Finish()
	p.finished = true
}

func (p *Player) Destroy() {
	p.Noop.Destroy()
	p.finished = true
}

// Finished reports whether Finish or Destroy was called.
func (p *Player) Finished() bool { return p.finished }

// BeforeDestroy captures the merged previous styles and, once started, every
// animated property: its final value when finished, auto otherwise.
func (p *Player) BeforeDestroy() {
	captures := p.PreviousStyles.Copy()
	if p.HasStarted() {
		for _, kf := range p.Keyframes {
			for prop, value := range kf.Styles {
				if p.finished {
					captures[prop] = value
				} else {
					captures[prop] = domain.AutoStyle
				}
			}
		}
	}
	p.snapshot = captures
}

func (p *Player) CurrentSnapshot() domain.StyleMap { return p.snapshot }

func (p *Player) SupportsSnapshotMerge(backend string) bool { return backend == Backend }

var _ ports.SnapshotMerger = (*Player)(nil)
