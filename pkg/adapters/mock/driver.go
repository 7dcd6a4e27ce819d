// Package mock provides a recording driver and an in-memory element tree for tests.
package mock

import (
	"sync"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/aretw0/cadence/pkg/styles"
)

// Option configures a Driver.
type Option func(*Driver)

// WithScheduler sets where players queue their completion.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(d *Driver) { d.scheduler = s }
}

// WithMergeWindow replaces the policy deciding when snapshots are merged.
func WithMergeWindow(fn styles.MergeWindowFunc) Option {
	return func(d *Driver) { d.window = fn }
}

// WithInvalidProperties makes ValidateStyleProperty reject props.
func WithInvalidProperties(props ...string) Option {
	return func(d *Driver) {
		for _, p := range props {
			d.invalid[p] = true
		}
	}
}

// Driver records every player it builds. Elements must be *Element for
// queries and matching to work.
type Driver struct {
	mu        sync.Mutex
	log       []*Player
	scheduler scheduler.Scheduler
	window    styles.MergeWindowFunc
	invalid   map[string]bool
}

func NewDriver(opts ...Option) *Driver {
	d := &Driver{
		scheduler: scheduler.Immediate,
		window:    styles.DefaultMergeWindow,
		invalid:   make(map[string]bool),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) ValidateStyleProperty(prop string) bool { return !d.invalid[prop] }

func (d *Driver) MatchesElement(el domain.Element, selector string) bool {
	e, ok := el.(*Element)
	return ok && e.Matches(selector)
}

func (d *Driver) ContainsElement(parent, child domain.Element) bool {
	p, ok1 := parent.(*Element)
	c, ok2 := child.(*Element)
	return ok1 && ok2 && p.Contains(c)
}

func (d *Driver) Query(el domain.Element, selector string, multi bool) []domain.Element {
	root, ok := el.(*Element)
	if !ok {
		return nil
	}
	var out []domain.Element
	for _, c := range root.descendants() {
		if c.Matches(selector) {
			out = append(out, c)
			if !multi {
				break
			}
		}
	}
	return out
}

// ComputeStyle returns defaultValue; mock elements have no computed styles.
func (d *Driver) ComputeStyle(_ domain.Element, _, defaultValue string) string {
	return defaultValue
}

func (d *Driver) Animate(el domain.Element, keyframes []domain.Keyframe, duration, delay float64, easing string, previousPlayers []ports.Player, _ bool) ports.Player {
	p := newPlayer(el, keyframes, duration, delay, easing, previousPlayers, d.window, player.WithScheduler(d.scheduler))
	d.mu.Lock()
	d.log = append(d.log, p)
	d.mu.Unlock()
	return p
}

// Log returns the players built so far.
func (d *Driver) Log() []*Player {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]*Player(nil), d.log...)
}

// ResetLog forgets the recorded players.
func (d *Driver) ResetLog() {
	d.mu.Lock()
	d.log = nil
	d.mu.Unlock()
}

var _ ports.Driver = (*Driver)(nil)
