// Package csskeyframes implements a driver that synthesizes CSS @keyframes
// rules and runs them through the element's animation shorthand.
package csskeyframes

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/aretw0/cadence/pkg/styles"
)

const (
	namePrefix = "gen_css_kf_"
	tabSpace   = " "
)

// Option configures a Driver.
type Option func(*Driver)

// WithLogger sets the logger used for notices.
func WithLogger(logger *slog.Logger) Option {
	return func(d *Driver) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithScheduler sets where direct style players queue their completion.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(d *Driver) { d.scheduler = s }
}

// WithMergeWindow replaces the policy deciding when snapshots are merged.
func WithMergeWindow(fn styles.MergeWindowFunc) Option {
	return func(d *Driver) { d.window = fn }
}

// WithClock sets the clock the animationend handling compares against.
func WithClock(now func() time.Time) Option {
	return func(d *Driver) { d.now = now }
}

// Driver builds keyframes players over a document. Generated stylesheets are
// appended to host and removed when their player is destroyed.
type Driver struct {
	doc       ports.Document
	host      ports.StyleSheetHost
	logger    *slog.Logger
	scheduler scheduler.Scheduler
	window    styles.MergeWindowFunc
	now       func() time.Time
	initial   *styles.InitialStyles

	mu     sync.Mutex
	count  int
	warned bool
}

func New(doc ports.Document, host ports.StyleSheetHost, opts ...Option) *Driver {
	d := &Driver{
		doc:       doc,
		host:      host,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		scheduler: scheduler.Immediate,
		window:    styles.DefaultMergeWindow,
		now:       time.Now,
		initial:   styles.NewInitialStyles(),
	}
	for _, opt := range opts {
		opt(d)
	}
	d.logger = d.logger.With("driver", Backend)
	return d
}

func (d *Driver) ValidateStyleProperty(prop string) bool { return d.doc.ValidateStyleProperty(prop) }

func (d *Driver) MatchesElement(el domain.Element, selector string) bool {
	return d.doc.Matches(el, selector)
}

func (d *Driver) ContainsElement(parent, child domain.Element) bool {
	return d.doc.Contains(parent, child)
}

func (d *Driver) Query(el domain.Element, selector string, multi bool) []domain.Element {
	return d.doc.Query(el, selector, multi)
}

// ComputeStyle reads the computed value from the document; defaultValue is unused.
func (d *Driver) ComputeStyle(el domain.Element, prop, _ string) string {
	return d.doc.ComputedStyle(el, prop)
}

// KeyframesCSS renders keyframes as an @keyframes rule named name.
func KeyframesCSS(name string, keyframes []domain.Keyframe) string {
	var b strings.Builder
	fmt.Fprintf(&b, "@keyframes %s {\n", name)
	for _, kf := range keyframes {
		tab := tabSpace
		fmt.Fprintf(&b, "%s%s%% {\n", tab, strconv.FormatFloat(kf.Offset*100, 'f', -1, 64))
		tab += tabSpace
		if kf.Easing != "" {
			fmt.Fprintf(&b, "%sanimation-timing-function: %s;\n", tab, kf.Easing)
		}
		hyphenated := hyphenate(kf.Styles)
		for _, prop := range hyphenated.Keys() {
			fmt.Fprintf(&b, "%s%s: %s;\n", tab, prop, hyphenated[prop])
		}
		fmt.Fprintf(&b, "%s}\n", tab)
	}
	b.WriteString("}\n")
	return b.String()
}

// Animate returns a direct style player for zero-duration animations and a
// keyframes player otherwise. Elements must implement ports.Styled; anything
// else gets a no-op player.
func (d *Driver) Animate(el domain.Element, keyframes []domain.Keyframe, duration, delay float64, easing string, previousPlayers []ports.Player, scrubberAccessRequested bool) ports.Player {
	if scrubberAccessRequested {
		d.notifyFaultyScrubber()
	}

	previousStyles := domain.StyleMap{}
	if d.window(duration, delay) {
		for _, prev := range previousPlayers {
			if m, ok := prev.(ports.SnapshotMerger); ok && m.SupportsSnapshotMerge(Backend) {
				previousStyles.Merge(m.CurrentSnapshot())
			}
		}
	}
	compute := func(prop string) string { return d.ComputeStyle(el, prop, "") }
	keyframes = styles.BalancePreviousStylesIntoKeyframes(domain.CopyKeyframes(keyframes), previousStyles, compute)
	finalStyles := flattenKeyframes(keyframes)

	styled, ok := el.(ports.Styled)
	if !ok {
		d.logger.Debug("element has no inline style, skipping animation", "element", el.ID())
		return player.NewNoop(duration, delay, player.WithScheduler(d.scheduler))
	}
	if duration == 0 {
		return player.NewDirectStyle(styled, finalStyles, player.WithScheduler(d.scheduler))
	}

	name := d.nextName()
	remove := d.host.AppendStyleSheet(KeyframesCSS(name, keyframes))
	special := styles.PackageNonAnimatableStyles(d.initial, el, keyframes)
	p := newPlayer(styled, keyframes, name, duration, delay, easing, finalStyles, special, compute, d.now)
	p.OnDestroy(remove)
	return p
}

func (d *Driver) nextName() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	name := namePrefix + strconv.Itoa(d.count)
	d.count++
	return name
}

func (d *Driver) notifyFaultyScrubber() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.warned {
		return
	}
	d.warned = true
	d.logger.Warn("programmatic scrubbing is not supported by css keyframes, use a web animations backend")
}

func hyphenate(m domain.StyleMap) domain.StyleMap {
	out := make(domain.StyleMap, len(m))
	for prop, value := range m {
		out[styles.CamelCaseToDashCase(prop)] = value
	}
	return out
}

func flattenKeyframes(keyframes []domain.Keyframe) domain.StyleMap {
	flat := domain.StyleMap{}
	for _, kf := range keyframes {
		flat.Merge(kf.Styles)
	}
	return flat
}

var _ ports.Driver = (*Driver)(nil)
