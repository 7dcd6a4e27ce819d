package webanim

import (
	"io"
	"log/slog"

	"github.com/aretw0/cadence/pkg/adapters/csskeyframes"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
	"github.com/aretw0/cadence/pkg/styles"
)

// Option configures a Driver.
type Option func(*config)

type config struct {
	logger    *slog.Logger
	animate   AnimateFunc
	window    styles.MergeWindowFunc
	scheduler scheduler.Scheduler
	fallback  ports.Driver
}

// WithLogger sets the logger, shared with the default fallback driver.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithAnimateFunc provides native animations for elements that are not Animators.
func WithAnimateFunc(fn AnimateFunc) Option {
	return func(c *config) { c.animate = fn }
}

// WithTimeline runs every animation on a virtual timeline.
func WithTimeline(t *Timeline) Option {
	return WithAnimateFunc(t.Animate)
}

// WithMergeWindow replaces the policy deciding when snapshots are merged.
func WithMergeWindow(fn styles.MergeWindowFunc) Option {
	return func(c *config) { c.window = fn }
}

// WithScheduler is passed on to the default fallback driver.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(c *config) { c.scheduler = s }
}

// WithFallback replaces the driver used when no native animation is available.
func WithFallback(d ports.Driver) Option {
	return func(c *config) { c.fallback = d }
}

// Driver builds web animations players. Elements that cannot animate
// natively are handed to a CSS keyframes driver over the same document.
type Driver struct {
	doc     ports.Document
	cfg     config
	initial *styles.InitialStyles
}

func New(doc ports.Document, host ports.StyleSheetHost, opts ...Option) *Driver {
	cfg := config{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		window:    styles.DefaultMergeWindow,
		scheduler: scheduler.Immediate,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.fallback == nil {
		cfg.fallback = csskeyframes.New(doc, host,
			csskeyframes.WithLogger(cfg.logger),
			csskeyframes.WithScheduler(cfg.scheduler),
			csskeyframes.WithMergeWindow(cfg.window),
		)
	}
	return &Driver{doc: doc, cfg: cfg, initial: styles.NewInitialStyles()}
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

// Animate builds a native player. Without a native animation for el the
// fallback driver animates it instead.
func (d *Driver) Animate(el domain.Element, keyframes []domain.Keyframe, duration, delay float64, easing string, previousPlayers []ports.Player, scrubberAccessRequested bool) ports.Player {
	animate := d.native(el)
	if animate == nil {
		return d.cfg.fallback.Animate(el, keyframes, duration, delay, easing, previousPlayers, scrubberAccessRequested)
	}

	timing := Timing{Duration: duration, Delay: delay, Fill: "forwards", Easing: easing}
	if delay == 0 {
		timing.Fill = "both"
	}

	previousStyles := domain.StyleMap{}
	if d.cfg.window(duration, delay) {
		for _, prev := range previousPlayers {
			if m, ok := prev.(ports.SnapshotMerger); ok && m.SupportsSnapshotMerge(Backend) {
				previousStyles.Merge(m.CurrentSnapshot())
			}
		}
	}
	compute := func(prop string) string { return d.ComputeStyle(el, prop, "") }
	keyframes = styles.BalancePreviousStylesIntoKeyframes(domain.CopyKeyframes(keyframes), previousStyles, compute)
	special := styles.PackageNonAnimatableStyles(d.initial, el, keyframes)
	return newPlayer(el, keyframes, timing, animate, special, compute)
}

func (d *Driver) native(el domain.Element) AnimateFunc {
	if a, ok := el.(Animator); ok {
		return func(_ domain.Element, keyframes []domain.Keyframe, timing Timing) Animation {
			return a.Animate(keyframes, timing)
		}
	}
	return d.cfg.animate
}

var _ ports.Driver = (*Driver)(nil)
