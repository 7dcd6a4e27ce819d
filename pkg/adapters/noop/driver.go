// Package noop provides a driver whose players animate nothing and a style
// normalizer that passes values through.
package noop

import (
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/player"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/scheduler"
)

// Option configures a Driver.
type Option func(*Driver)

// WithDocument delegates validation and queries to doc.
func WithDocument(doc ports.Document) Option {
	return func(d *Driver) { d.doc = doc }
}

// WithScheduler sets where players queue their completion.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(d *Driver) { d.scheduler = s }
}

// Driver compiles timelines without rendering them. Without a document every
// property is valid and queries find nothing.
type Driver struct {
	doc       ports.Document
	scheduler scheduler.Scheduler
}

func New(opts ...Option) *Driver {
	d := &Driver{scheduler: scheduler.Immediate}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Driver) ValidateStyleProperty(prop string) bool {
	if d.doc == nil {
		return true
	}
	return d.doc.ValidateStyleProperty(prop)
}

func (d *Driver) MatchesElement(el domain.Element, selector string) bool {
	return d.doc != nil && d.doc.Matches(el, selector)
}

func (d *Driver) ContainsElement(parent, child domain.Element) bool {
	if d.doc == nil {
		return parent.ID() == child.ID()
	}
	return d.doc.Contains(parent, child)
}

func (d *Driver) Query(el domain.Element, selector string, multi bool) []domain.Element {
	if d.doc == nil {
		return nil
	}
	return d.doc.Query(el, selector, multi)
}

// ComputeStyle returns defaultValue.
func (d *Driver) ComputeStyle(_ domain.Element, _, defaultValue string) string {
	return defaultValue
}

func (d *Driver) Animate(_ domain.Element, _ []domain.Keyframe, duration, delay float64, _ string, _ []ports.Player, _ bool) ports.Player {
	return player.NewNoop(duration, delay, player.WithScheduler(d.scheduler))
}

// Normalizer leaves property names and values untouched.
type Normalizer struct{}

func (Normalizer) NormalizePropertyName(prop string, _ *[]string) string { return prop }

func (Normalizer) NormalizeStyleValue(_, _, value string, _ *[]string) string { return value }

var (
	_ ports.Driver          = (*Driver)(nil)
	_ ports.StyleNormalizer = Normalizer{}
)
