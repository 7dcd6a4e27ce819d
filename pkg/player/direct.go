package player

import (
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// DirectStyle applies its styles to the element when played, skipping any
// animation. Destroying it restores the values it overwrote.
type DirectStyle struct {
	*Noop

	element     ports.Styled
	styles      domain.StyleMap
	starting    domain.StyleMap
	initialized bool
	restored    bool
}

// NewDirectStyle creates a player for el. Property names may be camelCase.
func NewDirectStyle(el ports.Styled, finalStyles domain.StyleMap, opts ...Option) *DirectStyle {
	hyphenated := domain.StyleMap{}
	for prop, value := range finalStyles {
		hyphenated[styles.CamelCaseToDashCase(prop)] = value
	}
	return &DirectStyle{
		Noop:     NewNoop(0, 0, opts...),
		element:  el,
		styles:   hyphenated,
		starting: domain.StyleMap{},
	}
}

func (p *DirectStyle) Init() {
	if p.initialized || p.restored {
		return
	}
	p.initialized = true
	for _, prop := range p.styles.Keys() {
		p.starting[prop] = p.element.Style(prop)
	}
	p.Noop.Init()
}

func (p *DirectStyle) Play() {
	if p.restored {
		return
	}
	p.Init()
	for _, prop := range p.styles.Keys() {
		p.element.SetStyle(prop, p.styles[prop])
	}
	p.Noop.Play()
}

func (p *DirectStyle) Destroy() {
	if p.restored {
		return
	}
	p.restored = true
	for _, prop := range p.starting.Keys() {
		if value := p.starting[prop]; value != "" {
			p.element.SetStyle(prop, value)
		} else {
			p.element.RemoveStyle(prop)
		}
	}
	p.Noop.Destroy()
}

var _ ports.Player = (*DirectStyle)(nil)
