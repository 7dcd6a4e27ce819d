package styles

import (
	"sync"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// nonAnimatable lists the properties that cannot be tweened and are applied
// at the start and end of an animation instead.
var nonAnimatable = map[string]bool{
	"display":  true,
	"position": true,
}

// IsNonAnimatable reports whether prop is applied outside the keyframes.
func IsNonAnimatable(prop string) bool {
	return nonAnimatable[prop]
}

// SetStyles writes styles onto el. When former is non-nil, the value each
// property had before the first write is remembered there.
func SetStyles(el ports.Styled, styles, former domain.StyleMap) {
	for _, prop := range styles.Keys() {
		camel := DashCaseToCamelCase(prop)
		if former != nil {
			if _, seen := former[prop]; !seen {
				former[prop] = el.Style(camel)
			}
		}
		el.SetStyle(camel, styles[prop])
	}
}

// EraseStyles clears every property of styles from el.
func EraseStyles(el ports.Styled, styles domain.StyleMap) {
	for _, prop := range styles.Keys() {
		el.SetStyle(DashCaseToCamelCase(prop), "")
	}
}

// InitialStyles remembers, per element, the values special-cased styles overwrote.
// Each driver owns one table.
type InitialStyles struct {
	mu   sync.Mutex
	byID map[string]domain.StyleMap
}

func NewInitialStyles() *InitialStyles {
	return &InitialStyles{byID: make(map[string]domain.StyleMap)}
}

func (t *InitialStyles) get(el domain.Element) domain.StyleMap {
	t.mu.Lock()
	defer t.mu.Unlock()
	m, ok := t.byID[el.ID()]
	if !ok {
		m = domain.StyleMap{}
		t.byID[el.ID()] = m
	}
	return m
}

func (t *InitialStyles) forget(el domain.Element) {
	t.mu.Lock()
	delete(t.byID, el.ID())
	t.mu.Unlock()
}

type specialState int

const (
	specialPending specialState = iota
	specialStarted
	specialFinished
	specialDestroyed
)

// SpecialCased applies non-animatable styles around the lifetime of a player.
type SpecialCased struct {
	el      ports.Styled
	table   *InitialStyles
	initial domain.StyleMap
	start   domain.StyleMap
	end     domain.StyleMap
	state   specialState
}

// PackageNonAnimatableStyles extracts the non-animatable styles of the first and
// last keyframes. It returns nil when there are none or el has no inline style.
func PackageNonAnimatableStyles(table *InitialStyles, el domain.Element, keyframes []domain.Keyframe) *SpecialCased {
	styled, ok := el.(ports.Styled)
	if !ok || len(keyframes) == 0 {
		return nil
	}
	start := filterNonAnimatable(keyframes[0].Styles)
	var end domain.StyleMap
	if len(keyframes) > 1 {
		end = filterNonAnimatable(keyframes[len(keyframes)-1].Styles)
	}
	if start == nil && end == nil {
		return nil
	}
	return &SpecialCased{
		el:      styled,
		table:   table,
		initial: table.get(el),
		start:   start,
		end:     end,
	}
}

func filterNonAnimatable(styles domain.StyleMap) domain.StyleMap {
	var out domain.StyleMap
	for prop, val := range styles {
		if IsNonAnimatable(prop) {
			if out == nil {
				out = domain.StyleMap{}
			}
			out[prop] = val
		}
	}
	return out
}

func (s *SpecialCased) Start() {
	if s.state < specialStarted {
		if s.start != nil {
			SetStyles(s.el, s.start, s.initial)
		}
		s.state = specialStarted
	}
}

func (s *SpecialCased) Finish() {
	s.Start()
	if s.state < specialFinished {
		SetStyles(s.el, s.initial, nil)
		if s.end != nil {
			SetStyles(s.el, s.end, nil)
			s.end = nil
		}
		s.state = specialFinished
	}
}

// Destroy erases the applied styles and restores the element's initial values.
func (s *SpecialCased) Destroy() {
	s.Finish()
	if s.state < specialDestroyed {
		s.table.forget(s.el)
		if s.start != nil {
			EraseStyles(s.el, s.start)
		}
		if s.end != nil {
			EraseStyles(s.el, s.end)
			s.end = nil
		}
		SetStyles(s.el, s.initial, nil)
		s.state = specialDestroyed
	}
}
