package mock

import (
	"fmt"
	"strings"
	"sync/atomic"
)

var elementSeq atomic.Int64

// Element is an in-memory element with a tag, classes, children and an inline style.
type Element struct {
	id       string
	Tag      string
	classes  []string
	parent   *Element
	children []*Element
	style    map[string]string
}

// NewElement creates a detached element. Classes may be given as "a b" or separately.
func NewElement(tag string, classes ...string) *Element {
	e := &Element{
		id:    fmt.Sprintf("%s-%d", tag, elementSeq.Add(1)),
		Tag:   tag,
		style: make(map[string]string),
	}
	for _, c := range classes {
		for _, f := range strings.Fields(c) {
			e.AddClass(f)
		}
	}
	return e
}

func (e *Element) ID() string           { return e.id }
func (e *Element) Parent() *Element     { return e.parent }
func (e *Element) Children() []*Element { return e.children }

// Append attaches children and returns e.
func (e *Element) Append(children ...*Element) *Element {
	for _, c := range children {
		c.parent = e
		e.children = append(e.children, c)
	}
	return e
}

func (e *Element) HasClass(name string) bool {
	for _, c := range e.classes {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(name string) {
	if !e.HasClass(name) {
		e.classes = append(e.classes, name)
	}
}

func (e *Element) RemoveClass(name string) {
	for i, c := range e.classes {
		if c == name {
			e.classes = append(e.classes[:i], e.classes[i+1:]...)
			return
		}
	}
}

func (e *Element) Style(prop string) string { return e.style[prop] }
func (e *Element) RemoveStyle(prop string)  { delete(e.style, prop) }

func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		delete(e.style, prop)
		return
	}
	e.style[prop] = value
}

// Contains reports whether other is e or one of its descendants.
func (e *Element) Contains(other *Element) bool {
	for n := other; n != nil; n = n.parent {
		if n == e {
			return true
		}
	}
	return false
}

// descendants returns the subtree below e in document order.
func (e *Element) descendants() []*Element {
	var out []*Element
	for _, c := range e.children {
		out = append(out, c)
		out = append(out, c.descendants()...)
	}
	return out
}

// Matches supports comma separated compound selectors made of a tag or "*",
// ".class" and "#id" parts, such as "li.item" or ".a, .b".
func (e *Element) Matches(selector string) bool {
	for _, part := range strings.Split(selector, ",") {
		if e.matchesCompound(strings.TrimSpace(part)) {
			return true
		}
	}
	return false
}

func (e *Element) matchesCompound(sel string) bool {
	if sel == "" {
		return false
	}
	i := 0
	for i < len(sel) && sel[i] != '.' && sel[i] != '#' {
		i++
	}
	if tag := sel[:i]; tag != "" && tag != "*" && !strings.EqualFold(tag, e.Tag) {
		return false
	}
	for i < len(sel) {
		kind := sel[i]
		j := i + 1
		for j < len(sel) && sel[j] != '.' && sel[j] != '#' {
			j++
		}
		name := sel[i+1 : j]
		switch kind {
		case '.':
			if !e.HasClass(name) {
				return false
			}
		case '#':
			if e.id != name {
				return false
			}
		}
		i = j
	}
	return true
}
