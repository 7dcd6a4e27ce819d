package htmldom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// Element wraps an element node of a Document.
type Element struct {
	node *html.Node
	doc  *Document
}

// ID returns the id attribute. Elements without one are given a generated
// identity, stored in a data attribute so it survives rendering.
func (e *Element) ID() string {
	if id := e.Attr("id"); id != "" {
		return id
	}
	if id := e.Attr(idAttr); id != "" {
		return id
	}
	id := newID()
	e.SetAttr(idAttr, id)
	return id
}

func (e *Element) Tag() string { return e.node.Data }

// Node exposes the underlying html node.
func (e *Element) Node() *html.Node { return e.node }

func (e *Element) Attr(key string) string {
	for _, a := range e.node.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func (e *Element) SetAttr(key, value string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr[i].Val = value
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: key, Val: value})
}

func (e *Element) RemoveAttr(key string) {
	for i, a := range e.node.Attr {
		if a.Key == key {
			e.node.Attr = append(e.node.Attr[:i], e.node.Attr[i+1:]...)
			return
		}
	}
}

func (e *Element) HasClass(name string) bool {
	for _, c := range strings.Fields(e.Attr("class")) {
		if c == name {
			return true
		}
	}
	return false
}

func (e *Element) AddClass(name string) {
	if !e.HasClass(name) {
		e.SetAttr("class", strings.TrimSpace(e.Attr("class")+" "+name))
	}
}

func (e *Element) RemoveClass(name string) {
	var kept []string
	for _, c := range strings.Fields(e.Attr("class")) {
		if c != name {
			kept = append(kept, c)
		}
	}
	e.SetAttr("class", strings.Join(kept, " "))
}

// Children returns the element children in document order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out
}

// AppendElement creates a child element with the given tag and classes.
func (e *Element) AppendElement(tag string, classes ...string) *Element {
	n := &html.Node{Type: html.ElementNode, Data: tag, DataAtom: atom.Lookup([]byte(tag))}
	e.node.AppendChild(n)
	child := e.doc.wrap(n)
	for _, c := range classes {
		child.AddClass(c)
	}
	return child
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	if e.node.Parent != nil {
		e.node.Parent.RemoveChild(e.node)
	}
}

// Style returns the inline value of prop, given in camelCase or dash-case.
func (e *Element) Style(prop string) string {
	prop = styles.CamelCaseToDashCase(prop)
	for _, decl := range e.declarations() {
		if decl.Property == prop {
			return decl.Value
		}
	}
	return ""
}

// SetStyle writes an inline value. An empty value removes the property.
func (e *Element) SetStyle(prop, value string) {
	if value == "" {
		e.RemoveStyle(prop)
		return
	}
	prop = styles.CamelCaseToDashCase(prop)
	decls := e.declarations()
	for _, decl := range decls {
		if decl.Property == prop {
			decl.Value = value
			e.writeDeclarations(decls)
			return
		}
	}
	e.writeDeclarations(append(decls, &css.Declaration{Property: prop, Value: value}))
}

func (e *Element) RemoveStyle(prop string) {
	prop = styles.CamelCaseToDashCase(prop)
	decls := e.declarations()
	for i, decl := range decls {
		if decl.Property == prop {
			e.writeDeclarations(append(decls[:i], decls[i+1:]...))
			return
		}
	}
}

// AddEventListener registers fn for events dispatched through the document.
func (e *Element) AddEventListener(eventType string, fn func(domain.DOMEvent)) func() {
	return e.doc.addListener(e.node, eventType, fn)
}

func (e *Element) declarations() []*css.Declaration {
	text := strings.TrimSpace(e.Attr("style"))
	if text == "" {
		return nil
	}
	// the parser drops the value of an unterminated last declaration
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil
	}
	return decls
}

func (e *Element) writeDeclarations(decls []*css.Declaration) {
	if len(decls) == 0 {
		e.RemoveAttr("style")
		return
	}
	parts := make([]string, len(decls))
	for i, decl := range decls {
		parts[i] = decl.String()
	}
	e.SetAttr("style", strings.Join(parts, " "))
}

var (
	_ ports.Styled      = (*Element)(nil)
	_ ports.EventTarget = (*Element)(nil)
)
