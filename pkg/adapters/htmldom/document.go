// Package htmldom backs the drivers with an HTML element tree parsed by
// golang.org/x/net/html. Selectors are compiled with cascadia and inline
// styles and stylesheets are parsed with douceur.
package htmldom

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"
	"sync"

	"github.com/andybalholm/cascadia"
	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
	"github.com/google/uuid"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

// idAttr holds the identity assigned to elements without an id attribute.
const idAttr = "data-cadence-id"

var propertyRe = regexp.MustCompile(`^-?[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Document is an HTML tree the drivers can query, style and animate.
// It is not safe for concurrent mutation.
type Document struct {
	root *html.Node

	mu        sync.Mutex
	elements  map[*html.Node]*Element
	selectors map[string]cascadia.Selector
	listeners map[*html.Node]map[string][]*listener
}

type listener struct {
	fn func(domain.DOMEvent)
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse html: %w", err)
	}
	return &Document{
		root:      root,
		elements:  make(map[*html.Node]*Element),
		selectors: make(map[string]cascadia.Selector),
		listeners: make(map[*html.Node]map[string][]*listener),
	}, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the <html> element.
func (d *Document) Root() *Element {
	for n := d.root.FirstChild; n != nil; n = n.NextSibling {
		if n.Type == html.ElementNode {
			return d.wrap(n)
		}
	}
	return nil
}

// Body returns the <body> element.
func (d *Document) Body() *Element {
	if n := findAtom(d.root, atom.Body); n != nil {
		return d.wrap(n)
	}
	return nil
}

// QuerySelector returns the first element below the document root matching selector.
func (d *Document) QuerySelector(selector string) *Element {
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	if n := sel.MatchFirst(d.root); n != nil {
		return d.wrap(n)
	}
	return nil
}

// Render writes the document, generated stylesheets included.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// ValidateStyleProperty accepts any well formed property name, in dash-case
// or camelCase.
func (d *Document) ValidateStyleProperty(prop string) bool {
	return propertyRe.MatchString(styles.CamelCaseToDashCase(prop))
}

func (d *Document) Matches(el domain.Element, selector string) bool {
	e, ok := el.(*Element)
	if !ok {
		return false
	}
	sel, ok := d.compile(selector)
	return ok && sel.Match(e.node)
}

func (d *Document) Contains(parent, child domain.Element) bool {
	p, ok1 := parent.(*Element)
	c, ok2 := child.(*Element)
	if !ok1 || !ok2 {
		return false
	}
	for n := c.node; n != nil; n = n.Parent {
		if n == p.node {
			return true
		}
	}
	return false
}

// Query returns the descendants of el matching selector, el itself excluded.
func (d *Document) Query(el domain.Element, selector string, multi bool) []domain.Element {
	e, ok := el.(*Element)
	if !ok {
		return nil
	}
	sel, ok := d.compile(selector)
	if !ok {
		return nil
	}
	var out []domain.Element
	for _, n := range sel.MatchAll(e.node) {
		if n == e.node {
			continue
		}
		out = append(out, d.wrap(n))
		if !multi {
			break
		}
	}
	return out
}

// ComputedStyle returns the inline value of prop or, failing that, the value
// of the last matching rule of the document's stylesheets.
func (d *Document) ComputedStyle(el domain.Element, prop string) string {
	e, ok := el.(*Element)
	if !ok {
		return ""
	}
	if v := e.Style(prop); v != "" {
		return v
	}
	prop = styles.CamelCaseToDashCase(prop)
	value := ""
	for _, sheet := range d.styleSheets() {
		for _, rule := range sheet.Rules {
			if rule.Kind != css.QualifiedRule || !d.ruleMatches(rule, e.node) {
				continue
			}
			for _, decl := range rule.Declarations {
				if decl.Property == prop {
					value = decl.Value
				}
			}
		}
	}
	return value
}

// AppendStyleSheet appends a <style> element to the document head.
func (d *Document) AppendStyleSheet(text string) func() {
	head := findAtom(d.root, atom.Head)
	if head == nil {
		head = &html.Node{Type: html.ElementNode, Data: "head", DataAtom: atom.Head}
		if root := d.Root(); root != nil {
			root.node.InsertBefore(head, root.node.FirstChild)
		} else {
			d.root.AppendChild(head)
		}
	}
	node := &html.Node{Type: html.ElementNode, Data: "style", DataAtom: atom.Style}
	node.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	head.AppendChild(node)
	return func() {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// StyleSheets returns the text of every <style> element, in document order.
func (d *Document) StyleSheets() []string {
	var out []string
	for _, n := range findAllAtom(d.root, atom.Style) {
		if n.FirstChild != nil {
			out = append(out, n.FirstChild.Data)
		}
	}
	return out
}

// Dispatch delivers event to the listeners registered on el for event.Type.
func (d *Document) Dispatch(el *Element, event domain.DOMEvent) {
	d.mu.Lock()
	ls := append([]*listener(nil), d.listeners[el.node][event.Type]...)
	d.mu.Unlock()
	for _, l := range ls {
		l.fn(event)
	}
}

func (d *Document) addListener(n *html.Node, eventType string, fn func(domain.DOMEvent)) func() {
	l := &listener{fn: fn}
	d.mu.Lock()
	byType, ok := d.listeners[n]
	if !ok {
		byType = make(map[string][]*listener)
		d.listeners[n] = byType
	}
	byType[eventType] = append(byType[eventType], l)
	d.mu.Unlock()

	return func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		ls := d.listeners[n][eventType]
		for i, candidate := range ls {
			if candidate == l {
				d.listeners[n][eventType] = append(ls[:i], ls[i+1:]...)
				return
			}
		}
	}
}

func (d *Document) wrap(n *html.Node) *Element {
	d.mu.Lock()
	defer d.mu.Unlock()
	if e, ok := d.elements[n]; ok {
		return e
	}
	e := &Element{node: n, doc: d}
	d.elements[n] = e
	return e
}

func (d *Document) compile(selector string) (cascadia.Selector, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if sel, ok := d.selectors[selector]; ok {
		return sel, sel != nil
	}
	sel, err := cascadia.Compile(selector)
	if err != nil {
		d.selectors[selector] = nil
		return nil, false
	}
	d.selectors[selector] = sel
	return sel, true
}

func (d *Document) ruleMatches(rule *css.Rule, n *html.Node) bool {
	for _, s := range rule.Selectors {
		if sel, ok := d.compile(s); ok && sel.Match(n) {
			return true
		}
	}
	return false
}

// styleSheets parses every <style> element. Sheets that fail to parse are skipped.
func (d *Document) styleSheets() []*css.Stylesheet {
	var out []*css.Stylesheet
	for _, text := range d.StyleSheets() {
		sheet, err := parser.Parse(text)
		if err != nil {
			continue
		}
		out = append(out, sheet)
	}
	return out
}

func findAtom(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findAtom(c, a); found != nil {
			return found
		}
	}
	return nil
}

func findAllAtom(n *html.Node, a atom.Atom) []*html.Node {
	var out []*html.Node
	if n.Type == html.ElementNode && n.DataAtom == a {
		out = append(out, n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		out = append(out, findAllAtom(c, a)...)
	}
	return out
}

func newID() string {
	return "el-" + uuid.NewString()
}

var (
	_ ports.Document       = (*Document)(nil)
	_ ports.StyleSheetHost = (*Document)(nil)
)
