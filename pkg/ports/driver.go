package ports

import "github.com/aretw0/cadence/pkg/domain"

// Driver is the backend capability set the compiler and the engine consume.
// Durations and delays are milliseconds.
type Driver interface {
	ValidateStyleProperty(prop string) bool
	MatchesElement(el domain.Element, selector string) bool
	ContainsElement(parent, child domain.Element) bool
	Query(el domain.Element, selector string, multi bool) []domain.Element
	ComputeStyle(el domain.Element, prop, defaultValue string) string
	Animate(el domain.Element, keyframes []domain.Keyframe, duration, delay float64, easing string, previousPlayers []Player, scrubberAccessRequested bool) Player
}

// Document exposes the element tree primitives drivers delegate to.
type Document interface {
	ValidateStyleProperty(prop string) bool
	Matches(el domain.Element, selector string) bool
	Contains(parent, child domain.Element) bool
	Query(el domain.Element, selector string, multi bool) []domain.Element
	ComputedStyle(el domain.Element, prop string) string
}

// StyleSheetHost accepts generated stylesheets. The returned func removes the sheet.
type StyleSheetHost interface {
	AppendStyleSheet(css string) (remove func())
}

// Styled is implemented by elements whose inline style can be read and written.
// Property names may be given in camelCase or dash-case.
type Styled interface {
	domain.Element
	Style(prop string) string
	SetStyle(prop, value string)
	RemoveStyle(prop string)
}

// EventTarget is implemented by elements that deliver DOM events.
type EventTarget interface {
	domain.Element
	AddEventListener(eventType string, fn func(domain.DOMEvent)) (remove func())
}

// StyleNormalizer maps authored properties and values to backend form,
// appending problems to errors.
type StyleNormalizer interface {
	NormalizePropertyName(prop string, errors *[]string) string
	NormalizeStyleValue(userProp, normalizedProp, value string, errors *[]string) string
}
