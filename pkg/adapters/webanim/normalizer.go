package webanim

import (
	"regexp"
	"strings"

	"github.com/aretw0/cadence/pkg/ports"
	"github.com/aretw0/cadence/pkg/styles"
)

var unitlessRe = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)$`)

var dimensionalProps = map[string]bool{
	"width":             true,
	"height":            true,
	"minWidth":          true,
	"minHeight":         true,
	"maxWidth":          true,
	"maxHeight":         true,
	"left":              true,
	"top":               true,
	"bottom":            true,
	"right":             true,
	"fontSize":          true,
	"outlineWidth":      true,
	"outlineOffset":     true,
	"paddingTop":        true,
	"paddingLeft":       true,
	"paddingBottom":     true,
	"paddingRight":      true,
	"marginTop":         true,
	"marginLeft":        true,
	"marginBottom":      true,
	"marginRight":       true,
	"borderRadius":      true,
	"borderWidth":       true,
	"borderTopWidth":    true,
	"borderLeftWidth":   true,
	"borderRightWidth":  true,
	"borderBottomWidth": true,
	"textIndent":        true,
	"perspective":       true,
}

// Normalizer camelCases property names and gives unit-less dimensional
// values a px unit.
type Normalizer struct{}

func (Normalizer) NormalizePropertyName(prop string, _ *[]string) string {
	return styles.DashCaseToCamelCase(prop)
}

func (Normalizer) NormalizeStyleValue(_, normalizedProp, value string, _ *[]string) string {
	value = strings.TrimSpace(value)
	if dimensionalProps[normalizedProp] && value != "0" && unitlessRe.MatchString(value) {
		return value + "px"
	}
	return value
}

var _ ports.StyleNormalizer = Normalizer{}
