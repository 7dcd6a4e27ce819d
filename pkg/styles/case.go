package styles

import (
	"regexp"
	"strings"
)

var (
	dashCaseRe  = regexp.MustCompile(`-+([a-z0-9])`)
	camelCaseRe = regexp.MustCompile(`([a-z])([A-Z])`)
)

// DashCaseToCamelCase turns "background-color" into "backgroundColor".
func DashCaseToCamelCase(input string) string {
	return dashCaseRe.ReplaceAllStringFunc(input, func(m string) string {
		return strings.ToUpper(m[len(m)-1:])
	})
}

// CamelCaseToDashCase turns "backgroundColor" into "background-color".
func CamelCaseToDashCase(input string) string {
	return strings.ToLower(camelCaseRe.ReplaceAllString(input, "$1-$2"))
}
