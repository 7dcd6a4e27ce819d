package compiler

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
)

const substitutionStart = "{{"

var paramRe = regexp.MustCompile(`\{\{\s*(.+?)\s*\}\}`)

// ExtractStyleParams lists the param names referenced by a value.
func ExtractStyleParams(value string) []string {
	var names []string
	for _, m := range paramRe.FindAllStringSubmatch(value, -1) {
		names = append(names, m[1])
	}
	return names
}

// ContainsParams reports whether value holds a "{{ name }}" reference.
func ContainsParams(value string) bool {
	return strings.Contains(value, substitutionStart)
}

// InterpolateParams replaces "{{ name }}" references with params values.
// A missing or nil param is reported and replaced by an empty string.
func InterpolateParams(value string, params map[string]any, errors *[]string) string {
	return paramRe.ReplaceAllStringFunc(value, func(ref string) string {
		name := paramRe.FindStringSubmatch(ref)[1]
		v, ok := params[name]
		if !ok || v == nil {
			*errors = append(*errors, fmt.Sprintf("Please provide a value for the animation param %s", name))
			return ""
		}
		return domain.FormatValue(v)
	})
}

// NormalizeParams copies params so callers can merge into the result.
func NormalizeParams(params map[string]any) map[string]any {
	out := make(map[string]any, len(params))
	for k, v := range params {
		out[k] = v
	}
	return out
}
