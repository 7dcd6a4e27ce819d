package schema

import (
	"fmt"
	"sort"

	"github.com/aretw0/cadence/pkg/domain"
)

// Schema maps param names to their expected types.
// Example: {"time": Timing(), "height": Style(), "count": Int()}
type Schema map[string]Type

// FromParams builds a Schema from declared params. Every unknown type name is
// reported in a single AggregateError.
func FromParams(params map[string]domain.ParamSpec) (Schema, error) {
	s := make(Schema, len(params))
	var errs []error
	for _, name := range sortedParams(params) {
		t, err := ParseType(params[name].Type)
		if err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error()})
			continue
		}
		s[name] = t
	}
	if len(errs) > 0 {
		return nil, &AggregateError{Errors: errs}
	}
	return s, nil
}

// Validate checks every field of the schema against data. A field missing
// from data is an error.
func Validate(schema Schema, data map[string]any) error {
	if len(schema) == 0 {
		return nil
	}
	return ValidateFields(schema, data, schema.names()...)
}

// ValidateFields validates only the named fields. Names the schema does not
// declare are errors.
func ValidateFields(schema Schema, data map[string]any, fields ...string) error {
	var errs []error
	for _, name := range fields {
		fieldType, ok := schema[name]
		if !ok {
			errs = append(errs, &ValidationError{Key: name, Reason: "not defined in schema"})
			continue
		}
		value, ok := data[name]
		if !ok {
			errs = append(errs, &ValidationError{Key: name, Reason: "required"})
			continue
		}
		if err := fieldType.Validate(value); err != nil {
			errs = append(errs, &ValidationError{Key: name, Reason: err.Error(), Value: value})
		}
	}
	if len(errs) > 0 {
		return &AggregateError{Errors: errs}
	}
	return nil
}

// Describe renders the schema as "name: type" lines, sorted by name.
func (s Schema) Describe() []string {
	out := make([]string, 0, len(s))
	for _, name := range s.names() {
		out = append(out, fmt.Sprintf("%s: %s", name, s[name].Name()))
	}
	return out
}

func (s Schema) names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func sortedParams(params map[string]domain.ParamSpec) []string {
	names := make([]string, 0, len(params))
	for name := range params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
