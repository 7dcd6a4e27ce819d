package schema

import (
	"encoding/json"
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
)

var timingRe = regexp.MustCompile(`(?i)^(-?[\.\d]+)(m?s)(?:\s+(-?[\.\d]+)(m?s))?(?:\s+([-a-z]+(?:\(.+?\))?))?$`)

// Type validates the value of one param.
type Type interface {
	// Name is the type name used in definition files.
	Name() string
	Validate(value any) error
}

type StringType struct{}

func (t *StringType) Name() string { return "string" }

func (t *StringType) Validate(value any) error {
	if _, ok := value.(string); !ok {
		return fmt.Errorf("expected string, got %T", value)
	}
	return nil
}

// IntType accepts integers, whole floats and integral json.Number values.
type IntType struct{}

func (t *IntType) Name() string { return "int" }

func (t *IntType) Validate(value any) error {
	switch v := value.(type) {
	case int, int8, int16, int32, int64:
		return nil
	case float64:
		if v == float64(int64(v)) {
			return nil
		}
		return fmt.Errorf("expected int, got float (not a whole number)")
	case json.Number:
		if _, err := v.Int64(); err != nil {
			return fmt.Errorf("expected int, got %s", v)
		}
		return nil
	default:
		return fmt.Errorf("expected int, got %T", value)
	}
}

type FloatType struct{}

func (t *FloatType) Name() string { return "float" }

func (t *FloatType) Validate(value any) error {
	if _, ok := toFloat(value); !ok {
		return fmt.Errorf("expected float, got %T", value)
	}
	return nil
}

type BoolType struct{}

func (t *BoolType) Name() string { return "bool" }

func (t *BoolType) Validate(value any) error {
	if _, ok := value.(bool); !ok {
		return fmt.Errorf("expected bool, got %T", value)
	}
	return nil
}

// NumberType accepts numbers and text holding a number.
type NumberType struct{}

func (t *NumberType) Name() string { return "number" }

func (t *NumberType) Validate(value any) error {
	if _, ok := toFloat(value); ok {
		return nil
	}
	if s, ok := value.(string); ok {
		if _, err := strconv.ParseFloat(strings.TrimSpace(s), 64); err == nil {
			return nil
		}
		return fmt.Errorf("expected number, got %q", s)
	}
	return fmt.Errorf("expected number, got %T", value)
}

// TimingType accepts a number of milliseconds or a timing expression
// ("duration [delay] [easing]"). Negative durations are rejected.
type TimingType struct{}

func (t *TimingType) Name() string { return "timing" }

func (t *TimingType) Validate(value any) error {
	if f, ok := toFloat(value); ok {
		if f < 0 {
			return fmt.Errorf("duration values below 0 are not allowed")
		}
		return nil
	}
	s, ok := value.(string)
	if !ok {
		return fmt.Errorf("expected timing, got %T", value)
	}
	m := timingRe.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return fmt.Errorf("%q is not a valid timing value", s)
	}
	if strings.HasPrefix(m[1], "-") {
		return fmt.Errorf("duration values below 0 are not allowed")
	}
	return nil
}

// StyleType accepts strings and numbers.
type StyleType struct{}

func (t *StyleType) Name() string { return "style" }

func (t *StyleType) Validate(value any) error {
	if _, ok := value.(string); ok {
		return nil
	}
	if _, ok := toFloat(value); ok {
		return nil
	}
	return fmt.Errorf("expected style value, got %T", value)
}

// SliceType validates every element of a slice.
type SliceType struct {
	elemType Type
}

func (t *SliceType) Name() string {
	return fmt.Sprintf("[%s]", t.elemType.Name())
}

func (t *SliceType) Validate(value any) error {
	rv := reflect.ValueOf(value)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return fmt.Errorf("expected slice, got %T", value)
	}
	for i := 0; i < rv.Len(); i++ {
		if err := t.elemType.Validate(rv.Index(i).Interface()); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
	}
	return nil
}

// CustomType applies a user-defined validation function.
type CustomType struct {
	name     string
	validate func(any) error
}

func (t *CustomType) Name() string             { return t.name }
func (t *CustomType) Validate(value any) error { return t.validate(value) }

func String() Type { return &StringType{} }
func Int() Type    { return &IntType{} }
func Float() Type  { return &FloatType{} }
func Bool() Type   { return &BoolType{} }
func Number() Type { return &NumberType{} }
func Timing() Type { return &TimingType{} }
func Style() Type  { return &StyleType{} }

func Slice(elemType Type) Type {
	return &SliceType{elemType: elemType}
}

func Custom(name string, validate func(any) error) Type {
	return &CustomType{name: name, validate: validate}
}

// ParseType resolves a type name. An empty name means "style".
func ParseType(typeStr string) (Type, error) {
	if len(typeStr) > 2 && typeStr[0] == '[' && typeStr[len(typeStr)-1] == ']' {
		elemType, err := ParseType(typeStr[1 : len(typeStr)-1])
		if err != nil {
			return nil, err
		}
		return Slice(elemType), nil
	}

	switch typeStr {
	case "string":
		return String(), nil
	case "int":
		return Int(), nil
	case "float":
		return Float(), nil
	case "bool":
		return Bool(), nil
	case "number":
		return Number(), nil
	case "timing":
		return Timing(), nil
	case "style", "":
		return Style(), nil
	default:
		return nil, fmt.Errorf("unsupported type: %s", typeStr)
	}
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float32:
		return float64(v), true
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	}
	return 0, false
}
