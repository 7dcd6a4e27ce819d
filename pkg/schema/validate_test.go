package schema

import (
	"strings"
	"testing"

	"github.com/aretw0/cadence/pkg/domain"
)

func TestFromParams(t *testing.T) {
	s, err := FromParams(map[string]domain.ParamSpec{
		"time":   {Type: "timing", Default: "1s"},
		"height": {},
		"steps":  {Type: "[int]"},
	})
	if err != nil {
		t.Fatalf("FromParams() error = %v", err)
	}
	want := []string{"height: style", "steps: [int]", "time: timing"}
	if got := s.Describe(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("Describe() = %v, want %v", got, want)
	}
}

func TestFromParams_UnknownTypes(t *testing.T) {
	_, err := FromParams(map[string]domain.ParamSpec{
		"a": {Type: "color"},
		"b": {Type: "style"},
		"c": {Type: "[size]"},
	})
	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), err)
	}
	if !strings.Contains(errs[0].Error(), `"a"`) || !strings.Contains(errs[1].Error(), `"c"`) {
		t.Errorf("errors not sorted by param: %v", errs)
	}
}

func TestValidate(t *testing.T) {
	s := Schema{"time": Timing(), "opacity": Number()}

	if err := Validate(s, map[string]any{"time": "200ms", "opacity": "0.5"}); err != nil {
		t.Errorf("valid data: %v", err)
	}
	if err := Validate(nil, map[string]any{"x": 1}); err != nil {
		t.Errorf("empty schema should accept anything: %v", err)
	}

	err := Validate(s, map[string]any{"time": "soon"})
	errs := ValidationErrors(err)
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %v", err)
	}
	if !strings.Contains(errs[0].Error(), `param "opacity": required`) {
		t.Errorf("errs[0] = %v", errs[0])
	}
	if !strings.Contains(errs[1].Error(), "not a valid timing value") {
		t.Errorf("errs[1] = %v", errs[1])
	}
	if !strings.HasPrefix(err.Error(), "2 validation errors:") {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidateFields(t *testing.T) {
	s := Schema{"time": Timing(), "height": Style()}
	data := map[string]any{"time": "1s"}

	if err := ValidateFields(s, data, "time"); err != nil {
		t.Errorf("ValidateFields(time) = %v", err)
	}
	if err := ValidateFields(s, data); err != nil {
		t.Errorf("no fields should pass: %v", err)
	}

	err := ValidateFields(s, data, "width")
	aggr, ok := err.(*AggregateError)
	if !ok {
		t.Fatalf("expected *AggregateError, got %T", err)
	}
	if msgs := aggr.Messages(); len(msgs) != 1 || msgs[0] != `param "width": not defined in schema` {
		t.Errorf("Messages() = %v", msgs)
	}
}

func TestValidationErrors_NotAggregate(t *testing.T) {
	if ValidationErrors(nil) != nil {
		t.Error("nil error should give nil")
	}
	if ValidationErrors(errOdd) != nil {
		t.Error("plain error should give nil")
	}
}
