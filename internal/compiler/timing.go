package compiler

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
)

var (
	timeExprRe  = regexp.MustCompile(`(?i)^(-?[\.\d]+)(m?s)(?:\s+(-?[\.\d]+)(m?s))?(?:\s+([-a-z]+(?:\(.+?\))?))?$`)
	timeValueRe = regexp.MustCompile(`^(-?[\.\d]+)(m?s)`)
	wordSplitRe = regexp.MustCompile(`\s+`)
)

// Timings is a resolved duration, delay (milliseconds) and easing.
type Timings struct {
	Duration float64
	Delay    float64
	Easing   string
}

// ResolveTimingValue reads a single time value such as "250ms" or "1.5s".
// Numbers are taken as milliseconds and unreadable values resolve to 0.
func ResolveTimingValue(value any) float64 {
	if f, ok := domain.ToFloat(value); ok {
		return f
	}
	s, ok := value.(string)
	if !ok {
		return 0
	}
	m := timeValueRe.FindStringSubmatch(s)
	if m == nil {
		return 0
	}
	return toMillis(parseDecimal(m[1]), m[2])
}

// ResolveTiming parses a time expression "duration [delay] [easing]".
// Negative values are rejected unless allowNegative is set.
func ResolveTiming(exp any, errors *[]string, allowNegative bool) Timings {
	var t Timings
	if f, ok := domain.ToFloat(exp); ok {
		t.Duration = f
	} else {
		s := domain.FormatValue(exp)
		m := timeExprRe.FindStringSubmatch(s)
		if m == nil {
			*errors = append(*errors, invalidTimingValue(exp))
			return Timings{}
		}
		t.Duration = toMillis(parseDecimal(m[1]), m[2])
		if m[3] != "" {
			t.Delay = toMillis(parseDecimal(m[3]), m[4])
		}
		t.Easing = m[5]
	}

	if !allowNegative {
		var problems []string
		if t.Duration < 0 {
			problems = append(problems, "Duration values below 0 are not allowed for this animation step.")
		}
		if t.Delay < 0 {
			problems = append(problems, "Delay values below 0 are not allowed for this animation step.")
		}
		if len(problems) > 0 {
			*errors = append(*errors, invalidTimingValue(exp))
			*errors = append(*errors, problems...)
		}
	}
	return t
}

func invalidTimingValue(exp any) string {
	return fmt.Sprintf("The provided timing value \"%s\" is invalid.", domain.FormatValue(exp))
}

func toMillis(value float64, unit string) float64 {
	if strings.EqualFold(unit, "s") {
		return value * 1000
	}
	return value
}

// parseDecimal reads the leading number of a loosely formatted decimal such as "1.5" or ".5".
func parseDecimal(s string) float64 {
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return domain.ParseFloat(s)
}

// TimingAst is the compiled timing of an animate or stagger step. A dynamic
// timing keeps its source text until params are known.
type TimingAst struct {
	Timings
	Dynamic bool
	Source  string
}

func constructTimingAst(value any, errors *[]string) *TimingAst {
	switch v := value.(type) {
	case Timings:
		return &TimingAst{Timings: v}
	case *Timings:
		return &TimingAst{Timings: *v}
	}
	if _, ok := domain.ToFloat(value); ok {
		return &TimingAst{Timings: Timings{Duration: ResolveTiming(value, errors, false).Duration}}
	}
	s := domain.FormatValue(value)
	for _, word := range wordSplitRe.Split(s, -1) {
		if strings.HasPrefix(word, "{{") {
			return &TimingAst{Dynamic: true, Source: s}
		}
	}
	return &TimingAst{Timings: ResolveTiming(s, errors, false)}
}
