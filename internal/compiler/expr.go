package compiler

import (
	"fmt"
	"regexp"

	"github.com/aretw0/cadence/pkg/domain"
)

var (
	clauseSplitRe = regexp.MustCompile(`\s*,\s*`)
	clauseRe      = regexp.MustCompile(`^(\*|[-\w]+)\s*(<?[=-]>)\s*(\*|[-\w]+)$`)
)

var (
	trueStates  = map[string]bool{"true": true, "1": true}
	falseStates = map[string]bool{"false": true, "0": true}
)

// transitionAlias is the closed set of ":name" shortcuts a clause may use.
type transitionAlias int

const (
	aliasUnknown transitionAlias = iota
	aliasEnter
	aliasLeave
	aliasIncrement
	aliasDecrement
)

func lookupAlias(name string) transitionAlias {
	switch name {
	case ":enter":
		return aliasEnter
	case ":leave":
		return aliasLeave
	case ":increment":
		return aliasIncrement
	case ":decrement":
		return aliasDecrement
	}
	return aliasUnknown
}

// ParseTransitionExpr turns a transition expression into matchers. expr is
// either a string ("a => b, :enter") or a domain.MatcherFunc. Problems are
// appended to errors and the offending clause contributes nothing, except for
// unknown aliases which match every state change.
func ParseTransitionExpr(expr any, errors *[]string) []domain.MatcherFunc {
	var matchers []domain.MatcherFunc
	switch e := expr.(type) {
	case domain.MatcherFunc:
		matchers = append(matchers, e)
	case func(fromState, toState any, element domain.Element, params map[string]any) bool:
		matchers = append(matchers, e)
	case string:
		for _, clause := range clauseSplitRe.Split(e, -1) {
			matchers = parseClause(clause, matchers, errors)
		}
	default:
		*errors = append(*errors, fmt.Sprintf("The provided transition expression \"%s\" is not supported", domain.FormatValue(expr)))
	}
	return matchers
}

func parseClause(clause string, matchers []domain.MatcherFunc, errors *[]string) []domain.MatcherFunc {
	if len(clause) > 0 && clause[0] == ':' {
		switch lookupAlias(clause) {
		case aliasEnter:
			clause = domain.VoidState + " => " + domain.AnyState
		case aliasLeave:
			clause = domain.AnyState + " => " + domain.VoidState
		case aliasIncrement:
			return append(matchers, func(from, to any, _ domain.Element, _ map[string]any) bool {
				return domain.ParseFloat(to) > domain.ParseFloat(from)
			})
		case aliasDecrement:
			return append(matchers, func(from, to any, _ domain.Element, _ map[string]any) bool {
				return domain.ParseFloat(to) < domain.ParseFloat(from)
			})
		default:
			*errors = append(*errors, fmt.Sprintf("The transition alias value \"%s\" is not supported", clause))
			clause = domain.AnyState + " => " + domain.AnyState
		}
	}

	m := clauseRe.FindStringSubmatch(clause)
	if m == nil {
		*errors = append(*errors, fmt.Sprintf("The provided transition expression \"%s\" is not supported", clause))
		return matchers
	}
	from, separator, to := m[1], m[2], m[3]
	matchers = append(matchers, matchStates(from, to))

	bothAny := from == domain.AnyState && to == domain.AnyState
	if separator[0] == '<' && !bothAny {
		matchers = append(matchers, matchStates(to, from))
	}
	return matchers
}

func matchStates(lhs, rhs string) domain.MatcherFunc {
	lhsBoolean := trueStates[lhs] || falseStates[lhs]
	rhsBoolean := trueStates[rhs] || falseStates[rhs]
	return func(from, to any, _ domain.Element, _ map[string]any) bool {
		return matchSide(lhs, lhsBoolean, from) && matchSide(rhs, rhsBoolean, to)
	}
}

func matchSide(token string, booleanToken bool, state any) bool {
	if token == domain.AnyState {
		return true
	}
	if b, ok := state.(bool); ok {
		if !booleanToken {
			return false
		}
		if b {
			return trueStates[token]
		}
		return falseStates[token]
	}
	if state == nil {
		return false
	}
	return token == domain.FormatValue(state)
}

// StatePair is one from/to combination an expression clause matches. Alias
// is set for :increment and :decrement, whose sides are both AnyState.
type StatePair struct {
	From  string
	To    string
	Alias string
}

// ExpandTransitionExpr lists the state pairs of a textual expression, with
// bidirectional clauses expanded and aliases resolved. Malformed clauses are
// skipped.
func ExpandTransitionExpr(expr string) []StatePair {
	var pairs []StatePair
	for _, clause := range clauseSplitRe.Split(expr, -1) {
		if len(clause) > 0 && clause[0] == ':' {
			switch lookupAlias(clause) {
			case aliasEnter:
				clause = domain.VoidState + " => " + domain.AnyState
			case aliasLeave:
				clause = domain.AnyState + " => " + domain.VoidState
			case aliasIncrement, aliasDecrement:
				pairs = append(pairs, StatePair{From: domain.AnyState, To: domain.AnyState, Alias: clause})
				continue
			default:
				clause = domain.AnyState + " => " + domain.AnyState
			}
		}
		m := clauseRe.FindStringSubmatch(clause)
		if m == nil {
			continue
		}
		pairs = append(pairs, StatePair{From: m[1], To: m[3]})
		if m[2][0] == '<' && !(m[1] == domain.AnyState && m[3] == domain.AnyState) {
			pairs = append(pairs, StatePair{From: m[3], To: m[1]})
		}
	}
	return pairs
}
