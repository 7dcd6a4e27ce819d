package runtime

import (
	"github.com/aretw0/cadence/internal/compiler"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// StateStyles resolves the styles of one declared state.
type StateStyles struct {
	style         *compiler.StyleAst
	defaultParams map[string]any
	normalizer    ports.StyleNormalizer
}

// BuildStyles interpolates the state's styles with params layered over the
// state's default params. Nil params are ignored.
func (s *StateStyles) BuildStyles(params map[string]any, errors *[]string) domain.StyleMap {
	combined := compiler.NormalizeParams(s.defaultParams)
	for k, v := range params {
		if v != nil {
			combined[k] = v
		}
	}

	out := domain.StyleMap{}
	if s.style == nil {
		return out
	}
	for _, tuple := range s.style.Styles {
		if tuple.Auto {
			continue
		}
		for _, prop := range tuple.Props.Keys() {
			value := tuple.Props[prop]
			if len(value) > 1 {
				value = compiler.InterpolateParams(value, combined, errors)
			}
			normalizedProp := prop
			if s.normalizer != nil {
				normalizedProp = s.normalizer.NormalizePropertyName(prop, errors)
				value = s.normalizer.NormalizeStyleValue(prop, normalizedProp, value, errors)
			}
			out[normalizedProp] = value
		}
	}
	return out
}

// StateTable keeps declared states in insertion order.
type StateTable struct {
	names  []string
	styles map[string]*StateStyles
}

func newStateTable() *StateTable {
	return &StateTable{styles: make(map[string]*StateStyles)}
}

func (t *StateTable) set(name string, s *StateStyles) {
	if _, ok := t.styles[name]; !ok {
		t.names = append(t.names, name)
	}
	t.styles[name] = s
}

func (t *StateTable) Get(name string) (*StateStyles, bool) {
	s, ok := t.styles[name]
	return s, ok
}

// Names lists the states in declaration order, synthesized ones last.
func (t *StateTable) Names() []string { return append([]string(nil), t.names...) }

// balance makes key1 and key2 share styles when only one of them is declared.
func (t *StateTable) balance(key1, key2 string) {
	if s, ok := t.styles[key1]; ok {
		if _, ok := t.styles[key2]; !ok {
			t.set(key2, s)
		}
	} else if s, ok := t.styles[key2]; ok {
		t.set(key1, s)
	}
}

// TransitionInstruction is everything needed to play one state change.
type TransitionInstruction struct {
	Element             domain.Element
	TriggerName         string
	IsRemovalTransition bool
	FromState           string
	FromStyles          domain.StyleMap
	ToState             string
	ToStyles            domain.StyleMap
	Timelines           []*domain.TimelineInstruction
	QueriedElements     []domain.Element
	// PreStyleProps and PostStyleProps are keyed by element id.
	PreStyleProps  map[string]map[string]bool
	PostStyleProps map[string]map[string]bool
	TotalTime      float64
	Errors         []string
}

// TransitionFactory builds the instructions of one transition rule.
type TransitionFactory struct {
	triggerName string
	ast         *compiler.TransitionAst
	states      *StateTable
}

func (f *TransitionFactory) Ast() *compiler.TransitionAst { return f.ast }

// Match reports whether any of the transition's matchers accepts the change.
func (f *TransitionFactory) Match(from, to any, el domain.Element, params map[string]any) bool {
	for _, fn := range f.ast.Matchers {
		if fn(from, to, el, params) {
			return true
		}
	}
	return false
}

// BuildStyles returns the styles of state, falling back to the "*" state.
func (f *TransitionFactory) BuildStyles(state string, params map[string]any, errors *[]string) domain.StyleMap {
	var backup domain.StyleMap
	if s, ok := f.states.Get(domain.AnyState); ok {
		backup = s.BuildStyles(params, errors)
	} else {
		backup = domain.StyleMap{}
	}
	if s, ok := f.states.Get(state); ok {
		return s.BuildStyles(params, errors)
	}
	return backup
}

// BuildOptions carries the per-call inputs of TransitionFactory.Build.
type BuildOptions struct {
	EnterClassName  string
	LeaveClassName  string
	CurrentOptions  *domain.Options
	NextOptions     *domain.Options
	SubInstructions *ElementInstructionMap
	SkipAstBuild    bool
}

// Build compiles the transition from currentState to nextState on el.
// Errors are reported in the returned instruction, which then has no timelines.
func (f *TransitionFactory) Build(querier Querier, el domain.Element, currentState, nextState any, opts BuildOptions) *TransitionInstruction {
	var errors []string
	from := domain.FormatValue(currentState)
	to := domain.FormatValue(nextState)

	var transitionParams, currentParams, nextParams map[string]any
	if f.ast.Options != nil {
		transitionParams = f.ast.Options.Params
	}
	if opts.CurrentOptions != nil {
		currentParams = opts.CurrentOptions.Params
	}
	if opts.NextOptions != nil {
		nextParams = opts.NextOptions.Params
	}

	fromStyles := f.BuildStyles(from, currentParams, &errors)
	toStyles := f.BuildStyles(to, nextParams, &errors)

	params := compiler.NormalizeParams(transitionParams)
	for k, v := range nextParams {
		params[k] = v
	}

	instr := &TransitionInstruction{
		Element:             el,
		TriggerName:         f.triggerName,
		IsRemovalTransition: to == domain.VoidState,
		FromState:           from,
		FromStyles:          fromStyles,
		ToState:             to,
		ToStyles:            toStyles,
		PreStyleProps:       map[string]map[string]bool{},
		PostStyleProps:      map[string]map[string]bool{},
	}

	var timelines []*domain.TimelineInstruction
	if !opts.SkipAstBuild {
		timelines = BuildAnimationTimelines(querier, el, f.ast.Animation, opts.EnterClassName, opts.LeaveClassName,
			fromStyles, toStyles, &domain.Options{Params: params}, opts.SubInstructions, &errors)
	}
	for _, tl := range timelines {
		if t := tl.Duration + tl.Delay; t > instr.TotalTime {
			instr.TotalTime = t
		}
	}

	if len(errors) > 0 {
		instr.Errors = errors
		return instr
	}

	seen := map[string]bool{}
	for _, tl := range timelines {
		id := tl.Element.ID()
		addProps(instr.PreStyleProps, id, tl.PreStyleProps)
		addProps(instr.PostStyleProps, id, tl.PostStyleProps)
		if !sameElement(tl.Element, el) && !seen[id] {
			seen[id] = true
			instr.QueriedElements = append(instr.QueriedElements, tl.Element)
		}
	}
	instr.Timelines = timelines
	return instr
}

func addProps(table map[string]map[string]bool, id string, props []string) {
	set, ok := table[id]
	if !ok {
		set = map[string]bool{}
		table[id] = set
	}
	for _, p := range props {
		set[p] = true
	}
}

// Trigger holds the compiled states and transitions of one trigger.
type Trigger struct {
	name        string
	ast         *compiler.TriggerAst
	states      *StateTable
	transitions []*TransitionFactory
	fallback    *TransitionFactory
}

// BuildTrigger compiles ast into a trigger. The normalizer may be nil.
func BuildTrigger(name string, ast *compiler.TriggerAst, normalizer ports.StyleNormalizer) *Trigger {
	t := &Trigger{name: name, ast: ast, states: newStateTable()}
	for _, st := range ast.States {
		params := st.Params
		if params == nil {
			params = map[string]any{}
		}
		t.states.set(st.Name, &StateStyles{style: st.Style, defaultParams: params, normalizer: normalizer})
	}
	t.states.balance("true", "1")
	t.states.balance("false", "0")

	for _, tr := range ast.Transitions {
		t.transitions = append(t.transitions, &TransitionFactory{triggerName: name, ast: tr, states: t.states})
	}
	t.fallback = &TransitionFactory{triggerName: name, states: t.states, ast: &compiler.TransitionAst{
		Matchers:  []domain.MatcherFunc{func(any, any, domain.Element, map[string]any) bool { return true }},
		Animation: compiler.EmptySequence(),
	}}
	return t
}

func (t *Trigger) Name() string                          { return t.name }
func (t *Trigger) States() *StateTable                   { return t.states }
func (t *Trigger) Transitions() []*TransitionFactory     { return t.transitions }
func (t *Trigger) FallbackTransition() *TransitionFactory { return t.fallback }

// ContainsQueries reports whether any transition queries child elements.
func (t *Trigger) ContainsQueries() bool { return t.ast.QueryCount > 0 }

// MatchTransition returns the first transition accepting the change, or nil.
func (t *Trigger) MatchTransition(from, to any, el domain.Element, params map[string]any) *TransitionFactory {
	for _, f := range t.transitions {
		if f.Match(from, to, el, params) {
			return f
		}
	}
	return nil
}

// MatchStyles resolves the styles of state through the fallback transition.
func (t *Trigger) MatchStyles(state any, params map[string]any, errors *[]string) domain.StyleMap {
	return t.fallback.BuildStyles(domain.FormatValue(state), params, errors)
}
