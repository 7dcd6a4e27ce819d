package dsl

import "github.com/aretw0/cadence/pkg/domain"

// TriggerBuilder provides a fluent API for declaring a trigger.
type TriggerBuilder struct {
	trigger domain.TriggerMetadata
}

// NewTrigger starts a trigger declaration.
func NewTrigger(name string) *TriggerBuilder {
	return &TriggerBuilder{trigger: domain.TriggerMetadata{Name: name}}
}

// State declares the styles held in name.
func (b *TriggerBuilder) State(name string, style *domain.StyleMetadata) *TriggerBuilder {
	b.trigger.Definitions = append(b.trigger.Definitions, State(name, style, nil))
	return b
}

// StateWithParams declares a state whose styles reference params, with their defaults.
func (b *TriggerBuilder) StateWithParams(name string, style *domain.StyleMetadata, defaults map[string]any) *TriggerBuilder {
	b.trigger.Definitions = append(b.trigger.Definitions, State(name, style, defaults))
	return b
}

// Transition adds a transition. Transitions are matched in declaration order.
func (b *TriggerBuilder) Transition(expr string, steps ...domain.Metadata) *TriggerBuilder {
	b.trigger.Definitions = append(b.trigger.Definitions, Transition(expr, steps...))
	return b
}

// TransitionFunc adds a transition matched by fn instead of an expression.
func (b *TriggerBuilder) TransitionFunc(fn domain.MatcherFunc, steps ...domain.Metadata) *TriggerBuilder {
	t := Transition("", steps...)
	t.Matcher = fn
	b.trigger.Definitions = append(b.trigger.Definitions, t)
	return b
}

// Build returns the trigger metadata.
func (b *TriggerBuilder) Build() *domain.TriggerMetadata {
	out := b.trigger
	out.Definitions = append([]domain.Metadata(nil), b.trigger.Definitions...)
	return &out
}
