package domain

// DefinitionKind tells whether a definition document describes a reusable
// animation (registered by id on the timeline engine) or a trigger.
type DefinitionKind string

const (
	KindAnimation DefinitionKind = "animation"
	KindTrigger   DefinitionKind = "trigger"
)

// Definition is the serializable form of an animation or trigger. It is what
// stores persist and what definition files contain.
type Definition struct {
	ID          string               `json:"id" yaml:"id" mapstructure:"id"`
	Kind        DefinitionKind       `json:"kind,omitempty" yaml:"kind,omitempty" mapstructure:"kind"`
	Description string               `json:"description,omitempty" yaml:"description,omitempty" mapstructure:"description"`
	Params      map[string]ParamSpec `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Steps       []Step               `json:"steps,omitempty" yaml:"steps,omitempty" mapstructure:"steps"`
	Trigger     *TriggerSpec         `json:"trigger,omitempty" yaml:"trigger,omitempty" mapstructure:"trigger"`
}

// EffectiveKind infers the kind when it was left empty.
func (d *Definition) EffectiveKind() DefinitionKind {
	if d.Kind != "" {
		return d.Kind
	}
	if d.Trigger != nil {
		return KindTrigger
	}
	return KindAnimation
}

// Defaults returns the default value of every declared param that has one.
func (d *Definition) Defaults() map[string]any {
	out := make(map[string]any)
	for name, p := range d.Params {
		if p.Default != nil {
			out[name] = p.Default
		}
	}
	return out
}

// ParamSpec declares the type (see the schema package) and default of a param.
type ParamSpec struct {
	Type    string `json:"type" yaml:"type" mapstructure:"type"`
	Default any    `json:"default,omitempty" yaml:"default,omitempty" mapstructure:"default"`
}

type TriggerSpec struct {
	Name        string           `json:"name" yaml:"name" mapstructure:"name"`
	States      []StateSpec      `json:"states,omitempty" yaml:"states,omitempty" mapstructure:"states"`
	Transitions []TransitionSpec `json:"transitions,omitempty" yaml:"transitions,omitempty" mapstructure:"transitions"`
}

type StateSpec struct {
	// Name may list several states separated by commas.
	Name   string         `json:"name" yaml:"name" mapstructure:"name"`
	Style  any            `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

type TransitionSpec struct {
	Expr   string         `json:"expr" yaml:"expr" mapstructure:"expr"`
	Steps  []Step         `json:"steps,omitempty" yaml:"steps,omitempty" mapstructure:"steps"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Delay  any            `json:"delay,omitempty" yaml:"delay,omitempty" mapstructure:"delay"`
}

// Step is one animation step. Exactly one of the step fields must be set.
type Step struct {
	// Style is AutoStyle, a property map or a list of those.
	Style        any          `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`
	Animate      *AnimateSpec `json:"animate,omitempty" yaml:"animate,omitempty" mapstructure:"animate"`
	Sequence     []Step       `json:"sequence,omitempty" yaml:"sequence,omitempty" mapstructure:"sequence"`
	Group        []Step       `json:"group,omitempty" yaml:"group,omitempty" mapstructure:"group"`
	Query        *QuerySpec   `json:"query,omitempty" yaml:"query,omitempty" mapstructure:"query"`
	Stagger      *StaggerSpec `json:"stagger,omitempty" yaml:"stagger,omitempty" mapstructure:"stagger"`
	AnimateChild bool         `json:"animate_child,omitempty" yaml:"animate_child,omitempty" mapstructure:"animate_child"`

	// Delay and Params apply to sequence and group steps.
	Delay  any            `json:"delay,omitempty" yaml:"delay,omitempty" mapstructure:"delay"`
	Params map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

type AnimateSpec struct {
	Timings   any              `json:"timings" yaml:"timings" mapstructure:"timings"`
	Style     any              `json:"style,omitempty" yaml:"style,omitempty" mapstructure:"style"`
	Keyframes []map[string]any `json:"keyframes,omitempty" yaml:"keyframes,omitempty" mapstructure:"keyframes"`
}

type QuerySpec struct {
	Selector string `json:"selector" yaml:"selector" mapstructure:"selector"`
	Optional bool   `json:"optional,omitempty" yaml:"optional,omitempty" mapstructure:"optional"`
	Limit    int    `json:"limit,omitempty" yaml:"limit,omitempty" mapstructure:"limit"`
	Delay    any    `json:"delay,omitempty" yaml:"delay,omitempty" mapstructure:"delay"`
	Steps    []Step `json:"steps" yaml:"steps" mapstructure:"steps"`
}

type StaggerSpec struct {
	Timings any    `json:"timings" yaml:"timings" mapstructure:"timings"`
	Steps   []Step `json:"steps" yaml:"steps" mapstructure:"steps"`
}
