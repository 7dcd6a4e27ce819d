package dsl

import "github.com/aretw0/cadence/pkg/domain"

// Props is a style property map. Values may be strings or numbers and may
// reference params with "{{ name }}".
type Props = map[string]any

// Auto is the style token that resolves every property from the element.
const Auto = domain.AutoStyle

// Style builds a style step. Each entry is a Props map or the Auto token.
func Style(entries ...any) *domain.StyleMetadata {
	m := &domain.StyleMetadata{}
	for _, e := range entries {
		switch v := e.(type) {
		case map[string]any:
			m.Styles = append(m.Styles, domain.StyleEntry{Props: v})
		case domain.StyleMap:
			props := make(map[string]any, len(v))
			for k, val := range v {
				props[k] = val
			}
			m.Styles = append(m.Styles, domain.StyleEntry{Props: props})
		case string:
			m.Styles = append(m.Styles, domain.StyleEntry{Token: v})
		}
	}
	return m
}

// Animate animates towards styles, a Style or Keyframes step. Without styles
// the step animates back to the element's auto styles.
func Animate(timings any, styles ...domain.Metadata) *domain.AnimateMetadata {
	m := &domain.AnimateMetadata{Timings: timings}
	if len(styles) > 0 {
		m.Styles = styles[0]
	}
	return m
}

func Keyframes(steps ...*domain.StyleMetadata) *domain.KeyframesMetadata {
	return &domain.KeyframesMetadata{Steps: steps}
}

func Sequence(steps ...domain.Metadata) *domain.SequenceMetadata {
	return &domain.SequenceMetadata{Steps: steps}
}

func Group(steps ...domain.Metadata) *domain.GroupMetadata {
	return &domain.GroupMetadata{Steps: steps}
}

// QueryOption configures a Query step.
type QueryOption func(*domain.QueryOptions)

// Optional allows the query to match nothing.
func Optional() QueryOption {
	return func(o *domain.QueryOptions) { o.Optional = true }
}

// Limit keeps the first n matches, or the last -n when n is negative.
func Limit(n int) QueryOption {
	return func(o *domain.QueryOptions) { o.Limit = n }
}

// QueryDelay delays the animation of every queried element.
func QueryDelay(delay any) QueryOption {
	return func(o *domain.QueryOptions) { o.Delay = delay }
}

// Query runs animation on the elements selector finds under the animated element.
func Query(selector string, animation domain.Metadata, opts ...QueryOption) *domain.QueryMetadata {
	m := &domain.QueryMetadata{Selector: selector, Animation: animation}
	if len(opts) > 0 {
		m.Options = &domain.QueryOptions{}
		for _, opt := range opts {
			opt(m.Options)
		}
	}
	return m
}

// Stagger offsets each queried element by timings; a negative duration
// staggers in reverse order.
func Stagger(timings any, animation domain.Metadata) *domain.StaggerMetadata {
	return &domain.StaggerMetadata{Timings: timings, Animation: animation}
}

// Animation declares a reusable animation.
func Animation(steps ...domain.Metadata) *domain.ReferenceMetadata {
	return &domain.ReferenceMetadata{Animation: entry(steps)}
}

// UseAnimation runs a reusable animation in place with opts overriding its params.
func UseAnimation(ref *domain.ReferenceMetadata, opts *domain.Options) *domain.AnimateRefMetadata {
	return &domain.AnimateRefMetadata{Animation: ref, Options: opts}
}

// AnimateChild plays the animations of child triggers at this point of the timeline.
func AnimateChild(opts *domain.Options) *domain.AnimateChildMetadata {
	return &domain.AnimateChildMetadata{Options: opts}
}

// State declares the styles a trigger holds in name, which may list several
// states separated by commas.
func State(name string, style *domain.StyleMetadata, params map[string]any) *domain.StateMetadata {
	m := &domain.StateMetadata{Name: name, Styles: style}
	if params != nil {
		m.Options = &domain.Options{Params: params}
	}
	return m
}

// Transition plays steps when a state change matches expr.
func Transition(expr string, steps ...domain.Metadata) *domain.TransitionMetadata {
	return &domain.TransitionMetadata{Expr: expr, Animation: entry(steps)}
}

// Trigger groups states and transitions under a name.
func Trigger(name string, definitions ...domain.Metadata) *domain.TriggerMetadata {
	return &domain.TriggerMetadata{Name: name, Definitions: definitions}
}

// WithOptions attaches opts to steps that carry options and returns m.
func WithOptions(m domain.Metadata, opts *domain.Options) domain.Metadata {
	switch v := m.(type) {
	case *domain.SequenceMetadata:
		v.Options = opts
	case *domain.GroupMetadata:
		v.Options = opts
	case *domain.TransitionMetadata:
		v.Options = opts
	case *domain.ReferenceMetadata:
		v.Options = opts
	case *domain.TriggerMetadata:
		v.Options = opts
	case *domain.StateMetadata:
		v.Options = opts
	}
	return m
}

// Params is a shorthand for options carrying only params.
func Params(params map[string]any) *domain.Options {
	return &domain.Options{Params: params}
}

func entry(steps []domain.Metadata) domain.Metadata {
	if len(steps) == 1 {
		return steps[0]
	}
	return Sequence(steps...)
}
