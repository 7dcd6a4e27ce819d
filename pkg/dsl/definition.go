package dsl

import (
	"fmt"

	"github.com/aretw0/cadence/pkg/domain"
)

// FromDefinition converts a serialized definition into metadata. Animations
// become their step (a sequence when there are several) and triggers a
// *domain.TriggerMetadata.
func FromDefinition(def *domain.Definition) (domain.Metadata, error) {
	if def == nil {
		return nil, fmt.Errorf("%w: nil definition", domain.ErrInvalidDefinition)
	}
	if def.EffectiveKind() == domain.KindTrigger {
		return TriggerFromDefinition(def)
	}
	steps, err := convertSteps(def.Steps, def.ID)
	if err != nil {
		return nil, err
	}
	return entry(steps), nil
}

// TriggerFromDefinition converts the trigger section of def.
func TriggerFromDefinition(def *domain.Definition) (*domain.TriggerMetadata, error) {
	spec := def.Trigger
	if spec == nil {
		return nil, fmt.Errorf("%w: %s: missing trigger section", domain.ErrInvalidDefinition, def.ID)
	}
	name := spec.Name
	if name == "" {
		name = def.ID
	}
	t := &domain.TriggerMetadata{Name: name}
	for i, s := range spec.States {
		style, err := convertStyle(s.Style)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: state %d: %v", domain.ErrInvalidDefinition, def.ID, i, err)
		}
		t.Definitions = append(t.Definitions, State(s.Name, style, s.Params))
	}
	for i, tr := range spec.Transitions {
		steps, err := convertSteps(tr.Steps, fmt.Sprintf("%s: transition %d", def.ID, i))
		if err != nil {
			return nil, err
		}
		m := Transition(tr.Expr, steps...)
		if tr.Params != nil || tr.Delay != nil {
			m.Options = &domain.Options{Params: tr.Params, Delay: tr.Delay}
		}
		t.Definitions = append(t.Definitions, m)
	}
	return t, nil
}

func convertSteps(steps []domain.Step, where string) ([]domain.Metadata, error) {
	out := make([]domain.Metadata, 0, len(steps))
	for i, s := range steps {
		m, err := convertStep(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: step %d: %v", domain.ErrInvalidDefinition, where, i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func convertStep(s domain.Step) (domain.Metadata, error) {
	set := 0
	for _, present := range []bool{s.Style != nil, s.Animate != nil, s.Sequence != nil, s.Group != nil,
		s.Query != nil, s.Stagger != nil, s.AnimateChild} {
		if present {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one step kind must be set, found %d", set)
	}

	var options *domain.Options
	if s.Params != nil || s.Delay != nil {
		options = &domain.Options{Params: s.Params, Delay: s.Delay}
	}

	switch {
	case s.Style != nil:
		return convertStyle(s.Style)
	case s.Animate != nil:
		return convertAnimate(s.Animate)
	case s.Sequence != nil:
		steps, err := convertNested(s.Sequence)
		if err != nil {
			return nil, err
		}
		return &domain.SequenceMetadata{Steps: steps, Options: options}, nil
	case s.Group != nil:
		steps, err := convertNested(s.Group)
		if err != nil {
			return nil, err
		}
		return &domain.GroupMetadata{Steps: steps, Options: options}, nil
	case s.Query != nil:
		steps, err := convertNested(s.Query.Steps)
		if err != nil {
			return nil, err
		}
		q := Query(s.Query.Selector, entry(steps))
		if s.Query.Optional || s.Query.Limit != 0 || s.Query.Delay != nil {
			q.Options = &domain.QueryOptions{Optional: s.Query.Optional, Limit: s.Query.Limit}
			q.Options.Delay = s.Query.Delay
		}
		return q, nil
	case s.Stagger != nil:
		steps, err := convertNested(s.Stagger.Steps)
		if err != nil {
			return nil, err
		}
		return Stagger(s.Stagger.Timings, entry(steps)), nil
	default:
		return AnimateChild(options), nil
	}
}

func convertNested(steps []domain.Step) ([]domain.Metadata, error) {
	out := make([]domain.Metadata, 0, len(steps))
	for i, s := range steps {
		m, err := convertStep(s)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func convertAnimate(a *domain.AnimateSpec) (domain.Metadata, error) {
	if a.Style != nil && a.Keyframes != nil {
		return nil, fmt.Errorf("animate accepts either style or keyframes")
	}
	m := Animate(a.Timings)
	switch {
	case a.Style != nil:
		style, err := convertStyle(a.Style)
		if err != nil {
			return nil, err
		}
		m.Styles = style
	case a.Keyframes != nil:
		kf := &domain.KeyframesMetadata{}
		for _, props := range a.Keyframes {
			kf.Steps = append(kf.Steps, Style(copyProps(props)))
		}
		m.Styles = kf
	}
	return m, nil
}

// convertStyle accepts the Auto token, a property map or a list of those.
func convertStyle(v any) (*domain.StyleMetadata, error) {
	if v == nil {
		return nil, nil
	}
	var entries []any
	if list, ok := v.([]any); ok {
		entries = list
	} else {
		entries = []any{v}
	}
	m := &domain.StyleMetadata{}
	for _, e := range entries {
		switch t := e.(type) {
		case string:
			m.Styles = append(m.Styles, domain.StyleEntry{Token: t})
		case map[string]any:
			m.Styles = append(m.Styles, domain.StyleEntry{Props: copyProps(t)})
		case map[any]any:
			props := make(map[string]any, len(t))
			for k, val := range t {
				props[fmt.Sprint(k)] = val
			}
			m.Styles = append(m.Styles, domain.StyleEntry{Props: props})
		default:
			return nil, fmt.Errorf("unsupported style value %T", e)
		}
	}
	return m, nil
}

func copyProps(in map[string]any) map[string]any {
	out := make(map[string]any, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
