package compiler

import "github.com/aretw0/cadence/pkg/domain"

// Ast is a validated animation node ready for timeline building.
type Ast interface {
	Type() domain.MetadataType
}

type TriggerAst struct {
	Name        string
	States      []*StateAst
	Transitions []*TransitionAst
	QueryCount  int
	DepCount    int
}

type StateAst struct {
	Name  string
	Style *StyleAst
	// Params are the default params of the state's style.
	Params map[string]any
}

type TransitionAst struct {
	Matchers   []domain.MatcherFunc
	Animation  Ast
	QueryCount int
	DepCount   int
	Options    *domain.Options
}

type SequenceAst struct {
	Steps   []Ast
	Options *domain.Options
}

type GroupAst struct {
	Steps   []Ast
	Options *domain.Options
}

// AnimateAst holds a *StyleAst or a *KeyframesAst.
type AnimateAst struct {
	Timings *TimingAst
	Style   Ast
}

// StyleTuple is either the auto token or a set of property values.
type StyleTuple struct {
	Auto  bool
	Props domain.StyleMap
}

type StyleAst struct {
	Styles                []StyleTuple
	Easing                string
	Offset                *float64
	ContainsDynamicStyles bool
	IsEmptyStep           bool
}

type KeyframesAst struct {
	Styles []*StyleAst
}

type ReferenceAst struct {
	Animation Ast
	Options   *domain.Options
}

type AnimateChildAst struct {
	Options *domain.Options
}

type AnimateRefAst struct {
	Animation *ReferenceAst
	Options   *domain.Options
}

type QueryAst struct {
	Selector         string
	OriginalSelector string
	Limit            int
	Optional         bool
	IncludeSelf      bool
	Animation        Ast
	Options          *domain.Options
}

type StaggerAst struct {
	Timings   Timings
	Animation Ast
}

func (*TriggerAst) Type() domain.MetadataType      { return domain.MetadataTrigger }
func (*StateAst) Type() domain.MetadataType        { return domain.MetadataState }
func (*TransitionAst) Type() domain.MetadataType   { return domain.MetadataTransition }
func (*SequenceAst) Type() domain.MetadataType     { return domain.MetadataSequence }
func (*GroupAst) Type() domain.MetadataType        { return domain.MetadataGroup }
func (*AnimateAst) Type() domain.MetadataType      { return domain.MetadataAnimate }
func (*StyleAst) Type() domain.MetadataType        { return domain.MetadataStyle }
func (*KeyframesAst) Type() domain.MetadataType    { return domain.MetadataKeyframes }
func (*ReferenceAst) Type() domain.MetadataType    { return domain.MetadataReference }
func (*AnimateChildAst) Type() domain.MetadataType { return domain.MetadataAnimateChild }
func (*AnimateRefAst) Type() domain.MetadataType   { return domain.MetadataAnimateRef }
func (*QueryAst) Type() domain.MetadataType        { return domain.MetadataQuery }
func (*StaggerAst) Type() domain.MetadataType      { return domain.MetadataStagger }

// EmptySequence is the animation of transitions that only change state styles.
func EmptySequence() *SequenceAst {
	return &SequenceAst{Options: &domain.Options{}}
}

func normalizeOptions(opts *domain.Options) *domain.Options {
	if opts == nil {
		return &domain.Options{}
	}
	out := *opts
	if opts.Params != nil {
		out.Params = NormalizeParams(opts.Params)
	}
	return &out
}
