package domain

// MetadataType tags every node of the authoring tree.
type MetadataType int

const (
	MetadataTrigger MetadataType = iota
	MetadataState
	MetadataTransition
	MetadataSequence
	MetadataGroup
	MetadataAnimate
	MetadataKeyframes
	MetadataStyle
	MetadataReference
	MetadataAnimateChild
	MetadataAnimateRef
	MetadataQuery
	MetadataStagger
)

var metadataTypeNames = [...]string{
	"trigger", "state", "transition", "sequence", "group", "animate", "keyframes",
	"style", "reference", "animateChild", "animateRef", "query", "stagger",
}

func (t MetadataType) String() string {
	if int(t) < len(metadataTypeNames) {
		return metadataTypeNames[t]
	}
	return "unknown"
}

// Metadata is a node of the authoring tree.
type Metadata interface {
	MetadataType() MetadataType
}

// MatcherFunc decides whether a transition applies to a state change.
type MatcherFunc func(fromState, toState any, element Element, params map[string]any) bool

// Options are the per-step options shared by most metadata nodes.
// Delay and Duration accept milliseconds or a time expression such as "200ms".
type Options struct {
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Delay    any            `json:"delay,omitempty" yaml:"delay,omitempty" mapstructure:"delay"`
	Duration any            `json:"duration,omitempty" yaml:"duration,omitempty" mapstructure:"duration"`
}

// QueryOptions extends Options for query steps.
type QueryOptions struct {
	Options  `mapstructure:",squash"`
	Optional bool `json:"optional,omitempty" yaml:"optional,omitempty" mapstructure:"optional"`
	// Limit keeps the first N matches; a negative limit keeps the last N.
	Limit int `json:"limit,omitempty" yaml:"limit,omitempty" mapstructure:"limit"`
}

// StyleEntry is one argument of a style step: a property map, or a token
// (only AutoStyle is accepted by the compiler).
type StyleEntry struct {
	Token string
	Props map[string]any
}

type TriggerMetadata struct {
	Name string
	// Definitions holds *StateMetadata and *TransitionMetadata in declaration order.
	Definitions []Metadata
	Options     *Options
}

type StateMetadata struct {
	Name    string
	Styles  *StyleMetadata
	Options *Options
}

type TransitionMetadata struct {
	// Expr is the textual transition expression. Matcher takes precedence when set.
	Expr      string
	Matcher   MatcherFunc
	Animation Metadata
	Options   *Options
}

type SequenceMetadata struct {
	Steps   []Metadata
	Options *Options
}

type GroupMetadata struct {
	Steps   []Metadata
	Options *Options
}

// AnimateMetadata animates towards Styles, which is a *StyleMetadata, a
// *KeyframesMetadata or nil (an empty step that animates back to auto styles).
type AnimateMetadata struct {
	Timings any
	Styles  Metadata
}

type StyleMetadata struct {
	Styles []StyleEntry
	Offset *float64
}

type KeyframesMetadata struct {
	Steps []*StyleMetadata
}

// ReferenceMetadata is a reusable animation.
type ReferenceMetadata struct {
	Animation Metadata
	Options   *Options
}

type AnimateChildMetadata struct {
	Options *Options
}

// AnimateRefMetadata runs a reusable animation in place.
type AnimateRefMetadata struct {
	Animation *ReferenceMetadata
	Options   *Options
}

type QueryMetadata struct {
	Selector  string
	Animation Metadata
	Options   *QueryOptions
}

type StaggerMetadata struct {
	Timings   any
	Animation Metadata
}

func (*TriggerMetadata) MetadataType() MetadataType      { return MetadataTrigger }
func (*StateMetadata) MetadataType() MetadataType        { return MetadataState }
func (*TransitionMetadata) MetadataType() MetadataType   { return MetadataTransition }
func (*SequenceMetadata) MetadataType() MetadataType     { return MetadataSequence }
func (*GroupMetadata) MetadataType() MetadataType        { return MetadataGroup }
func (*AnimateMetadata) MetadataType() MetadataType      { return MetadataAnimate }
func (*StyleMetadata) MetadataType() MetadataType        { return MetadataStyle }
func (*KeyframesMetadata) MetadataType() MetadataType    { return MetadataKeyframes }
func (*ReferenceMetadata) MetadataType() MetadataType    { return MetadataReference }
func (*AnimateChildMetadata) MetadataType() MetadataType { return MetadataAnimateChild }
func (*AnimateRefMetadata) MetadataType() MetadataType   { return MetadataAnimateRef }
func (*QueryMetadata) MetadataType() MetadataType        { return MetadataQuery }
func (*StaggerMetadata) MetadataType() MetadataType      { return MetadataStagger }
