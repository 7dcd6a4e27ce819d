package domain

// TimelineInstruction is the compiled animation for one element.
// Durations and delays are expressed in milliseconds.
type TimelineInstruction struct {
	Element        Element    `json:"-"`
	Keyframes      []Keyframe `json:"keyframes"`
	PreStyleProps  []string   `json:"pre_style_props,omitempty"`
	PostStyleProps []string   `json:"post_style_props,omitempty"`
	Duration       float64    `json:"duration"`
	Delay          float64    `json:"delay"`
	TotalTime      float64    `json:"total_time"`
	Easing         string     `json:"easing,omitempty"`
	SubTimeline    bool       `json:"sub_timeline,omitempty"`

	// StretchStartingKeyframe makes a parent timeline hold the first keyframe
	// of this instruction for the whole of its delay.
	StretchStartingKeyframe bool `json:"-"`
}

// NewTimelineInstruction fills TotalTime from duration and delay.
func NewTimelineInstruction(el Element, keyframes []Keyframe, pre, post []string, duration, delay float64, easing string, subTimeline bool) *TimelineInstruction {
	return &TimelineInstruction{
		Element:        el,
		Keyframes:      keyframes,
		PreStyleProps:  pre,
		PostStyleProps: post,
		Duration:       duration,
		Delay:          delay,
		TotalTime:      duration + delay,
		Easing:         easing,
		SubTimeline:    subTimeline,
	}
}
