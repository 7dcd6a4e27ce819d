package domain

import "sort"

// StyleMap holds resolved style values keyed by property name.
type StyleMap map[string]string

// Copy returns a shallow copy. A nil map copies to an empty one.
func (s StyleMap) Copy() StyleMap {
	out := make(StyleMap, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge writes every entry of other into s, overwriting existing keys.
func (s StyleMap) Merge(other StyleMap) StyleMap {
	for k, v := range other {
		s[k] = v
	}
	return s
}

// Keys returns the property names in lexical order.
func (s StyleMap) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Keyframe is one step of a timeline: the styles that hold at Offset (0..1)
// and the easing used to reach the next keyframe.
type Keyframe struct {
	Offset float64  `json:"offset"`
	Easing string   `json:"easing,omitempty"`
	Styles StyleMap `json:"styles"`
}

// Copy returns a deep copy of the keyframe.
func (k Keyframe) Copy() Keyframe {
	return Keyframe{Offset: k.Offset, Easing: k.Easing, Styles: k.Styles.Copy()}
}

// CopyKeyframes deep copies a keyframe list.
func CopyKeyframes(kfs []Keyframe) []Keyframe {
	out := make([]Keyframe, len(kfs))
	for i, kf := range kfs {
		out[i] = kf.Copy()
	}
	return out
}
