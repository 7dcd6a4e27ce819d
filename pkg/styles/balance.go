package styles

import "github.com/aretw0/cadence/pkg/domain"

// MergeWindowFunc decides whether the snapshots of interrupted players may seed
// the first keyframe of an animation with the given timing (milliseconds).
type MergeWindowFunc func(duration, delay float64) bool

// DefaultMergeWindow allows merging for instant animations or animations that
// start right away.
func DefaultMergeWindow(duration, delay float64) bool {
	return duration == 0 || delay == 0
}

// ComputeFunc resolves the current value of a property on the animated element.
type ComputeFunc func(prop string) string

// BalancePreviousStylesIntoKeyframes writes previousStyles into the first keyframe.
// Properties the keyframes did not animate before are resolved through compute
// for every later keyframe, so the animation settles on the element's own value.
func BalancePreviousStylesIntoKeyframes(keyframes []domain.Keyframe, previousStyles domain.StyleMap, compute ComputeFunc) []domain.Keyframe {
	if len(previousStyles) == 0 || len(keyframes) == 0 {
		return keyframes
	}
	start := keyframes[0]
	if start.Styles == nil {
		start.Styles = domain.StyleMap{}
		keyframes[0] = start
	}
	var missing []string
	for _, prop := range previousStyles.Keys() {
		if _, ok := start.Styles[prop]; !ok {
			missing = append(missing, prop)
		}
		start.Styles[prop] = previousStyles[prop]
	}
	if len(missing) > 0 {
		for i := 1; i < len(keyframes); i++ {
			if keyframes[i].Styles == nil {
				keyframes[i].Styles = domain.StyleMap{}
			}
			for _, prop := range missing {
				keyframes[i].Styles[prop] = compute(prop)
			}
		}
	}
	return keyframes
}
