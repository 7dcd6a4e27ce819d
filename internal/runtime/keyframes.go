package runtime

import (
	"fmt"
	"strings"

	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/ports"
)

// NormalizeKeyframes resolves pre (!) and auto (*) values from preStyles and
// postStyles, runs every other property through the normalizer and merges
// consecutive keyframes that share an offset. Tokens without a resolved value
// are kept as they are.
func NormalizeKeyframes(normalizer ports.StyleNormalizer, keyframes []domain.Keyframe, preStyles, postStyles domain.StyleMap) ([]domain.Keyframe, error) {
	var errors []string
	var out []domain.Keyframe
	previousOffset := -1.0

	for _, kf := range keyframes {
		sameOffset := len(out) > 0 && kf.Offset == previousOffset
		var normalized *domain.Keyframe
		if sameOffset {
			normalized = &out[len(out)-1]
		} else {
			out = append(out, domain.Keyframe{Offset: kf.Offset, Styles: domain.StyleMap{}})
			normalized = &out[len(out)-1]
		}
		if kf.Easing != "" {
			normalized.Easing = kf.Easing
		}

		for _, prop := range kf.Styles.Keys() {
			value := kf.Styles[prop]
			normalizedProp := prop
			if normalizer != nil {
				normalizedProp = normalizer.NormalizePropertyName(prop, &errors)
			}
			switch value {
			case domain.PreStyle:
				if v, ok := preStyles[prop]; ok {
					value = v
				}
			case domain.AutoStyle:
				if v, ok := postStyles[prop]; ok {
					value = v
				}
			default:
				if normalizer != nil {
					value = normalizer.NormalizeStyleValue(prop, normalizedProp, value, &errors)
				}
			}
			normalized.Styles[normalizedProp] = value
		}
		previousOffset = kf.Offset
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("unable to animate due to the following errors:\n - %s", strings.Join(errors, "\n - "))
	}
	return out, nil
}
