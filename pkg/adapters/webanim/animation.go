// Package webanim implements the Web Animations style backend: players over
// native element animations, a virtual timeline standing in for the browser
// and the style normalizer that backend expects.
package webanim

import "github.com/aretw0/cadence/pkg/domain"

// Timing mirrors the options of a native animation. Times are milliseconds.
type Timing struct {
	Duration float64
	Delay    float64
	Fill     string
	Easing   string
}

// Animation is a running native animation.
type Animation interface {
	Play()
	Pause()
	Finish()
	Cancel()
	CurrentTime() float64
	SetCurrentTime(ms float64)
	// OnFinish registers fn for every time the animation finishes.
	OnFinish(fn func())
}

// AnimateFunc starts a native animation of keyframes on el.
type AnimateFunc func(el domain.Element, keyframes []domain.Keyframe, timing Timing) Animation

// Animator is implemented by elements that animate natively.
type Animator interface {
	domain.Element
	Animate(keyframes []domain.Keyframe, timing Timing) Animation
}
