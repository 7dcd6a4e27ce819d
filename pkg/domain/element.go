package domain

import "time"

// Element is an animation target. Drivers decide what backs it; the engine only
// needs a stable identity to key players and timelines.
type Element interface {
	ID() string
}

// DOMEvent is an event delivered by an element, such as "animationend".
type DOMEvent struct {
	Type          string
	AnimationName string
	// ElapsedTime is expressed in seconds, like the browser event.
	ElapsedTime float64
	// Timestamp overrides the wall clock when non-zero.
	Timestamp time.Time
}
