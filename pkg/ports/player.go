package ports

import "github.com/aretw0/cadence/pkg/domain"

// Player is a controllable handle to a pending or running animation.
// Callback lists are drained and cleared each time they fire.
type Player interface {
	OnStart(fn func())
	OnDone(fn func())
	OnDestroy(fn func())

	Init()
	HasStarted() bool
	Play()
	Pause()
	Restart()
	Finish()
	Destroy()
	Reset()

	SetPosition(p float64)
	Position() float64
	// TotalTime is duration plus delay, in milliseconds.
	TotalTime() float64

	Parent() Player
	SetParent(p Player)

	// TriggerCallback fires and clears the start or done callbacks.
	TriggerCallback(phase string)
}

// Interruptible players capture their current styles before being destroyed.
type Interruptible interface {
	BeforeDestroy()
}

// SnapshotMerger is implemented by players whose interrupted styles can seed
// the first keyframe of a follow-up animation built by a compatible backend.
type SnapshotMerger interface {
	Player
	Interruptible
	CurrentSnapshot() domain.StyleMap
	SupportsSnapshotMerge(backend string) bool
}
