package domain

import (
	"context"
	"time"
)

// EventType defines the category of a lifecycle event.
type EventType string

const (
	EventRegister   EventType = "register"
	EventCreate     EventType = "create"
	EventCommand    EventType = "command"
	EventDestroy    EventType = "destroy"
	EventTransition EventType = "transition"
)

// EventBase contains common fields for all lifecycle events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// AnimationEvent is delivered to player listeners.
type AnimationEvent struct {
	Element     Element `json:"-"`
	TriggerName string  `json:"trigger_name"`
	FromState   string  `json:"from_state"`
	ToState     string  `json:"to_state"`
	PhaseName   string  `json:"phase_name"`
	TotalTime   float64 `json:"total_time"`
	Disabled    bool    `json:"disabled"`
}

// RegisterEvent reports a registered animation or trigger.
type RegisterEvent struct {
	EventBase
	ID    string         `json:"id"`
	Kind  DefinitionKind `json:"kind"`
	Error error          `json:"-"`
}

// PlayerEvent reports a player created or destroyed by the timeline engine.
type PlayerEvent struct {
	EventBase
	ID        string  `json:"id"`
	Players   int     `json:"players"`
	TotalTime float64 `json:"total_time"`
	Error     error   `json:"-"`
}

// CommandEvent reports a timeline command.
type CommandEvent struct {
	EventBase
	ID      string `json:"id"`
	Command string `json:"command"`
	Error   error  `json:"-"`
}

// TransitionEvent reports a trigger state change.
type TransitionEvent struct {
	EventBase
	Trigger   string  `json:"trigger"`
	FromState string  `json:"from_state"`
	ToState   string  `json:"to_state"`
	Matched   bool    `json:"matched"`
	TotalTime float64 `json:"total_time"`
	Error     error   `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnRegister   func(context.Context, *RegisterEvent)
	OnCreate     func(context.Context, *PlayerEvent)
	OnCommand    func(context.Context, *CommandEvent)
	OnDestroy    func(context.Context, *PlayerEvent)
	OnTransition func(context.Context, *TransitionEvent)
}
