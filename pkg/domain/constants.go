package domain

const (
	// AnyState matches every state in a transition expression.
	AnyState = "*"
	// VoidState is the state of an element that is not attached (or not yet animated).
	VoidState = "void"

	// AutoStyle marks a property whose value is resolved from the element once the animation runs.
	AutoStyle = "*"
	// PreStyle marks a property whose value is captured from the element before the animation runs.
	PreStyle = "!"

	// EnterClassName and LeaveClassName replace the :enter and :leave tokens in query selectors.
	EnterClassName = "cadence-enter"
	LeaveClassName = "cadence-leave"
)

// Phase names accepted by listeners and TriggerCallback.
const (
	PhaseStart   = "start"
	PhaseDone    = "done"
	PhaseDestroy = "destroy"
)

// Timeline commands understood by the engine façade.
const (
	CommandRegister    = "register"
	CommandCreate      = "create"
	CommandPlay        = "play"
	CommandPause       = "pause"
	CommandReset       = "reset"
	CommandRestart     = "restart"
	CommandFinish      = "finish"
	CommandInit        = "init"
	CommandSetPosition = "setPosition"
	CommandDestroy     = "destroy"
)
