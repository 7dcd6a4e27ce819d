/*
Package cadence is a backend-agnostic animation engine.

It compiles declarative animations (styles, timed steps, keyframes, sequences,
groups, queries and staggers) into timelines of keyframe instructions and
plays them through a driver: synthesized CSS @keyframes, a Web Animations
style backend or a no-op driver for headless use.

# Concept

Two kinds of definitions are registered on an Engine:

  - Animations are registered by id and played on demand with Create and
    Command ("play", "pause", "setPosition", "finish", "destroy" ...).
  - Triggers declare named states and transitions between them. SetState
    moves a trigger on an element to a new state and plays the first
    transition whose expression ("closed => open", ":enter", "* <=> *")
    matches the change.

Players never own goroutines. Work they defer (a no-op player finishing, a
group collecting its children) is queued and runs when the host calls Flush.

# Usage

	eng, err := cadence.New("./animations", cadence.WithDriver(driver))
	if err != nil {
		log.Fatal(err)
	}
	if _, err := eng.LoadAll(ctx); err != nil {
		log.Fatal(err)
	}

	p, err := eng.Create(ctx, "fade-in", el, dsl.Params(map[string]any{"time": "200ms"}))
	if err != nil {
		log.Fatal(err)
	}
	p.OnDone(func() { log.Println("done") })
	p.Play()
	eng.Flush()

Definitions are YAML, JSON or Markdown front matter documents:

	id: fade-in
	params:
	  time: {type: timing, default: 300ms}
	steps:
	  - style: {opacity: 0}
	  - animate: {timings: "{{ time }}", style: {opacity: 1}}

Animations can also be written in Go with the dsl package and registered
with Register or RegisterTrigger.
*/
package cadence
