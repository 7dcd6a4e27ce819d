package cadence_test

import (
	"context"
	"fmt"
	"log"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/pkg/adapters/memory"
	"github.com/aretw0/cadence/pkg/adapters/mock"
	"github.com/aretw0/cadence/pkg/domain"
	"github.com/aretw0/cadence/pkg/dsl"
)

// ExampleNew_memory registers definitions held in memory, which is useful for
// tests and embedded scenarios.
func ExampleNew_memory() {
	loader := memory.NewLoader(map[string]string{
		"fade": `
id: fade
params:
  time: {type: timing, default: 300ms}
steps:
  - style: {opacity: 0}
  - animate: {timings: "{{ time }}", style: {opacity: 1}}
`,
	})

	// The path is left empty because a loader is provided.
	eng, err := cadence.New("", cadence.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	if _, err := eng.LoadAll(ctx); err != nil {
		log.Fatal(err)
	}

	p, err := eng.Create(ctx, "fade", mock.NewElement("div"), nil)
	if err != nil {
		log.Fatal(err)
	}
	p.OnDone(func() { fmt.Println("done after", p.TotalTime(), "ms") })
	p.Play()
	eng.Flush()

	// Output:
	// done after 300 ms
}

// ExampleEngine_SetState plays the transitions of a trigger written with the dsl.
func ExampleEngine_SetState() {
	eng, err := cadence.New("")
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	err = eng.RegisterTrigger(ctx, dsl.Trigger("openClose",
		dsl.State("open", dsl.Style(map[string]any{"height": "200px"}), nil),
		dsl.State("closed", dsl.Style(map[string]any{"height": "100px"}), nil),
		dsl.Transition("open => closed", dsl.Animate("1s", dsl.Style(map[string]any{"height": "100px"}))),
		dsl.Transition("closed => open", dsl.Animate("0.5s", dsl.Style(map[string]any{"height": "200px"}))),
	))
	if err != nil {
		log.Fatal(err)
	}

	el := mock.NewElement("div")
	eng.ListenTrigger(el, "openClose", domain.PhaseDone, func(ev domain.AnimationEvent) {
		fmt.Printf("%s => %s took %vms\n", ev.FromState, ev.ToState, ev.TotalTime)
	})

	for _, state := range []string{"open", "closed", "open"} {
		if _, err := eng.SetState(ctx, el, "openClose", state, nil); err != nil {
			log.Fatal(err)
		}
		eng.Flush()
	}

	// Output:
	// open => closed took 1000ms
	// closed => open took 500ms
}
