/*
Package dsl provides a Go DSL for building animation and trigger metadata.

The functions mirror the authoring vocabulary of the engine (style, animate,
sequence, group, query, stagger ...) and return the domain metadata nodes the
compiler consumes. TriggerBuilder offers a fluent alternative for triggers and
FromDefinition turns serialized definitions (YAML/JSON files, stores) into the
same metadata.

Example usage:

	package main

	import (
		"github.com/aretw0/cadence/pkg/dsl"
	)

	func main() {
		openClose := dsl.NewTrigger("openClose").
			State("open", dsl.Style(dsl.Props{"height": "200px", "opacity": 1})).
			State("closed", dsl.Style(dsl.Props{"height": "100px", "opacity": 0.8})).
			Transition("open <=> closed", dsl.Animate("0.5s ease-in")).
			Build()

		// ... pass openClose to engine.RegisterTrigger(ctx, openClose)
	}
*/
package dsl
