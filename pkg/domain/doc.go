/*
Package domain contains the core data model of the Cadence animation engine.

It defines the authoring metadata (triggers, states, transitions and animation steps),
the serializable definition documents, the compiled timeline instructions and the
events emitted by players. The package is kept free of I/O and backend concerns so
that compilers, drivers and adapters can share it without import cycles.

# Key Entities

  - Metadata: the authoring tree produced by the dsl package or decoded from a Definition.
  - StyleMap and Keyframe: resolved style values, keyed by property name.
  - TimelineInstruction: a per-element, timed keyframe list ready for a driver.
  - AnimationEvent: the payload delivered to start, done and destroy listeners.
*/
package domain
