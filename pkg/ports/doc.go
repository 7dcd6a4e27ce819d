/*
Package ports defines the driven ports (interfaces) of the Cadence engine.

These interfaces decouple the compiler and the engine façade from rendering backends
and persistence, so the same timelines can be played through a Web Animations style
backend, synthesized CSS keyframes or a test double.

# Key Interfaces

  - Driver: validates properties, queries elements, computes styles and builds players.
  - Player: the controllable handle returned by a driver.
  - StyleNormalizer: turns authored property names and values into backend values.
  - DefinitionStore / DefinitionLoader: persist and load serialized definitions.
*/
package ports
