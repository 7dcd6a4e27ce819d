// Package styles holds the style helpers shared by the compiler, the drivers
// and the players: property case conversion, the snapshot merge window,
// previous-style balancing and the special-cased (non-animatable) styles.
package styles
