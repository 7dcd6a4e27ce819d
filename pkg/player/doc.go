// Package player provides the backend independent players: the no-op player
// used when nothing needs animating and the group player that drives several
// players as one.
package player
