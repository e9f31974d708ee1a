// Package viz provides the terminal live view of a page simulation.
//
// The view is a Bubble Tea program:
//
//   - [Model]: steps a [sim.Session] in real time and draws it
//   - [Canvas]: Braille-based pixel canvas with per-cell colour layers
//   - Theme selection with 4 built-in colour schemes
//
// # Key Bindings
//
//	Mouse - Move the pointer ball
//	Space - Pause/Resume simulation
//	R     - Reset the page
//	T     - Cycle colour themes
//	S     - Save a WebP snapshot
//	?     - Show help overlay
package viz
