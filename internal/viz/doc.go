// Package viz renders the arena in the terminal with Bubble Tea.
//
//   - [Model]: live view driving a [sim.Controller] one tick per frame
//   - [Canvas]: braille dot canvas for the boundary, bodies and trails
//   - [Picker]: preset menu shown before the live view
//
// Boundary impacts flash the arena with a spring-damped level from
// harmonica; events are forwarded to an optional [EventPlayer].
//
// # Key Bindings
//
//	Space - Pause/Resume
//	R     - Reset to the canonical layout
//	N     - Randomize bodies
//	Tab   - Cycle G / dt / radius
//	Up/Dn - Tune the selected parameter by 5%
//	M     - Mute audio
//	T     - Cycle themes
package viz
