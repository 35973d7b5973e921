// Package viz animates a wave run in the terminal using Bubble Tea.
//
// The displacement u(x) is redrawn every frame with asciigraph, together
// with a short history of the discrete energy.
//
// # Key Bindings
//
//	Space - Pause/Resume
//	N     - Single step while paused
//	R     - Reset to the initial profile
//	+/-   - Double/halve steps per frame
//	Q     - Quit
package viz
