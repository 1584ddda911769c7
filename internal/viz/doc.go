// Package viz renders sweeps in the terminal.
//
//   - [PlotSweep]: asciigraph chart of adjusted, unadjusted and reference
//     probabilities against the sweep index
//   - [SummaryTable]: styled table of rows
//   - [LiveModel]: Bubble Tea program that runs a sweep one angle per
//     update and draws the current acceptance ellipse on a Braille [Canvas]
//
// # Key Bindings
//
//	q, ctrl+c - quit (the sweep is cancelled if still running)
package viz
