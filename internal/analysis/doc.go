// Package analysis derives orbit diagnostics from recorded snapshots.
//
//   - [RadialSeries]: a body's distance from the arena center over time
//   - [Spectrum]: magnitude spectrum of a series via go-dsp
//   - [DominantPeriod]: period of the strongest non-DC frequency bin
//   - [Portrait]: radial phase portrait (r, dr/dt) of one body
//
// A bound orbit shows up as a sharp spectral peak:
//
//	series, _ := analysis.RadialSeries(snaps, 1)
//	period, ok := analysis.DominantPeriod(series, sampleDt)
package analysis
