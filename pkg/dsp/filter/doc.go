// ABOUTME: Filter package for the two-band split used by the equalizer
// ABOUTME: Documents the one-pole RC design and the gain/mix helpers
// Package filter implements first-order RC filters.
//
// LowPass and HighPass are the classic one-pole sections with
// RC = 1/(2*pi*cutoff) and dt = 1/sampleRate. Both seed the output with the
// first input sample. Gain and Mix use algo-vecmath block kernels.
//
// Every function returns a new slice.
//
// Example:
//
//	low, err := filter.LowPass(plane, 100, 44100)
//	high, err := filter.HighPass(plane, 100, 44100)
//	out, err := filter.Mix(filter.Gain(low, 6), high)
package filter
