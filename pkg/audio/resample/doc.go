// ABOUTME: Audio resampling package using linear interpolation
// ABOUTME: Converts audio between different sample rates
// Package resample provides audio sample rate conversion.
//
// Playback opens a single output device rate for the whole session, and
// the Opus codec only runs at 48 kHz, so buffers are converted with Buffer
// before they reach either.
//
// Example:
//
//	out := resample.Buffer(buf, 48000)
package resample
