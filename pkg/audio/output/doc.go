// ABOUTME: Audio output package for playing audio
// ABOUTME: Provides Output interface and oto implementation
// Package output provides audio playback interfaces.
//
// The oto backend streams 16-bit PCM through a persistent player and
// applies software volume before conversion.
//
// Example:
//
//	out := output.NewOto(logger)
//	err := out.Open(48000, 2, 16)
//	err = out.Write(samples)
package output
