// ABOUTME: Audio fundamentals package providing core types and utilities
// ABOUTME: Defines Format, Buffer, Container types and sample conversion functions
// Package audio provides fundamental audio types and utilities.
//
// This package defines core types used throughout muzikcalar:
//   - Format: Describes a decoded file (container, sample rate, channels, bit depth)
//   - Buffer: Represents decoded PCM audio plus the path it came from
//   - Container: Identifies WAV, FLAC, MP3 and Ogg Opus files
//
// Samples are held as int32 in 24-bit range regardless of the source depth.
// Filters work on per-channel float64 planes obtained with Buffer.Planes and
// turned back into a new buffer with FromPlanes.
//
// Example:
//
//	c, err := audio.DetectContainer("song.flac")
//	planes := buf.Planes()
//	out := audio.FromPlanes(planes, buf.Format, buf.Source)
package audio
