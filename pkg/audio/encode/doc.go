// ABOUTME: Audio encoder package for writing PCM to audio files
// ABOUTME: Provides Encoder interface and implementations for WAV, FLAC, Ogg Opus and MP3
// Package encode provides whole-file audio encoders.
//
// Supports: WAV, FLAC (verbatim subframes), Ogg Opus and MP3. Ogg Vorbis
// input is written back as Ogg Opus in the same .ogg container.
//
// All encoders accept int32 samples in 24-bit range and write them at the
// buffer's Format.BitDepth where the container allows it.
//
// Example:
//
//	err := encode.File("out.wav", buf)
package encode
