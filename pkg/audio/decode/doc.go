// ABOUTME: Audio decoder package for multiple container support
// ABOUTME: Provides Decoder interface and implementations for WAV, FLAC, MP3, Ogg Opus and Ogg Vorbis
// Package decode provides whole-file audio decoders.
//
// Supports: WAV (8/16/24/32-bit PCM), FLAC, MP3, Ogg Opus and Ogg Vorbis.
// Ogg packets are reassembled from each page's lacing table.
//
// All decoders implement the Decoder interface and output int32 samples
// in 24-bit range. The source bit depth is kept in Format.BitDepth so the
// encoder can write the same depth back.
//
// Example:
//
//	buf, err := decode.File("song.flac")
//	dec, err := decode.New(audio.ContainerWAV)
//	buf, err = dec.Decode(f)
package decode
