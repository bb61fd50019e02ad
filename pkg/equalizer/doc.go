// ABOUTME: Equalizer package producing bass, treble and unfiltered copies of tracks
// ABOUTME: Documents presets, generated paths and the no-result convention
// Package equalizer renders fixed filter presets onto audio files.
//
// Three presets exist: Normal (unfiltered copy), BassBoost (100 Hz split,
// low branch boosted) and TrebleBoost (2000 Hz split, high branch boosted).
// Output is written in the input's container.
//
// When no output path is given the engine writes
// <scratch>/<name>_<suffix><ext> and remembers it until CleanTempFiles or
// Close. Failed operations return "" together with a *DecodeError or
// *ExportError and never touch the input file.
//
// Example:
//
//	eng, err := equalizer.New(equalizer.Config{})
//	defer eng.Close()
//	out, err := eng.ApplyBassBoost("song.wav", "", 6)
//	if out == "" {
//		// no result, err says why
//	}
package equalizer
