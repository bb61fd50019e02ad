// ABOUTME: Fixed filter presets offered by the equalizer
// ABOUTME: Maps each preset to its cutoff, boosted band and output file suffix
package equalizer

import (
	"fmt"
	"strings"
)

// Preset names one of the fixed filter settings
type Preset int

const (
	Normal Preset = iota
	BassBoost
	TrebleBoost
)

// Presets lists every preset in display order
var Presets = []Preset{Normal, BassBoost, TrebleBoost}

// Band identifies which branch of the split a preset amplifies
type Band int

const (
	BandNone Band = iota
	BandLow
	BandHigh
)

const (
	// DefaultGainDB is the boost applied to the emphasized band
	DefaultGainDB = 6.0

	BassCutoffHz   = 100.0
	TrebleCutoffHz = 2000.0
)

// String returns the display name of the preset
func (p Preset) String() string {
	switch p {
	case Normal:
		return "Normal"
	case BassBoost:
		return "Bass Boost"
	case TrebleBoost:
		return "Treble Boost"
	}
	return fmt.Sprintf("Preset(%d)", int(p))
}

// Suffix is the tag appended to generated file names
func (p Preset) Suffix() string {
	switch p {
	case BassBoost:
		return "bass_boosted"
	case TrebleBoost:
		return "treble_boosted"
	}
	return "original"
}

// Cutoff returns the split frequency in Hz, zero for Normal
func (p Preset) Cutoff() float64 {
	switch p {
	case BassBoost:
		return BassCutoffHz
	case TrebleBoost:
		return TrebleCutoffHz
	}
	return 0
}

// Boosts returns the band the preset amplifies
func (p Preset) Boosts() Band {
	switch p {
	case BassBoost:
		return BandLow
	case TrebleBoost:
		return BandHigh
	}
	return BandNone
}

// Valid reports whether p is a known preset
func (p Preset) Valid() bool {
	return p >= Normal && p <= TrebleBoost
}

// ParsePreset accepts preset names case-insensitively, ignoring spaces,
// dashes and underscores ("bass", "Bass Boost", "treble_boost", ...)
func ParsePreset(s string) (Preset, error) {
	key := strings.NewReplacer(" ", "", "-", "", "_", "").Replace(strings.ToLower(strings.TrimSpace(s)))
	switch key {
	case "normal", "original", "reset", "flat":
		return Normal, nil
	case "bass", "bassboost":
		return BassBoost, nil
	case "treble", "trebleboost":
		return TrebleBoost, nil
	}
	return Normal, fmt.Errorf("unknown preset: %q", s)
}
