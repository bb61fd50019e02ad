// ABOUTME: Two-band split-and-recombine rendering of a preset
// ABOUTME: Boosts one branch of an RC split and sums it with the other branch
package equalizer

import (
	"fmt"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/dsp/filter"
)

// Render returns a new buffer with the preset applied. Each channel is split
// at the preset cutoff, the boosted branch is scaled by gainDB and the two
// branches are summed sample by sample. Normal returns an unfiltered copy.
func Render(buf *audio.Buffer, p Preset, gainDB float64) (*audio.Buffer, error) {
	if !p.Valid() {
		return nil, fmt.Errorf("unknown preset: %d", int(p))
	}
	if p == Normal {
		return buf.Clone(), nil
	}

	rate := float64(buf.Format.SampleRate)
	planes := buf.Planes()
	out := make([][]float64, len(planes))

	for ch, x := range planes {
		low, err := filter.LowPass(x, p.Cutoff(), rate)
		if err != nil {
			return nil, err
		}
		high, err := filter.HighPass(x, p.Cutoff(), rate)
		if err != nil {
			return nil, err
		}

		boosted, rest := low, high
		if p.Boosts() == BandHigh {
			boosted, rest = high, low
		}

		mixed, err := filter.Mix(filter.Gain(boosted, gainDB), rest)
		if err != nil {
			return nil, err
		}
		out[ch] = mixed
	}

	return audio.FromPlanes(out, buf.Format, buf.Source), nil
}
