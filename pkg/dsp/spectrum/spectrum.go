// ABOUTME: Spectral band energy analysis for decoded audio buffers
// ABOUTME: Uses gonum's real FFT and algo-vecmath power kernels
package spectrum

import (
	"sort"

	vecmath "github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// Balance is the share of spectral power below and above a split frequency
type Balance struct {
	Low  float64
	High float64
}

// Mono averages the channels of buf into one float64 plane
func Mono(buf *audio.Buffer) []float64 {
	planes := buf.Planes()
	if len(planes) == 0 {
		return nil
	}

	mono := make([]float64, len(planes[0]))
	for _, plane := range planes {
		vecmath.AddBlockInPlace(mono, plane)
	}
	vecmath.ScaleBlockInPlace(mono, 1/float64(len(planes)))
	return mono
}

// PowerSpectrum returns per-bin power of x and the bin centre frequencies in Hz
func PowerSpectrum(x []float64, sampleRate float64) (power, freqs []float64) {
	if len(x) == 0 {
		return nil, nil
	}

	fft := fourier.NewFFT(len(x))
	coeffs := fft.Coefficients(nil, x)

	re := make([]float64, len(coeffs))
	im := make([]float64, len(coeffs))
	freqs = make([]float64, len(coeffs))
	for i, c := range coeffs {
		re[i] = real(c)
		im[i] = imag(c)
		freqs[i] = fft.Freq(i) * sampleRate
	}

	power = make([]float64, len(coeffs))
	vecmath.Power(power, re, im)
	return power, freqs
}

// BandEnergy returns the fraction of spectral power in each band delimited by
// cutoffs (Hz). The result has len(cutoffs)+1 entries summing to 1, or all
// zeros for silent input.
func BandEnergy(buf *audio.Buffer, cutoffs ...float64) []float64 {
	edges := append([]float64(nil), cutoffs...)
	sort.Float64s(edges)

	bands := make([]float64, len(edges)+1)
	if buf == nil || buf.Frames() == 0 {
		return bands
	}

	power, freqs := PowerSpectrum(Mono(buf), float64(buf.Format.SampleRate))
	for i, p := range power {
		band := sort.SearchFloat64s(edges, freqs[i])
		// A bin exactly on an edge belongs to the upper band
		if band < len(edges) && freqs[i] == edges[band] {
			band++
		}
		bands[band] += p
	}

	total := vecmath.Sum(bands)
	if total == 0 {
		return bands
	}
	vecmath.ScaleBlockInPlace(bands, 1/total)
	return bands
}

// SplitBalance returns the low/high power shares around split Hz
func SplitBalance(buf *audio.Buffer, split float64) Balance {
	bands := BandEnergy(buf, split)
	return Balance{Low: bands[0], High: bands[1]}
}
