// ABOUTME: One-pole RC low-pass and high-pass filters plus gain and mix stages
// ABOUTME: Operates on per-channel float64 planes and never mutates its input
package filter

import (
	"errors"
	"fmt"
	"math"

	vecmath "github.com/cwbudde/algo-vecmath"
)

// ErrInvalidCutoff is returned for non-positive cutoff or sample rates
var ErrInvalidCutoff = errors.New("invalid filter parameters")

// Coefficients of a first-order RC section
type Coefficients struct {
	RC float64 // time constant, 1/(2*pi*cutoff)
	DT float64 // sample period, 1/sampleRate
}

// Design computes the RC section for a cutoff frequency in Hz
func Design(cutoff, sampleRate float64) (Coefficients, error) {
	if !(cutoff > 0) || !(sampleRate > 0) || math.IsInf(cutoff, 0) || math.IsInf(sampleRate, 0) {
		return Coefficients{}, fmt.Errorf("%w: cutoff=%v rate=%v", ErrInvalidCutoff, cutoff, sampleRate)
	}
	return Coefficients{
		RC: 1 / (2 * math.Pi * cutoff),
		DT: 1 / sampleRate,
	}, nil
}

// LowPassAlpha is the smoothing factor dt/(RC+dt)
func (c Coefficients) LowPassAlpha() float64 {
	return c.DT / (c.RC + c.DT)
}

// HighPassAlpha is the decay factor RC/(RC+dt)
func (c Coefficients) HighPassAlpha() float64 {
	return c.RC / (c.RC + c.DT)
}

// LowPass returns x filtered by y[i] = y[i-1] + a*(x[i]-y[i-1]), seeded with y[0] = x[0]
func LowPass(x []float64, cutoff, sampleRate float64) ([]float64, error) {
	c, err := Design(cutoff, sampleRate)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(x))
	if len(x) == 0 {
		return y, nil
	}

	alpha := c.LowPassAlpha()
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = y[i-1] + alpha*(x[i]-y[i-1])
	}
	return y, nil
}

// HighPass returns x filtered by y[i] = a*(y[i-1]+x[i]-x[i-1]), seeded with y[0] = x[0]
func HighPass(x []float64, cutoff, sampleRate float64) ([]float64, error) {
	c, err := Design(cutoff, sampleRate)
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(x))
	if len(x) == 0 {
		return y, nil
	}

	alpha := c.HighPassAlpha()
	y[0] = x[0]
	for i := 1; i < len(x); i++ {
		y[i] = alpha * (y[i-1] + x[i] - x[i-1])
	}
	return y, nil
}

// DBToLinear converts a decibel gain to an amplitude factor
func DBToLinear(db float64) float64 {
	return math.Pow(10, db/20)
}

// Gain returns a copy of x scaled by db decibels
func Gain(x []float64, db float64) []float64 {
	y := make([]float64, len(x))
	vecmath.ScaleBlock(y, x, DBToLinear(db))
	return y
}

// Mix returns the sample-wise sum of a and b
func Mix(a, b []float64) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("cannot mix planes of different length: %d and %d", len(a), len(b))
	}
	y := make([]float64, len(a))
	vecmath.AddBlock(y, a, b)
	return y, nil
}
