// ABOUTME: Linear interpolation resampler for converting audio sample rates
// ABOUTME: Converts decoded buffers to the playback device and Opus codec rates
package resample

import (
	"math"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// Resampler performs linear interpolation to convert between sample rates.
// It keeps the fractional read position between chunks.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// New creates a new resampler
func New(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts interleaved input at inputRate into output at outputRate.
// It returns the number of output samples written.
func (r *Resampler) Resample(input []int32, output []int32) int {
	if len(input) == 0 || r.channels <= 0 {
		return 0
	}

	inputFrames := len(input) / r.channels
	outputFrames := len(output) / r.channels

	written := 0
	for written < outputFrames {
		idx := int(r.position)
		if idx >= inputFrames {
			break
		}
		frac := r.position - float64(idx)

		// The last input frame is held rather than interpolated past the end
		next := idx + 1
		if next >= inputFrames {
			next = idx
		}

		for ch := 0; ch < r.channels; ch++ {
			a := float64(input[idx*r.channels+ch])
			b := float64(input[next*r.channels+ch])
			output[written*r.channels+ch] = int32(math.Round(a + (b-a)*frac))
		}

		written++
		r.position += r.ratio
	}

	r.position -= float64(inputFrames)
	if r.position < 0 {
		r.position = 0
	}

	return written * r.channels
}

// Reset resets the resampler state
func (r *Resampler) Reset() {
	r.position = 0
}

// OutputSamplesNeeded calculates how many output samples will be produced from input samples
func (r *Resampler) OutputSamplesNeeded(inputSamples int) int {
	inputFrames := inputSamples / r.channels
	outputFrames := (inputFrames*r.outputRate + r.inputRate - 1) / r.inputRate
	return outputFrames * r.channels
}

// Buffer returns a copy of buf converted to the given sample rate.
// The buffer is returned unchanged when the rates already match.
func Buffer(buf *audio.Buffer, rate int) *audio.Buffer {
	if buf == nil || rate <= 0 || buf.Format.SampleRate == rate || buf.Format.SampleRate <= 0 {
		return buf
	}

	r := New(buf.Format.SampleRate, rate, buf.Format.Channels)
	out := make([]int32, r.OutputSamplesNeeded(len(buf.Samples)))
	n := r.Resample(buf.Samples, out)

	format := buf.Format
	format.SampleRate = rate
	return &audio.Buffer{
		Samples: out[:n],
		Format:  format,
		Source:  buf.Source,
	}
}
