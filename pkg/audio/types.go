// ABOUTME: Audio type definitions
// ABOUTME: Defines audio formats, decoded buffers and sample conversions
package audio

import (
	"math"
	"time"
)

const (
	// 24-bit audio range constants
	Max24Bit = 8388607  // 2^23 - 1
	Min24Bit = -8388608 // -2^23

	fullScale24 = 8388608.0
)

// Format describes audio stream format
type Format struct {
	Codec      string // container name, see Container
	SampleRate int
	Channels   int
	BitDepth   int // source sample depth, reused on export
}

// Container returns the container the buffer was decoded from
func (f Format) Container() Container {
	return Container(f.Codec)
}

// Buffer represents decoded PCM audio
type Buffer struct {
	Samples []int32 // interleaved PCM in 24-bit range
	Format  Format
	Source  string // path the buffer was decoded from
}

// Frames returns the number of sample frames (samples per channel)
func (b *Buffer) Frames() int {
	if b == nil || b.Format.Channels <= 0 {
		return 0
	}
	return len(b.Samples) / b.Format.Channels
}

// Duration returns the playback length of the buffer
func (b *Buffer) Duration() time.Duration {
	if b == nil || b.Format.SampleRate <= 0 {
		return 0
	}
	return time.Duration(b.Frames()) * time.Second / time.Duration(b.Format.SampleRate)
}

// Clone returns a deep copy of the buffer
func (b *Buffer) Clone() *Buffer {
	samples := make([]int32, len(b.Samples))
	copy(samples, b.Samples)
	return &Buffer{
		Samples: samples,
		Format:  b.Format,
		Source:  b.Source,
	}
}

// Planes deinterleaves the buffer into one float64 slice per channel,
// normalized to [-1, 1).
func (b *Buffer) Planes() [][]float64 {
	channels := b.Format.Channels
	frames := b.Frames()

	planes := make([][]float64, channels)
	for ch := range planes {
		planes[ch] = make([]float64, frames)
	}
	for i := 0; i < frames; i++ {
		for ch := 0; ch < channels; ch++ {
			planes[ch][i] = SampleToFloat(b.Samples[i*channels+ch])
		}
	}
	return planes
}

// Remix returns a copy of the buffer with the given channel count.
// Mono is duplicated to every output channel; anything else is averaged
// to mono first when downmixing, or has its extra channels dropped.
func (b *Buffer) Remix(channels int) *Buffer {
	src := b.Format.Channels
	if channels <= 0 || src <= 0 || src == channels {
		return b
	}

	frames := b.Frames()
	out := make([]int32, frames*channels)
	for i := 0; i < frames; i++ {
		frame := b.Samples[i*src : (i+1)*src]
		for ch := 0; ch < channels; ch++ {
			switch {
			case src == 1:
				out[i*channels+ch] = frame[0]
			case channels == 1:
				var sum int64
				for _, v := range frame {
					sum += int64(v)
				}
				out[i*channels] = int32(sum / int64(src))
			case ch < src:
				out[i*channels+ch] = frame[ch]
			}
		}
	}

	format := b.Format
	format.Channels = channels
	return &Buffer{Samples: out, Format: format, Source: b.Source}
}

// FromPlanes interleaves per-channel float64 data into a new buffer.
// Values outside [-1, 1) are clipped to the 24-bit range.
func FromPlanes(planes [][]float64, format Format, source string) *Buffer {
	format.Channels = len(planes)
	frames := 0
	if len(planes) > 0 {
		frames = len(planes[0])
	}

	samples := make([]int32, frames*len(planes))
	for i := 0; i < frames; i++ {
		for ch, plane := range planes {
			samples[i*len(planes)+ch] = SampleFromFloat(plane[i])
		}
	}

	return &Buffer{
		Samples: samples,
		Format:  format,
		Source:  source,
	}
}

// SampleToFloat converts a 24-bit range sample to a float in [-1, 1)
func SampleToFloat(sample int32) float64 {
	return float64(sample) / fullScale24
}

// SampleFromFloat converts a float sample to 24-bit range with clipping
func SampleFromFloat(v float64) int32 {
	if math.IsNaN(v) {
		return 0
	}
	scaled := math.Round(v * fullScale24)
	if scaled > Max24Bit {
		return Max24Bit
	}
	if scaled < Min24Bit {
		return Min24Bit
	}
	return int32(scaled)
}

// SampleFromDepth converts a signed sample of the given bit depth to 24-bit range.
// 8-bit samples are expected unsigned, as stored in WAV.
func SampleFromDepth(v int, bitDepth int) int32 {
	switch bitDepth {
	case 8:
		return int32(v-128) << 16
	case 16:
		return int32(v) << 8
	case 24:
		return int32(v)
	case 32:
		return int32(v >> 8)
	default:
		return int32(v)
	}
}

// SampleToDepth converts a 24-bit range sample to the given bit depth.
// It is the inverse of SampleFromDepth.
func SampleToDepth(sample int32, bitDepth int) int {
	switch bitDepth {
	case 8:
		return int(sample>>16) + 128
	case 16:
		return int(sample >> 8)
	case 24:
		return int(sample)
	case 32:
		return int(sample) << 8
	default:
		return int(sample)
	}
}

// SampleToInt16 converts int32 sample to int16 (for 16-bit playback)
func SampleToInt16(sample int32) int16 {
	// Right-shift to convert 24-bit (or 16-bit) to 16-bit range
	return int16(sample >> 8)
}

// SampleFromInt16 converts int16 sample to int32 (left-justified in 24-bit)
func SampleFromInt16(sample int16) int32 {
	// Left-shift to position 16-bit value in upper bits
	return int32(sample) << 8
}
