// ABOUTME: FLAC audio encoder
// ABOUTME: Writes int32 samples as verbatim-subframe FLAC via mewkiz/flac
package encode

import (
	"fmt"
	"io"

	"github.com/mewkiz/flac"
	"github.com/mewkiz/flac/frame"
	"github.com/mewkiz/flac/meta"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

const flacBlockSize = 4096

// FLACEncoder encodes FLAC files
type FLACEncoder struct{}

// NewFLAC creates a new FLAC encoder
func NewFLAC() Encoder {
	return &FLACEncoder{}
}

// Encode writes buf as FLAC at the buffer's bit depth (16-bit if unset)
func (e *FLACEncoder) Encode(w io.WriteSeeker, buf *audio.Buffer) error {
	bitDepth := buf.Format.BitDepth
	switch {
	case bitDepth == 0:
		bitDepth = 16
	case bitDepth < 4 || bitDepth > 32:
		return fmt.Errorf("unsupported bit depth: %d", bitDepth)
	}

	channels := buf.Format.Channels
	if channels > 8 {
		return fmt.Errorf("unsupported channel count: %d (max 8)", channels)
	}
	frames := buf.Frames()

	info := &meta.StreamInfo{
		BlockSizeMin:  flacBlockSize,
		BlockSizeMax:  flacBlockSize,
		SampleRate:    uint32(buf.Format.SampleRate),
		NChannels:     uint8(channels),
		BitsPerSample: uint8(bitDepth),
		NSamples:      uint64(frames),
	}

	enc, err := flac.NewEncoder(w, info)
	if err != nil {
		return fmt.Errorf("failed to create flac encoder: %w", err)
	}

	for num, start := uint64(0), 0; start < frames; num, start = num+1, start+flacBlockSize {
		n := frames - start
		if n > flacBlockSize {
			n = flacBlockSize
		}

		subframes := make([]*frame.Subframe, channels)
		for ch := range subframes {
			samples := make([]int32, n)
			for i := range samples {
				samples[i] = scaleFrom24(buf.Samples[(start+i)*channels+ch], bitDepth)
			}
			subframes[ch] = &frame.Subframe{
				SubHeader: frame.SubHeader{Pred: frame.PredVerbatim},
				Samples:   samples,
				NSamples:  n,
			}
		}

		f := &frame.Frame{
			Header: frame.Header{
				HasFixedBlockSize: true,
				BlockSize:         uint16(n),
				SampleRate:        uint32(buf.Format.SampleRate),
				Channels:          frame.Channels(channels - 1),
				BitsPerSample:     uint8(bitDepth),
				Num:               num,
			},
			Subframes: subframes,
		}
		if err := enc.WriteFrame(f); err != nil {
			return fmt.Errorf("flac frame write error: %w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("flac finalize error: %w", err)
	}
	return nil
}

// scaleFrom24 narrows or widens a 24-bit range sample to the FLAC sample width
func scaleFrom24(v int32, bitDepth int) int32 {
	if bitDepth <= 24 {
		return v >> (24 - bitDepth)
	}
	return v << (bitDepth - 24)
}
