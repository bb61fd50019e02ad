// ABOUTME: FLAC audio decoder
// ABOUTME: Decodes FLAC files frame by frame to int32 samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/mewkiz/flac"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// FLACDecoder decodes FLAC files
type FLACDecoder struct{}

// NewFLAC creates a new FLAC decoder
func NewFLAC() Decoder {
	return &FLACDecoder{}
}

// Decode converts a FLAC stream to int32 samples
func (d *FLACDecoder) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse flac stream: %w", err)
	}

	info := stream.Info
	channels := int(info.NChannels)
	bitDepth := int(info.BitsPerSample)
	if channels < 1 {
		return nil, fmt.Errorf("invalid channel count: %d", channels)
	}

	samples := make([]int32, 0, int(info.NSamples)*channels)
	for {
		f, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to decode flac frame: %w", err)
		}

		if len(f.Subframes) != channels {
			return nil, fmt.Errorf("frame has %d channels, stream has %d", len(f.Subframes), channels)
		}

		// Interleave subframes
		n := f.Subframes[0].NSamples
		for i := 0; i < n; i++ {
			for _, sub := range f.Subframes {
				samples = append(samples, scaleTo24(sub.Samples[i], bitDepth))
			}
		}
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(audio.ContainerFLAC),
			SampleRate: int(info.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}

// scaleTo24 aligns a signed sample of any FLAC width (4-32 bits) to 24-bit range
func scaleTo24(v int32, bitDepth int) int32 {
	if bitDepth <= 24 {
		return v << (24 - bitDepth)
	}
	return v >> (bitDepth - 24)
}
