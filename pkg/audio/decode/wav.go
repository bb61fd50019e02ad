// ABOUTME: WAV audio decoder
// ABOUTME: Decodes 8/16/24/32-bit PCM WAV files to int32 samples
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/wav"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

const (
	wavFormatPCM        = 1
	wavFormatExtensible = 0xFFFE
)

// ErrInvalidWAV is returned for files that are not readable PCM WAV
var ErrInvalidWAV = errors.New("invalid wav file")

// WAVDecoder decodes WAV files
type WAVDecoder struct{}

// NewWAV creates a new WAV decoder
func NewWAV() Decoder {
	return &WAVDecoder{}
}

// Decode converts a WAV stream to int32 samples
func (d *WAVDecoder) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		if err := dec.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidWAV, err)
		}
		return nil, ErrInvalidWAV
	}

	if dec.WavAudioFormat != wavFormatPCM && dec.WavAudioFormat != wavFormatExtensible {
		return nil, fmt.Errorf("unsupported wav format: %d", dec.WavAudioFormat)
	}

	bitDepth := int(dec.BitDepth)
	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", bitDepth)
	}

	pcm, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to read pcm data: %w", err)
	}

	channels := int(dec.NumChans)
	frames := len(pcm.Data) / channels

	samples := make([]int32, frames*channels)
	for i := range samples {
		samples[i] = audio.SampleFromDepth(pcm.Data[i], bitDepth)
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(audio.ContainerWAV),
			SampleRate: int(dec.SampleRate),
			Channels:   channels,
			BitDepth:   bitDepth,
		},
	}, nil
}
