// ABOUTME: WAV audio encoder
// ABOUTME: Writes int32 samples as 8/16/24/32-bit PCM WAV via go-audio/wav
package encode

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

const wavFormatPCM = 1

// WAVEncoder encodes WAV files
type WAVEncoder struct{}

// NewWAV creates a new WAV encoder
func NewWAV() Encoder {
	return &WAVEncoder{}
}

// Encode writes buf as PCM WAV at the buffer's bit depth (16-bit if unset)
func (e *WAVEncoder) Encode(w io.WriteSeeker, buf *audio.Buffer) error {
	bitDepth := buf.Format.BitDepth
	switch bitDepth {
	case 8, 16, 24, 32:
	case 0:
		bitDepth = 16
	default:
		return fmt.Errorf("unsupported bit depth: %d (supported: 8, 16, 24, 32)", bitDepth)
	}

	data := make([]int, len(buf.Samples))
	for i, s := range buf.Samples {
		data[i] = audio.SampleToDepth(s, bitDepth)
	}

	enc := wav.NewEncoder(w, buf.Format.SampleRate, bitDepth, buf.Format.Channels, wavFormatPCM)
	pcm := &goaudio.IntBuffer{
		Format: &goaudio.Format{
			NumChannels: buf.Format.Channels,
			SampleRate:  buf.Format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(pcm); err != nil {
		return fmt.Errorf("wav write error: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("wav finalize error: %w", err)
	}
	return nil
}
