// ABOUTME: Ogg Vorbis audio decoder
// ABOUTME: Decodes .ogg files carrying Vorbis to int32 samples via oggvorbis
package decode

import (
	"errors"
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// vorbisBlock is the number of float samples read per call
const vorbisBlock = 8192

// VorbisDecoder decodes Ogg Vorbis files
type VorbisDecoder struct{}

// NewVorbis creates a new Vorbis decoder
func NewVorbis() Decoder {
	return &VorbisDecoder{}
}

// Decode converts an Ogg Vorbis stream to int32 samples
func (d *VorbisDecoder) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create vorbis decoder: %w", err)
	}

	channels := dec.Channels()
	if channels < 1 {
		return nil, fmt.Errorf("unsupported vorbis channel count: %d", channels)
	}
	block := make([]float32, vorbisBlock-vorbisBlock%channels)
	var samples []int32
	for {
		n, err := dec.Read(block)
		for _, v := range block[:n] {
			samples = append(samples, audio.SampleFromFloat(float64(v)))
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("vorbis decode error: %w", err)
		}
	}

	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(audio.ContainerVorbis),
			SampleRate: dec.SampleRate(),
			Channels:   channels,
			BitDepth:   16,
		},
	}, nil
}
