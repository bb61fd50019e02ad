// ABOUTME: MP3 audio decoder
// ABOUTME: Decodes MP3 files to int32 samples via go-mp3
package decode

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// go-mp3 always produces 16-bit little-endian stereo
const (
	mp3Channels = 2
	mp3BitDepth = 16
)

// MP3Decoder decodes MP3 files
type MP3Decoder struct{}

// NewMP3 creates a new MP3 decoder
func NewMP3() Decoder {
	return &MP3Decoder{}
}

// Decode converts an MP3 stream to int32 samples
func (d *MP3Decoder) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create mp3 decoder: %w", err)
	}

	data, err := io.ReadAll(dec)
	if err != nil {
		return nil, fmt.Errorf("mp3 decode error: %w", err)
	}

	return &audio.Buffer{
		Samples: pcm16ToSamples(data),
		Format: audio.Format{
			Codec:      string(audio.ContainerMP3),
			SampleRate: dec.SampleRate(),
			Channels:   mp3Channels,
			BitDepth:   mp3BitDepth,
		},
	}, nil
}
