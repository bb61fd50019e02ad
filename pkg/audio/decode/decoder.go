// ABOUTME: Decoder interface definition
// ABOUTME: Common interface for all audio file decoders plus container dispatch
package decode

import (
	"fmt"
	"io"
	"os"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// Decoder decodes a complete audio file to PCM int32 samples
type Decoder interface {
	// Decode reads the whole stream and returns its PCM buffer
	Decode(r io.ReadSeeker) (*audio.Buffer, error)
}

// New returns the decoder for a container
func New(container audio.Container) (Decoder, error) {
	switch container {
	case audio.ContainerWAV:
		return NewWAV(), nil
	case audio.ContainerFLAC:
		return NewFLAC(), nil
	case audio.ContainerMP3:
		return NewMP3(), nil
	case audio.ContainerOpus:
		return NewOpus(), nil
	case audio.ContainerVorbis:
		return NewVorbis(), nil
	}
	return nil, fmt.Errorf("%w: %q", audio.ErrUnknownContainer, container)
}

// File detects the container of path and decodes it
func File(path string) (*audio.Buffer, error) {
	container, err := audio.DetectContainer(path)
	if err != nil {
		return nil, err
	}

	dec, err := New(container)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	buf, err := dec.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	buf.Source = path
	return buf, nil
}
