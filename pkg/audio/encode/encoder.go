// ABOUTME: Encoder interface definition
// ABOUTME: Common interface for all audio file encoders plus atomic file export
package encode

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// outputMode replaces the 0600 mode CreateTemp gives the temporary file
const outputMode = 0o644

// Encoder encodes PCM int32 samples to a complete audio file
type Encoder interface {
	// Encode writes the whole buffer to w
	Encode(w io.WriteSeeker, buf *audio.Buffer) error
}

// New returns the encoder for a container
func New(container audio.Container) (Encoder, error) {
	switch container {
	case audio.ContainerWAV:
		return NewWAV(), nil
	case audio.ContainerFLAC:
		return NewFLAC(), nil
	case audio.ContainerOpus:
		return NewOpus(), nil
	case audio.ContainerVorbis:
		// No Vorbis encoder exists, the Ogg container is kept with Opus inside
		return NewOpus(), nil
	case audio.ContainerMP3:
		return NewMP3(), nil
	}
	return nil, fmt.Errorf("%w: %q", audio.ErrUnknownContainer, container)
}

// File encodes buf into path using the buffer's container.
// The data is written to a temporary sibling and renamed into place, so
// path is either fully written or left untouched.
func File(path string, buf *audio.Buffer) error {
	if err := validate(buf); err != nil {
		return err
	}

	enc, err := New(buf.Format.Container())
	if err != nil {
		return err
	}

	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := enc.Encode(tmp, buf); err != nil {
		return fail(fmt.Errorf("failed to encode %s: %w", path, err))
	}
	// Some writers close the file themselves
	if err := tmp.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return fail(fmt.Errorf("failed to close output file: %w", err))
	}
	if err := os.Chmod(tmpPath, outputMode); err != nil {
		return fail(fmt.Errorf("failed to set output permissions: %w", err))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fail(fmt.Errorf("failed to move output into place: %w", err))
	}
	return nil
}

func validate(buf *audio.Buffer) error {
	if buf == nil {
		return errors.New("nil buffer")
	}
	if buf.Format.Channels < 1 {
		return fmt.Errorf("invalid channel count: %d", buf.Format.Channels)
	}
	if buf.Format.SampleRate < 1 {
		return fmt.Errorf("invalid sample rate: %d", buf.Format.SampleRate)
	}
	if len(buf.Samples)%buf.Format.Channels != 0 {
		return fmt.Errorf("sample count %d is not a multiple of %d channels", len(buf.Samples), buf.Format.Channels)
	}
	return nil
}
