// ABOUTME: Audio container detection
// ABOUTME: Identifies WAV, FLAC, Ogg Opus, Ogg Vorbis and MP3 files by magic bytes or extension
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Container names an audio file format
type Container string

const (
	ContainerWAV  Container = "wav"
	ContainerFLAC Container = "flac"
	ContainerMP3  Container = "mp3"
	ContainerOpus Container = "opus"

	// ContainerVorbis is an Ogg stream carrying Vorbis rather than Opus
	ContainerVorbis Container = "vorbis"
)

// sniffLen covers the first Ogg page header and the start of its packet
const sniffLen = 64

var vorbisMagic = []byte("\x01vorbis")

// ErrUnknownContainer is returned when a file matches no supported container
var ErrUnknownContainer = errors.New("unknown audio container")

// IsAudioFile reports whether the path has a supported audio extension
func IsAudioFile(path string) bool {
	_, err := ContainerFromExt(path)
	return err == nil
}

// ContainerFromExt maps a file extension to a container
func ContainerFromExt(path string) (Container, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav", ".wave":
		return ContainerWAV, nil
	case ".flac":
		return ContainerFLAC, nil
	case ".mp3":
		return ContainerMP3, nil
	case ".opus", ".ogg", ".oga":
		return ContainerOpus, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownContainer, filepath.Ext(path))
}

// Sniff identifies a container from the first bytes of a stream
func Sniff(header []byte) (Container, bool) {
	switch {
	case len(header) >= 12 && bytes.Equal(header[0:4], []byte("RIFF")) && bytes.Equal(header[8:12], []byte("WAVE")):
		return ContainerWAV, true
	case bytes.HasPrefix(header, []byte("fLaC")):
		return ContainerFLAC, true
	case bytes.HasPrefix(header, []byte("OggS")):
		if bytes.Contains(header, vorbisMagic) {
			return ContainerVorbis, true
		}
		return ContainerOpus, true
	case bytes.HasPrefix(header, []byte("ID3")):
		return ContainerMP3, true
	case len(header) >= 2 && header[0] == 0xFF && header[1]&0xE0 == 0xE0:
		// MPEG audio frame sync
		return ContainerMP3, true
	}
	return "", false
}

// DetectContainer identifies the container of a file, preferring magic
// bytes and falling back to the extension
func DetectContainer(path string) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer func() { _ = f.Close() }()

	header := make([]byte, sniffLen)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read header: %w", err)
	}

	if c, ok := Sniff(header[:n]); ok {
		return c, nil
	}
	return ContainerFromExt(path)
}
