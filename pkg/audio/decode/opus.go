// ABOUTME: Ogg Opus audio decoder
// ABOUTME: Reads the OpusHead with pion's oggreader and decodes each packet with libopus
package decode

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/pion/webrtc/v4/pkg/media/oggreader"
	"gopkg.in/hraban/opus.v2"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/resample"
)

const (
	// OpusSampleRate is the rate libopus decodes at
	OpusSampleRate = 48000

	// 120ms at 48kHz, the largest Opus frame
	maxOpusFrame = 5760
)

var opusTagsMagic = []byte("OpusTags")

// OpusDecoder decodes Ogg Opus files
type OpusDecoder struct{}

// NewOpus creates a new Opus decoder
func NewOpus() Decoder {
	return &OpusDecoder{}
}

// Decode converts an Ogg Opus stream to int32 samples
func (d *OpusDecoder) Decode(r io.ReadSeeker) (*audio.Buffer, error) {
	// oggreader consumes exactly the OpusHead page, the rest is split
	// into packets here since its pages merge packet boundaries
	_, header, err := oggreader.NewWith(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read ogg header: %w", err)
	}

	channels := int(header.Channels)
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("unsupported opus channel count: %d", channels)
	}

	dec, err := opus.NewDecoder(OpusSampleRate, channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	packets := newOggPackets(r)
	pcm := make([]int16, maxOpusFrame*channels)
	var samples []int32
	for {
		packet, err := packets.Next()
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read ogg packet: %w", err)
		}
		if len(packet) == 0 || bytes.HasPrefix(packet, opusTagsMagic) {
			continue
		}

		n, err := dec.Decode(packet, pcm)
		if err != nil {
			return nil, fmt.Errorf("opus decode failed: %w", err)
		}
		samples = append(samples, int16ToSamples(pcm[:n*channels])...)
	}

	// Drop the encoder delay declared in the header
	skip := int(header.PreSkip) * channels
	if skip > len(samples) {
		skip = len(samples)
	}
	samples = samples[skip:]

	buf := &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(audio.ContainerOpus),
			SampleRate: OpusSampleRate,
			Channels:   channels,
			BitDepth:   16,
		},
	}

	// Restore the original input rate recorded in the OpusHead
	if rate := int(header.SampleRate); rate > 0 && rate != OpusSampleRate {
		buf = resample.Buffer(buf, rate)
	}
	return buf, nil
}
