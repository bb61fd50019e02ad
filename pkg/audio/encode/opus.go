// ABOUTME: Ogg Opus audio encoder
// ABOUTME: Encodes int32 samples with libopus and writes Ogg pages with pion's oggwriter
package encode

import (
	"fmt"
	"io"

	"github.com/pion/rtp"
	"github.com/pion/webrtc/v4/pkg/media/oggwriter"
	"gopkg.in/hraban/opus.v2"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/resample"
)

const (
	opusSampleRate = 48000
	opusFrameSize  = opusSampleRate / 50 // 20ms frame
	maxOpusPacket  = 4000

	// oggwriter always declares this pre-skip in the OpusHead
	opusPreSkip = 3840
)

// OpusEncoder encodes Ogg Opus files
type OpusEncoder struct{}

// NewOpus creates a new Opus encoder
func NewOpus() Encoder {
	return &OpusEncoder{}
}

// Encode writes buf as Ogg Opus. Audio is resampled to 48kHz for the codec and
// the original rate is recorded in the OpusHead.
func (e *OpusEncoder) Encode(w io.WriteSeeker, buf *audio.Buffer) error {
	channels := buf.Format.Channels
	if channels != 1 && channels != 2 {
		return fmt.Errorf("unsupported opus channel count: %d", channels)
	}

	encoder, err := opus.NewEncoder(opusSampleRate, channels, opus.AppAudio)
	if err != nil {
		return fmt.Errorf("failed to create opus encoder: %w", err)
	}

	ogg, err := oggwriter.NewWith(w, uint32(buf.Format.SampleRate), uint16(channels))
	if err != nil {
		return fmt.Errorf("failed to create ogg writer: %w", err)
	}

	src := resample.Buffer(buf, opusSampleRate)

	// Leading silence covers the declared pre-skip, trailing silence fills the last frame
	frameLen := opusFrameSize * channels
	total := opusPreSkip*channels + len(src.Samples)
	if rem := total % frameLen; rem != 0 {
		total += frameLen - rem
	}
	pcm := make([]int16, total)
	for i, s := range src.Samples {
		pcm[opusPreSkip*channels+i] = audio.SampleToInt16(s)
	}

	data := make([]byte, maxOpusPacket)
	var timestamp uint32
	for seq, off := uint16(0), 0; off < len(pcm); seq, off = seq+1, off+frameLen {
		n, err := encoder.Encode(pcm[off:off+frameLen], data)
		if err != nil {
			return fmt.Errorf("opus encode error: %w", err)
		}

		packet := &rtp.Packet{
			Header: rtp.Header{
				SequenceNumber: seq,
				Timestamp:      timestamp,
			},
			Payload: data[:n],
		}
		if err := ogg.WriteRTP(packet); err != nil {
			return fmt.Errorf("ogg write error: %w", err)
		}
		timestamp += opusFrameSize
	}

	if err := ogg.Close(); err != nil {
		return fmt.Errorf("ogg finalize error: %w", err)
	}
	return nil
}
