// ABOUTME: MP3 audio encoder
// ABOUTME: Encodes int32 samples to MPEG layer III with the pure Go shine encoder
package encode

import (
	"fmt"
	"io"

	"github.com/braheezy/shine-mp3/pkg/mp3"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/resample"
)

// mp3FallbackRate is used when the input rate has no MPEG equivalent
const mp3FallbackRate = 44100

// Rates shine can write across MPEG-1, MPEG-2 and MPEG-2.5
var mp3Rates = map[int]bool{
	8000: true, 11025: true, 12000: true,
	16000: true, 22050: true, 24000: true,
	32000: true, 44100: true, 48000: true,
}

// MP3Encoder encodes MP3 files
type MP3Encoder struct{}

// NewMP3 creates a new MP3 encoder
func NewMP3() Encoder {
	return &MP3Encoder{}
}

// Encode writes buf as MP3. More than two channels are folded to stereo
// and rates MPEG cannot carry are resampled to 44.1kHz.
func (e *MP3Encoder) Encode(w io.WriteSeeker, buf *audio.Buffer) error {
	src := buf
	if src.Format.Channels > 2 {
		src = src.Remix(2)
	}
	if !mp3Rates[src.Format.SampleRate] {
		src = resample.Buffer(src, mp3FallbackRate)
	}

	pcm := make([]int16, len(src.Samples))
	for i, s := range src.Samples {
		pcm[i] = audio.SampleToInt16(s)
	}

	enc := mp3.NewEncoder(src.Format.SampleRate, src.Format.Channels)
	if err := enc.Write(w, pcm); err != nil {
		return fmt.Errorf("mp3 encode error: %w", err)
	}
	return nil
}
