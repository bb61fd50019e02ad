// ABOUTME: Tests for the audio file encoders
// ABOUTME: Round-trips buffers through each encoder and the matching decoder
package encode

import (
	"errors"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
	"github.com/muzikcalar/muzikcalar-go/pkg/audio/decode"
)

// sineBuffer builds a stereo sine wave already quantized to bitDepth
func sineBuffer(container audio.Container, rate, bitDepth, frames int) *audio.Buffer {
	samples := make([]int32, frames*2)
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/float64(rate))
		s := audio.SampleFromFloat(v)
		q := audio.SampleFromDepth(audio.SampleToDepth(s, bitDepth), bitDepth)
		samples[i*2] = q
		samples[i*2+1] = -q
	}
	return &audio.Buffer{
		Samples: samples,
		Format: audio.Format{
			Codec:      string(container),
			SampleRate: rate,
			Channels:   2,
			BitDepth:   bitDepth,
		},
	}
}

func TestWAVRoundTrip(t *testing.T) {
	for _, depth := range []int{8, 16, 24, 32} {
		depth := depth
		t.Run(fmt.Sprintf("%dbit", depth), func(t *testing.T) {
			buf := sineBuffer(audio.ContainerWAV, 8000, depth, 800)
			path := filepath.Join(t.TempDir(), "tone.wav")

			if err := File(path, buf); err != nil {
				t.Fatalf("depth %d: encode failed: %v", depth, err)
			}

			got, err := decode.File(path)
			if err != nil {
				t.Fatalf("depth %d: decode failed: %v", depth, err)
			}
			assertSameAudio(t, buf, got)
			if got.Source != path {
				t.Errorf("expected source %q, got %q", path, got.Source)
			}
		})
	}
}

func TestFLACRoundTrip(t *testing.T) {
	// More than one block so the last frame is short
	buf := sineBuffer(audio.ContainerFLAC, 44100, 16, flacBlockSize*2+100)
	path := filepath.Join(t.TempDir(), "tone.flac")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	assertSameAudio(t, buf, got)
}

func TestOpusRoundTrip(t *testing.T) {
	buf := sineBuffer(audio.ContainerOpus, 48000, 16, 48000/2)
	path := filepath.Join(t.TempDir(), "tone.opus")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if got.Format.Codec != string(audio.ContainerOpus) || got.Format.Channels != 2 || got.Format.SampleRate != 48000 {
		t.Fatalf("unexpected format: %+v", got.Format)
	}
	// Lossy: only the timeline is preserved, padded up to a whole frame
	if got.Frames() < buf.Frames() || got.Frames() > buf.Frames()+opusFrameSize {
		t.Errorf("expected about %d frames, got %d", buf.Frames(), got.Frames())
	}
	if rms(got.Samples) < rms(buf.Samples)/4 {
		t.Errorf("decoded signal lost its energy: %f vs %f", rms(got.Samples), rms(buf.Samples))
	}
}

func TestOpusKeepsInputRate(t *testing.T) {
	buf := sineBuffer(audio.ContainerOpus, 44100, 16, 44100/4)
	path := filepath.Join(t.TempDir(), "tone.ogg")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Format.SampleRate != 44100 {
		t.Errorf("expected 44100 Hz, got %d", got.Format.SampleRate)
	}
}

func TestMP3RoundTrip(t *testing.T) {
	buf := sineBuffer(audio.ContainerMP3, 44100, 16, 44100/2)
	path := filepath.Join(t.TempDir(), "tone.mp3")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}

	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Format.Codec != string(audio.ContainerMP3) || got.Format.Channels != 2 || got.Format.SampleRate != 44100 {
		t.Fatalf("unexpected format: %+v", got.Format)
	}
	// Lossy with encoder delay: allow a couple of MPEG frames either way
	const mpegFrame = 1152
	if diff := got.Frames() - buf.Frames(); diff < -2*mpegFrame || diff > 2*mpegFrame {
		t.Errorf("expected about %d frames, got %d", buf.Frames(), got.Frames())
	}
	if rms(got.Samples) < rms(buf.Samples)/4 {
		t.Errorf("decoded signal lost its energy: %f vs %f", rms(got.Samples), rms(buf.Samples))
	}
}

func TestMP3ResamplesUnsupportedRate(t *testing.T) {
	buf := sineBuffer(audio.ContainerMP3, 8000*5, 16, 8000)
	path := filepath.Join(t.TempDir(), "tone.mp3")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Format.SampleRate != mp3FallbackRate {
		t.Errorf("expected %d Hz, got %d", mp3FallbackRate, got.Format.SampleRate)
	}
}

func TestVorbisWrittenAsOpus(t *testing.T) {
	buf := sineBuffer(audio.ContainerVorbis, 48000, 16, 48000/4)
	path := filepath.Join(t.TempDir(), "tone.ogg")

	if err := File(path, buf); err != nil {
		t.Fatalf("encode failed: %v", err)
	}
	c, err := audio.DetectContainer(path)
	if err != nil || c != audio.ContainerOpus {
		t.Fatalf("expected ogg opus output, got %q (%v)", c, err)
	}
	got, err := decode.File(path)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if got.Format.Channels != 2 || got.Format.SampleRate != 48000 {
		t.Errorf("unexpected format: %+v", got.Format)
	}
}

func TestFileMode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix permissions only")
	}

	for _, c := range []audio.Container{audio.ContainerWAV, audio.ContainerOpus} {
		buf := sineBuffer(c, 48000, 16, 960)
		path := filepath.Join(t.TempDir(), "tone."+string(c))
		if err := File(path, buf); err != nil {
			t.Fatalf("%s: encode failed: %v", c, err)
		}
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != outputMode {
			t.Errorf("%s: expected mode %o, got %o", c, outputMode, info.Mode().Perm())
		}
	}
}

func TestNewUnknownContainer(t *testing.T) {
	enc, err := New("aiff")
	if !errors.Is(err, audio.ErrUnknownContainer) {
		t.Fatalf("expected ErrUnknownContainer, got %v", err)
	}
	if enc != nil {
		t.Fatal("expected encoder to be nil for unknown container")
	}
}

func TestFileRejectsBadBuffers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.wav")
	tests := []struct {
		name          string
		buf           *audio.Buffer
		expectedError string
	}{
		{"nil", nil, "nil buffer"},
		{"no channels", &audio.Buffer{Format: audio.Format{Codec: "wav", SampleRate: 8000}}, "invalid channel count: 0"},
		{"no rate", &audio.Buffer{Format: audio.Format{Codec: "wav", Channels: 1}}, "invalid sample rate: 0"},
		{"ragged", &audio.Buffer{Samples: []int32{1, 2, 3}, Format: audio.Format{Codec: "wav", Channels: 2, SampleRate: 8000}}, "sample count 3 is not a multiple of 2 channels"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := File(path, tt.buf)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if err.Error() != tt.expectedError {
				t.Errorf("expected error %q, got %q", tt.expectedError, err.Error())
			}
		})
	}

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no output file")
	}
}

func TestFileMissingDirectory(t *testing.T) {
	buf := sineBuffer(audio.ContainerWAV, 8000, 16, 10)
	path := filepath.Join(t.TempDir(), "missing", "out.wav")
	if err := File(path, buf); err == nil {
		t.Fatal("expected error writing into a missing directory")
	}
}

func assertSameAudio(t *testing.T, want, got *audio.Buffer) {
	t.Helper()
	if got.Format.SampleRate != want.Format.SampleRate ||
		got.Format.Channels != want.Format.Channels ||
		got.Format.BitDepth != want.Format.BitDepth ||
		got.Format.Codec != want.Format.Codec {
		t.Fatalf("format mismatch: want %+v, got %+v", want.Format, got.Format)
	}
	if len(got.Samples) != len(want.Samples) {
		t.Fatalf("expected %d samples, got %d", len(want.Samples), len(got.Samples))
	}
	for i := range want.Samples {
		if got.Samples[i] != want.Samples[i] {
			t.Fatalf("sample %d: expected %d, got %d", i, want.Samples[i], got.Samples[i])
		}
	}
}

func rms(samples []int32) float64 {
	if len(samples) == 0 {
		return 0
	}
	var sum float64
	for _, s := range samples {
		f := audio.SampleToFloat(s)
		sum += f * f
	}
	return math.Sqrt(sum / float64(len(samples)))
}
