// ABOUTME: PCM sample helpers shared by the decoders
// ABOUTME: Converts 16-bit PCM (raw bytes or int16 frames) to int32 samples
package decode

import (
	"encoding/binary"

	"github.com/muzikcalar/muzikcalar-go/pkg/audio"
)

// pcm16ToSamples converts 16-bit little-endian PCM bytes to int32 samples
func pcm16ToSamples(data []byte) []int32 {
	samples := make([]int32, len(data)/2)
	for i := range samples {
		samples[i] = audio.SampleFromInt16(int16(binary.LittleEndian.Uint16(data[i*2:])))
	}
	return samples
}

// int16ToSamples converts decoded int16 frames to int32 samples
func int16ToSamples(pcm []int16) []int32 {
	samples := make([]int32, len(pcm))
	for i, s := range pcm {
		samples[i] = audio.SampleFromInt16(s)
	}
	return samples
}
