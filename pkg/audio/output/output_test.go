// ABOUTME: Audio output tests
// ABOUTME: Verifies interface conformance and the software volume path
package output

import (
	"testing"

	"github.com/rs/zerolog"
)

func TestOtoImplementsOutput(t *testing.T) {
	var _ Output = (*Oto)(nil)
	var _ VolumeControl = (*Oto)(nil)
}

func TestWriteBeforeOpen(t *testing.T) {
	out := NewOto(zerolog.Nop())
	err := out.Write([]int32{1, 2})
	if err == nil {
		t.Fatal("expected error writing to unopened output")
	}
	if err.Error() != "output not initialized" {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestVolumeClamp(t *testing.T) {
	out := NewOto(zerolog.Nop())

	tests := []struct {
		set      int
		expected int
	}{
		{50, 50},
		{-10, 0},
		{150, 100},
	}
	for _, tt := range tests {
		out.SetVolume(tt.set)
		if got := out.GetVolume(); got != tt.expected {
			t.Errorf("SetVolume(%d): expected %d, got %d", tt.set, tt.expected, got)
		}
	}

	out.SetMuted(true)
	if !out.IsMuted() {
		t.Error("expected output to be muted")
	}
}

func TestApplyVolume(t *testing.T) {
	tests := []struct {
		name     string
		volume   int
		muted    bool
		input    int32
		expected int32
	}{
		{"full", 100, false, 1000, 1000},
		{"half", 50, false, 1000, 500},
		{"muted", 100, true, 1000, 0},
		{"zero", 0, false, -1000, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := applyVolume([]int32{tt.input}, tt.volume, tt.muted)
			if got[0] != tt.expected {
				t.Errorf("expected %d, got %d", tt.expected, got[0])
			}
		})
	}
}

func TestToPCM16(t *testing.T) {
	got := toPCM16([]int32{100 << 8, -1 << 8})
	expected := []byte{0x64, 0x00, 0xFF, 0xFF}
	if len(got) != len(expected) {
		t.Fatalf("expected %d bytes, got %d", len(expected), len(got))
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("byte %d: expected %#x, got %#x", i, expected[i], got[i])
		}
	}
}
