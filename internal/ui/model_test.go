// ABOUTME: Tests for TUI model and state management
// ABOUTME: Tests status updates, key handling, control requests and rendering
package ui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzikcalar/muzikcalar-go/pkg/dsp/spectrum"
	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
	"github.com/muzikcalar/muzikcalar-go/pkg/recommend"
)

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		m = next.(Model)
	}
	return m
}

func withSongs(controls *Controls) Model {
	m := NewModel(controls, 80)
	m.applyStatus(StatusMsg{Songs: []string{"songs/a.wav", "songs/b.flac", "songs/c.mp3"}})
	return m
}

func TestNewModel(t *testing.T) {
	model := NewModel(nil, 80)

	if model.volume != 80 {
		t.Errorf("expected volume 80, got %d", model.volume)
	}
	if model.muted {
		t.Error("expected muted to be false initially")
	}
	if model.song != "" || model.active {
		t.Error("expected nothing playing initially")
	}
	if model.preset != equalizer.Normal {
		t.Errorf("expected Normal preset, got %s", model.preset)
	}
}

func TestCursorMovement(t *testing.T) {
	m := withSongs(nil)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 2 {
		t.Errorf("expected cursor to stop at 2, got %d", m.cursor)
	}

	m = press(t, m, runes("k"), runes("k"), runes("k"))
	if m.cursor != 0 {
		t.Errorf("expected cursor to stop at 0, got %d", m.cursor)
	}
}

func TestEnterPlaysSelectedSong(t *testing.T) {
	controls := NewControls()
	m := withSongs(controls)

	press(t, m, runes("j"), tea.KeyMsg{Type: tea.KeyEnter})

	select {
	case path := <-controls.Play:
		if path != "songs/b.flac" {
			t.Errorf("expected songs/b.flac, got %s", path)
		}
	default:
		t.Fatal("expected a play request")
	}
}

func TestPresetKeys(t *testing.T) {
	tests := []struct {
		key      string
		expected equalizer.Preset
	}{
		{"n", equalizer.Normal},
		{"b", equalizer.BassBoost},
		{"t", equalizer.TrebleBoost},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			controls := NewControls()
			m := withSongs(controls)
			m.applyStatus(StatusMsg{Song: "songs/a.wav"})

			m = press(t, m, runes(tt.key))

			select {
			case p := <-controls.Preset:
				if p != tt.expected {
					t.Errorf("expected %s, got %s", tt.expected, p)
				}
			default:
				t.Fatal("expected a preset request")
			}
			if m.isError {
				t.Errorf("unexpected error message: %s", m.message)
			}
		})
	}
}

func TestPresetWithoutSong(t *testing.T) {
	controls := NewControls()
	m := press(t, withSongs(controls), runes("b"))

	select {
	case p := <-controls.Preset:
		t.Errorf("expected no preset request, got %s", p)
	default:
	}
	if !m.isError || m.message == "" {
		t.Error("expected an error message")
	}
}

func TestRecommendQuery(t *testing.T) {
	controls := NewControls()
	m := withSongs(controls)
	m.applyStatus(StatusMsg{Song: "songs/a.wav"})

	m = press(t, m, runes("/"))
	if !m.querying {
		t.Fatal("expected query mode")
	}
	if m.query != "a" {
		t.Errorf("expected query prefilled with %q, got %q", "a", m.query)
	}

	// Keys edit the query instead of triggering commands
	m = press(t, m,
		tea.KeyMsg{Type: tea.KeyBackspace},
		runes("Song"),
		tea.KeyMsg{Type: tea.KeySpace},
		runes("q"),
		tea.KeyMsg{Type: tea.KeyEnter},
	)

	if m.querying {
		t.Error("expected query mode to end on enter")
	}
	select {
	case q := <-controls.Recommend:
		if q != "Song q" {
			t.Errorf("expected %q, got %q", "Song q", q)
		}
	default:
		t.Fatal("expected a recommend request")
	}
	select {
	case <-controls.Quit:
		t.Error("q inside the query must not quit")
	default:
	}
}

func TestRecommendQueryCancel(t *testing.T) {
	controls := NewControls()
	m := press(t, withSongs(controls), runes("/"), runes("abc"), tea.KeyMsg{Type: tea.KeyEsc})

	if m.querying || m.query != "" {
		t.Errorf("expected query to be cleared, got querying=%v query=%q", m.querying, m.query)
	}
	select {
	case q := <-controls.Recommend:
		t.Errorf("expected no request, got %q", q)
	default:
	}
}

func TestStopAndQuit(t *testing.T) {
	controls := NewControls()
	m := press(t, withSongs(controls), runes("s"))

	select {
	case <-controls.Stop:
	default:
		t.Error("expected a stop request")
	}

	_, cmd := m.Update(runes("q"))
	if cmd == nil {
		t.Error("expected a quit command")
	}
	select {
	case <-controls.Quit:
	default:
		t.Error("expected a quit request")
	}
}

func TestTransportKeys(t *testing.T) {
	tests := []struct {
		name string
		key  tea.KeyMsg
		ch   func(*Controls) chan struct{}
	}{
		{"pause", runes("p"), func(c *Controls) chan struct{} { return c.Pause }},
		{"pause space", tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}, func(c *Controls) chan struct{} { return c.Pause }},
		{"next", runes(">"), func(c *Controls) chan struct{} { return c.Next }},
		{"next dot", runes("."), func(c *Controls) chan struct{} { return c.Next }},
		{"previous", runes("<"), func(c *Controls) chan struct{} { return c.Previous }},
		{"previous comma", runes(","), func(c *Controls) chan struct{} { return c.Previous }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controls := NewControls()
			m := withSongs(controls)
			m.applyStatus(StatusMsg{Song: "songs/a.wav"})

			press(t, m, tt.key)

			select {
			case <-tt.ch(controls):
			default:
				t.Fatalf("expected a %s request", tt.name)
			}
		})
	}
}

func TestPauseWithoutSong(t *testing.T) {
	controls := NewControls()
	m := press(t, withSongs(controls), runes("p"))

	select {
	case <-controls.Pause:
		t.Error("expected no pause request")
	default:
	}
	if !m.isError || m.message != "Nothing to pause" {
		t.Errorf("expected an error message, got %q", m.message)
	}
}

func TestStatusMsgFollowsSong(t *testing.T) {
	m := withSongs(nil)
	active, paused := true, true
	m.applyStatus(StatusMsg{Song: "songs/c.mp3", Active: &active, Paused: &paused})

	if m.cursor != 2 {
		t.Errorf("expected cursor on the playing song, got %d", m.cursor)
	}
	if !m.paused {
		t.Error("expected paused state")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	if view := next.(Model).View(); !strings.Contains(view, "Paused: c.mp3") {
		t.Errorf("expected paused line in view:\n%s", view)
	}
}

func TestVolumeKeys(t *testing.T) {
	controls := NewControls()
	m := NewModel(controls, 98)

	m = press(t, m, runes("+"))
	if m.volume != 100 {
		t.Errorf("expected volume clamped to 100, got %d", m.volume)
	}
	m = press(t, m, runes("-"), runes("m"))
	if m.volume != 95 || !m.muted {
		t.Errorf("expected 95 muted, got %d %v", m.volume, m.muted)
	}

	var last VolumeChangeMsg
	for len(controls.Volume) > 0 {
		last = <-controls.Volume
	}
	if last.Volume != 95 || !last.Muted {
		t.Errorf("unexpected last volume request: %+v", last)
	}
}

func TestNilControlsIgnoreRequests(t *testing.T) {
	m := withSongs(nil)
	m.applyStatus(StatusMsg{Song: "songs/a.wav"})
	// Must not panic
	press(t, m, tea.KeyMsg{Type: tea.KeyEnter}, runes("b"), runes("s"), runes("+"))
}

func TestControlsDropWhenFull(t *testing.T) {
	controls := NewControls()
	for i := 0; i < cap(controls.Stop)+3; i++ {
		controls.stop()
	}
	if len(controls.Stop) != cap(controls.Stop) {
		t.Errorf("expected a full channel, got %d", len(controls.Stop))
	}
}

func TestStatusMsgPlayback(t *testing.T) {
	model := NewModel(nil, 80)
	active := true

	model.applyStatus(StatusMsg{
		Song:    "songs/a.wav",
		Playing: "/tmp/a_bass_boosted.wav",
		Preset:  equalizer.BassBoost,
		Balance: spectrum.Balance{Low: 0.7, High: 0.3},
		Active:  &active,
	})

	if model.song != "songs/a.wav" || model.playing != "/tmp/a_bass_boosted.wav" {
		t.Errorf("unexpected song state: %q %q", model.song, model.playing)
	}
	if model.preset != equalizer.BassBoost {
		t.Errorf("expected BassBoost, got %s", model.preset)
	}
	if model.balance.Low != 0.7 {
		t.Errorf("expected low balance 0.7, got %v", model.balance.Low)
	}
	if !model.active {
		t.Error("expected active playback")
	}

	inactive := false
	model.applyStatus(StatusMsg{Active: &inactive})
	if model.active {
		t.Error("expected playback to stop")
	}
	if model.song != "songs/a.wav" {
		t.Error("expected song to survive a partial update")
	}
}

func TestStatusMsgCursorClamp(t *testing.T) {
	m := press(t, withSongs(nil), runes("j"), runes("j"))
	m.applyStatus(StatusMsg{Songs: []string{"only.wav"}})
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestStatusMsgVolume(t *testing.T) {
	model := NewModel(nil, 80)
	volume, muted := 30, true
	model.applyStatus(StatusMsg{Volume: &volume, Muted: &muted})

	if model.volume != 30 || !model.muted {
		t.Errorf("expected 30 muted, got %d %v", model.volume, model.muted)
	}
}

func TestStatusMsgRecommendations(t *testing.T) {
	model := NewModel(nil, 80)
	model.applyStatus(StatusMsg{
		RecommendFor:    "Song A",
		Recommendations: []recommend.Match{{Title: "Song B", Score: 1, Index: 1}},
	})

	if model.recommendFor != "Song A" || len(model.recommendations) != 1 {
		t.Errorf("unexpected recommendations: %q %+v", model.recommendFor, model.recommendations)
	}
}

func TestStatusMsgMessages(t *testing.T) {
	model := NewModel(nil, 80)

	model.applyStatus(StatusMsg{Err: errors.New("decode failed")})
	if !model.isError || model.message != "decode failed" {
		t.Errorf("expected error message, got %q (error=%v)", model.message, model.isError)
	}

	model.applyStatus(StatusMsg{Message: "done"})
	if model.isError || model.message != "done" {
		t.Errorf("expected info message, got %q (error=%v)", model.message, model.isError)
	}
}

func TestView(t *testing.T) {
	m := withSongs(nil)
	if m.View() != "Loading..." {
		t.Error("expected loading view before the first resize")
	}

	next, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	m = next.(Model)
	active := true
	m.applyStatus(StatusMsg{Song: "songs/a.wav", Preset: equalizer.TrebleBoost, Active: &active})
	m.applyStatus(StatusMsg{RecommendFor: "Song A", Recommendations: []recommend.Match{{Title: "Song B", Score: 0.5}}})

	view := m.View()
	for _, want := range []string{"b.flac", "Playing: a.wav", "Preset: Treble Boost", "Song B (0.50)", "q:Quit"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected view to contain %q", want)
		}
	}

	for i, l := range strings.Split(strings.TrimSuffix(view, "\n"), "\n") {
		if n := len([]rune(l)); n != boxWidth+2 {
			t.Errorf("line %d has width %d, expected %d: %q", i, n, boxWidth+2, l)
		}
	}
}

func TestTruncateFunction(t *testing.T) {
	tests := []struct {
		input    string
		maxLen   int
		expected string
	}{
		{"short", 10, "short"},
		{"this is longer than allowed", 10, "this is..."},
		{"", 10, ""},
		{"abcd", 4, "abcd"},
		{"abcde", 4, "a..."},
		{"müzikçalar şarkı", 8, "müzik..."},
	}

	for _, tt := range tests {
		result := truncate(tt.input, tt.maxLen)
		if result != tt.expected {
			t.Errorf("truncate(%q, %d) = %q, expected %q",
				tt.input, tt.maxLen, result, tt.expected)
		}
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		value    int
		expected string
	}{
		{0, "░░░░"},
		{50, "██░░"},
		{100, "████"},
		{150, "████"},
		{-5, "░░░░"},
	}

	for _, tt := range tests {
		if got := renderBar(tt.value, 100, 4); got != tt.expected {
			t.Errorf("renderBar(%d) = %q, expected %q", tt.value, got, tt.expected)
		}
	}
}
