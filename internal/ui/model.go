// ABOUTME: Bubbletea model for the equalizer and recommendation TUI
// ABOUTME: Defines application state, key handling and rendering
package ui

import (
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzikcalar/muzikcalar-go/internal/version"
	"github.com/muzikcalar/muzikcalar-go/pkg/dsp/spectrum"
	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
	"github.com/muzikcalar/muzikcalar-go/pkg/recommend"
)

const (
	boxWidth    = 54
	listHeight  = 8
	volumeStep  = 5
	maxRecShown = 10
)

// Model represents the TUI state
type Model struct {
	// Library
	songs  []string
	cursor int

	// Playback
	song    string
	playing string
	preset  equalizer.Preset
	active  bool
	paused  bool
	balance spectrum.Balance
	volume  int
	muted   bool

	// Recommendations
	querying        bool
	query           string
	recommendFor    string
	recommendations []recommend.Match

	message string
	isError bool

	controls *Controls

	// Dimensions
	width  int
	height int
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.querying {
			return m.handleQueryKey(msg)
		}
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString(m.renderLibrary())
	b.WriteString(m.renderNowPlaying())
	b.WriteString(m.renderRecommendations())
	b.WriteString(m.renderHelp())
	return b.String()
}

func (m Model) renderHeader() string {
	title := fmt.Sprintf("─ %s ", version.String())
	fill := boxWidth - len([]rune(title))
	if fill < 0 {
		fill = 0
	}
	return "┌" + title + strings.Repeat("─", fill) + "┐\n"
}

func (m Model) renderLibrary() string {
	if len(m.songs) == 0 {
		return line("No songs found")
	}

	// Keep the cursor inside the visible window
	start := 0
	if m.cursor >= listHeight {
		start = m.cursor - listHeight + 1
	}
	end := min(start+listHeight, len(m.songs))

	var b strings.Builder
	b.WriteString(line(fmt.Sprintf("Songs (%d):", len(m.songs))))
	for i := start; i < end; i++ {
		marker := "  "
		if i == m.cursor {
			marker = "> "
		}
		name := filepath.Base(m.songs[i])
		if m.songs[i] == m.song {
			name += " ♪"
		}
		b.WriteString(line(marker + name))
	}
	return b.String()
}

func (m Model) renderNowPlaying() string {
	var b strings.Builder
	b.WriteString(separator())

	if m.song == "" {
		b.WriteString(line("Nothing playing"))
	} else {
		state := "Stopped"
		switch {
		case m.paused:
			state = "Paused"
		case m.active:
			state = "Playing"
		}
		b.WriteString(line(fmt.Sprintf("%s: %s", state, filepath.Base(m.song))))
		b.WriteString(line(fmt.Sprintf("Preset: %s", m.preset)))
		b.WriteString(line(fmt.Sprintf("Low  [%s] %3.0f%%", renderBar(int(m.balance.Low*100), 100, 20), m.balance.Low*100)))
		b.WriteString(line(fmt.Sprintf("High [%s] %3.0f%%", renderBar(int(m.balance.High*100), 100, 20), m.balance.High*100)))
	}

	muteIcon := ""
	if m.muted {
		muteIcon = " (muted)"
	}
	b.WriteString(line(fmt.Sprintf("Volume: [%s] %d%%%s", renderBar(m.volume, 100, 10), m.volume, muteIcon)))

	if m.message != "" {
		prefix := ""
		if m.isError {
			prefix = "Error: "
		}
		b.WriteString(line(prefix + m.message))
	}
	return b.String()
}

func (m Model) renderRecommendations() string {
	var b strings.Builder
	b.WriteString(separator())

	if m.querying {
		b.WriteString(line("Similar to: " + m.query + "_"))
		return b.String()
	}
	if m.recommendFor == "" {
		b.WriteString(line("Press / to find similar songs"))
		return b.String()
	}

	b.WriteString(line(fmt.Sprintf("Similar to %q:", m.recommendFor)))
	if len(m.recommendations) == 0 {
		b.WriteString(line("  (no recommendations)"))
	}
	for i, match := range m.recommendations {
		if i == maxRecShown {
			break
		}
		b.WriteString(line(fmt.Sprintf("%2d. %s (%.2f)", i+1, match.Title, match.Score)))
	}
	return b.String()
}

func (m Model) renderHelp() string {
	return line("↑/↓:Select enter:Play p:Pause </>:Prev/Next s:Stop") +
		line("n/b/t:Preset /:Similar +/-:Volume m:Mute q:Quit") +
		"└" + strings.Repeat("─", boxWidth) + "┘\n"
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.controls.quit()
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.songs)-1 {
			m.cursor++
		}
	case "enter":
		if m.cursor < len(m.songs) {
			m.controls.play(m.songs[m.cursor])
		}
	case "n":
		m.selectPreset(equalizer.Normal)
	case "b":
		m.selectPreset(equalizer.BassBoost)
	case "t":
		m.selectPreset(equalizer.TrebleBoost)
	case "s":
		m.controls.stop()
	case "p", " ":
		if m.song == "" {
			m.message = "Nothing to pause"
			m.isError = true
			break
		}
		m.controls.pause()
	case ">", ".":
		m.controls.next()
	case "<", ",":
		m.controls.previous()
	case "/":
		m.querying = true
		m.query = songTitle(m.song)
	case "+", "=":
		m.volume = clamp(m.volume+volumeStep, 0, 100)
		m.controls.volume(m.volume, m.muted)
	case "-":
		m.volume = clamp(m.volume-volumeStep, 0, 100)
		m.controls.volume(m.volume, m.muted)
	case "m":
		m.muted = !m.muted
		m.controls.volume(m.volume, m.muted)
	}

	return m, nil
}

func (m *Model) selectPreset(p equalizer.Preset) {
	if m.song == "" {
		m.message = "Play a song before choosing a preset"
		m.isError = true
		return
	}
	m.message = fmt.Sprintf("Applying %s...", p)
	m.isError = false
	m.controls.preset(p)
}

// handleQueryKey edits the recommendation query
func (m Model) handleQueryKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		m.controls.quit()
		return m, tea.Quit
	case tea.KeyEsc:
		m.querying = false
		m.query = ""
	case tea.KeyEnter:
		m.querying = false
		query := strings.TrimSpace(m.query)
		if query != "" {
			m.recommendFor = query
			m.recommendations = nil
			m.controls.recommend(query)
		}
	case tea.KeyBackspace:
		if r := []rune(m.query); len(r) > 0 {
			m.query = string(r[:len(r)-1])
		}
	case tea.KeySpace:
		m.query += " "
	case tea.KeyRunes:
		m.query += string(msg.Runes)
	}

	return m, nil
}

// applyStatus updates model from status message
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Songs != nil {
		m.songs = msg.Songs
		if m.cursor >= len(m.songs) {
			m.cursor = max(len(m.songs)-1, 0)
		}
	}
	if msg.Song != "" {
		if msg.Song != m.song {
			for i, song := range m.songs {
				if song == msg.Song {
					m.cursor = i
				}
			}
		}
		m.song = msg.Song
		m.playing = msg.Playing
		m.preset = msg.Preset
		m.balance = msg.Balance
	}
	if msg.Active != nil {
		m.active = *msg.Active
	}
	if msg.Paused != nil {
		m.paused = *msg.Paused
	}
	if msg.Volume != nil {
		m.volume = *msg.Volume
	}
	if msg.Muted != nil {
		m.muted = *msg.Muted
	}
	if msg.RecommendFor != "" {
		m.recommendFor = msg.RecommendFor
		m.recommendations = msg.Recommendations
	}
	if msg.Err != nil {
		m.message = msg.Err.Error()
		m.isError = true
	} else if msg.Message != "" {
		m.message = msg.Message
		m.isError = false
	}
}

// StatusMsg updates TUI state. Zero fields leave the model unchanged.
type StatusMsg struct {
	Songs []string

	Song    string
	Playing string
	Preset  equalizer.Preset
	Balance spectrum.Balance
	Active  *bool
	Paused  *bool

	Volume *int
	Muted  *bool

	RecommendFor    string
	Recommendations []recommend.Match

	Message string
	Err     error
}

// Utility functions
func line(s string) string {
	return fmt.Sprintf("│ %s │\n", pad(truncate(s, boxWidth-2), boxWidth-2))
}

func separator() string {
	return "├" + strings.Repeat("─", boxWidth) + "┤\n"
}

func pad(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	return s + strings.Repeat(" ", width-n)
}

func renderBar(value, max, width int) string {
	value = clamp(value, 0, max)
	filled := (value * width) / max
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func truncate(s string, length int) string {
	r := []rune(s)
	if len(r) <= length {
		return s
	}
	return string(r[:length-3]) + "..."
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}

// songTitle guesses a corpus title from a file name
func songTitle(path string) string {
	if path == "" {
		return ""
	}
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
