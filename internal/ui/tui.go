// ABOUTME: TUI initialization and control channels
// ABOUTME: Wraps the bubbletea program and forwards user requests to the session
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/muzikcalar/muzikcalar-go/pkg/equalizer"
)

// VolumeChangeMsg requests a new output volume
type VolumeChangeMsg struct {
	Volume int
	Muted  bool
}

// QuitMsg requests shutdown
type QuitMsg struct{}

// Controls carries user requests from the TUI to the session
type Controls struct {
	Play      chan string
	Preset    chan equalizer.Preset
	Stop      chan struct{}
	Pause     chan struct{}
	Next      chan struct{}
	Previous  chan struct{}
	Recommend chan string
	Volume    chan VolumeChangeMsg
	Quit      chan QuitMsg
}

// NewControls creates buffered control channels
func NewControls() *Controls {
	return &Controls{
		Play:      make(chan string, 4),
		Preset:    make(chan equalizer.Preset, 4),
		Stop:      make(chan struct{}, 1),
		Pause:     make(chan struct{}, 1),
		Next:      make(chan struct{}, 4),
		Previous:  make(chan struct{}, 4),
		Recommend: make(chan string, 4),
		Volume:    make(chan VolumeChangeMsg, 10),
		Quit:      make(chan QuitMsg, 1),
	}
}

// Sends never block the UI; a full channel drops the request.
// A nil Controls ignores everything, which keeps the model testable alone.

func (c *Controls) play(path string) {
	if c != nil {
		trySend(c.Play, path)
	}
}

func (c *Controls) preset(p equalizer.Preset) {
	if c != nil {
		trySend(c.Preset, p)
	}
}

func (c *Controls) stop() {
	if c != nil {
		trySend(c.Stop, struct{}{})
	}
}

func (c *Controls) pause() {
	if c != nil {
		trySend(c.Pause, struct{}{})
	}
}

func (c *Controls) next() {
	if c != nil {
		trySend(c.Next, struct{}{})
	}
}

func (c *Controls) previous() {
	if c != nil {
		trySend(c.Previous, struct{}{})
	}
}

func (c *Controls) recommend(query string) {
	if c != nil {
		trySend(c.Recommend, query)
	}
}

func (c *Controls) volume(volume int, muted bool) {
	if c != nil {
		trySend(c.Volume, VolumeChangeMsg{Volume: volume, Muted: muted})
	}
}

func (c *Controls) quit() {
	if c != nil {
		trySend(c.Quit, QuitMsg{})
	}
}

func trySend[T any](ch chan T, v T) {
	select {
	case ch <- v:
	default:
	}
}

// NewModel creates a new TUI model
func NewModel(controls *Controls, volume int) Model {
	return Model{
		volume:   volume,
		controls: controls,
	}
}

// Run creates the TUI program; the caller starts it
func Run(controls *Controls, volume int) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(controls, volume), tea.WithAltScreen())
	return p, nil
}
