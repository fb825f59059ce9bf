package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/simonsays/internal/model"
)

type keyMap struct {
	Start key.Binding
	Up    key.Binding
	Down  key.Binding
	Left  key.Binding
	Right key.Binding
	Shake key.Binding
	Stop  key.Binding
	Stats key.Binding
	Quit  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Start: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
		Up:    key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "tilt up")),
		Down:  key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "tilt down")),
		Left:  key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "tilt left")),
		Right: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "tilt right")),
		Shake: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "shake")),
		Stop:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "stop")),
		Stats: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "stats")),
		Quit:  key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Start, k.Up, k.Down, k.Left, k.Right, k.Shake, k.Stop, k.Stats, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Start, k.Stop, k.Stats, k.Quit},
		{k.Up, k.Down, k.Left, k.Right, k.Shake},
	}
}

// gestureFor maps a key to the gesture it simulates.
func (k keyMap) gestureFor(msg tea.KeyMsg) (model.Gesture, bool) {
	switch {
	case key.Matches(msg, k.Up):
		return model.Up, true
	case key.Matches(msg, k.Down):
		return model.Down, true
	case key.Matches(msg, k.Left):
		return model.Left, true
	case key.Matches(msg, k.Right):
		return model.Right, true
	case key.Matches(msg, k.Shake):
		return model.Shake, true
	default:
		return model.None, false
	}
}
