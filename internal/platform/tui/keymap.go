package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/game"
)

// GameKeyMap defines the key bindings for the game screen.
type GameKeyMap struct {
	Retry key.Binding
	Watch key.Binding
	Pause key.Binding
	Skip  key.Binding
	Back  key.Binding
	Quit  key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k GameKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Retry, k.Watch, k.Pause, k.Skip, k.Back, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k GameKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Retry, k.Watch, k.Pause, k.Skip},
		{k.Back, k.Quit},
	}
}

// DefaultGameKeyMap returns default key bindings.
func DefaultGameKeyMap() GameKeyMap {
	return GameKeyMap{
		Retry: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "retry"),
		),
		Watch: key.NewBinding(
			key.WithKeys("v", "enter"),
			key.WithHelp("v", "watch video"),
		),
		Pause: key.NewBinding(
			key.WithKeys("p", " "),
			key.WithHelp("p", "pause"),
		),
		Skip: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close ad"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc", "b"),
			key.WithHelp("esc/b", "menu"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Action translates a key message to a game action.
func (k GameKeyMap) Action(msg tea.KeyMsg) game.Action {
	switch {
	case key.Matches(msg, k.Quit):
		return game.ActionQuit
	case key.Matches(msg, k.Back):
		return game.ActionBack
	case key.Matches(msg, k.Retry):
		return game.ActionRetry
	case key.Matches(msg, k.Watch):
		return game.ActionWatch
	case key.Matches(msg, k.Pause):
		return game.ActionPause
	case key.Matches(msg, k.Skip):
		return game.ActionSkip
	}
	return game.ActionNone
}

// sync enables only the bindings that do something in st, so the help
// line mirrors the buttons the screen shows.
func (k *GameKeyMap) sync(st game.State) {
	k.Retry.SetEnabled(st.RetryVisible && !st.Watching)
	k.Watch.SetEnabled(st.ShowVideoVisible && !st.Watching)
	k.Pause.SetEnabled(!st.GameOver && !st.Watching)
	k.Skip.SetEnabled(st.Watching)
	if st.Paused {
		k.Pause.SetHelp("p", "resume")
	} else {
		k.Pause.SetHelp("p", "pause")
	}
}

// MenuAction represents a menu-specific action derived from input.
type MenuAction int

const (
	MenuActionNone MenuAction = iota
	MenuActionUp
	MenuActionDown
	MenuActionSelect
	MenuActionBack
	MenuActionQuit
)

// MapKeyToMenuAction translates a key to a menu action.
func MapKeyToMenuAction(msg tea.KeyMsg) MenuAction {
	switch msg.String() {
	case "ctrl+c", "q":
		return MenuActionQuit
	case "w", "up", "k": // vim-style k for up
		return MenuActionUp
	case "s", "down", "j": // vim-style j for down
		return MenuActionDown
	case "enter", " ":
		return MenuActionSelect
	case "b", "esc":
		return MenuActionBack
	}
	return MenuActionNone
}
