// Package tui provides the Bubble Tea integration for the rewarded arcade.
// It handles the terminal UI loop, input mapping and delivery of ad
// callbacks onto the UI goroutine.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// TickMsg is sent to advance the countdown and refresh the screen.
// Gen identifies the screen instance that scheduled it, so a tick chain
// left over from a previous visit is dropped instead of doubling the rate.
type TickMsg struct {
	Time time.Time
	Gen  int
}

// tickCmd returns a Bubble Tea command that sends tick messages at the specified rate.
func tickCmd(tickRate, gen int) tea.Cmd {
	if tickRate <= 0 {
		tickRate = 20
	}
	interval := time.Second / time.Duration(tickRate)
	return tea.Tick(interval, func(t time.Time) tea.Msg {
		return TickMsg{Time: t, Gen: gen}
	})
}
