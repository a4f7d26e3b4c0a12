package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/rewarded-arcade/internal/ads"
)

// mailboxSize bounds callbacks queued between two Update calls.
// Posting from Update itself must never block, so it comfortably exceeds
// the handful of notifications one action can raise.
const mailboxSize = 64

// toastMsg carries a user-facing notification from the ad slot.
type toastMsg struct {
	text string
}

// adEventMsg carries one ShowVideo outcome.
type adEventMsg struct {
	event ads.Event
}

// mailbox moves ad callbacks, which fire on timer goroutines, onto the
// Bubble Tea loop. wait must be re-armed after every message it yields.
// Delivery stops when the session context ends.
type mailbox struct {
	ch   chan tea.Msg
	done <-chan struct{}
}

func newMailbox(ctx context.Context) *mailbox {
	return &mailbox{
		ch:   make(chan tea.Msg, mailboxSize),
		done: ctx.Done(),
	}
}

// post queues msg. Once the session is over it drops msg instead of blocking.
func (m *mailbox) post(msg tea.Msg) {
	select {
	case <-m.done:
		return
	default:
	}
	select {
	case m.ch <- msg:
	case <-m.done:
	}
}

// wait returns a command that yields the next queued message.
func (m *mailbox) wait() tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-m.ch:
			return msg
		case <-m.done:
			return nil
		}
	}
}

// Notify implements ads.Notifier.
func (m *mailbox) Notify(text string) {
	m.post(toastMsg{text: text})
}

// deliver is handed to the controller as its ad event sink.
func (m *mailbox) deliver(ev ads.Event) {
	m.post(adEventMsg{event: ev})
}
