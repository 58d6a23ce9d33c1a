package tui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// feedbackTTL is how long a transient message stays visible.
const feedbackTTL = 3 * time.Second

// tickInterval bounds how long the event loop waits before repainting, so
// expired transients disappear without further input.
const tickInterval = 100 * time.Millisecond

// feedback is one transient, time-stamped status message.
type feedback struct {
	text string
	at   time.Time
}

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// pushFeedback queues a transient message.
func (m *Model) pushFeedback(format string, args ...any) {
	m.feedback = append(m.feedback, feedback{
		text: fmt.Sprintf(format, args...),
		at:   m.now(),
	})
}

// pruneFeedback drops messages whose display duration has elapsed. Called
// on every render tick.
func (m *Model) pruneFeedback(now time.Time) {
	kept := m.feedback[:0]
	for _, f := range m.feedback {
		if now.Sub(f.at) < feedbackTTL {
			kept = append(kept, f)
		}
	}
	m.feedback = kept
}

// feedbackText joins the live transient messages for the status line.
func (m *Model) feedbackText() string {
	if len(m.feedback) == 0 {
		return ""
	}
	// Latest message wins the single status line.
	return m.feedback[len(m.feedback)-1].text
}
