package update

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questlog/internal/scheduler"
)

type TickMsg struct {
	At time.Time
}

type ReminderMsg struct {
	Reminder scheduler.Reminder
	Closed   bool
}

type SetStatusMsg struct {
	Text    string
	IsError bool
}

type ClearStatusMsg struct{}

// tickCmd drives the per-second countdown refresh.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(at time.Time) tea.Msg {
		return TickMsg{At: at.UTC()}
	})
}

// waitForReminderCmd blocks on the scheduler output until the next reminder
// or channel close.
func waitForReminderCmd(ch <-chan scheduler.Reminder) tea.Cmd {
	return func() tea.Msg {
		r, ok := <-ch
		if !ok {
			return ReminderMsg{Closed: true}
		}
		return ReminderMsg{Reminder: r}
	}
}
