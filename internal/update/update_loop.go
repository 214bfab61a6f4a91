package update

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"questlog/internal/views"
)

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if m.App != nil {
		cmds = append(cmds, waitForReminderCmd(m.App.Reminders()))
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Palette.Active {
			return m.handlePaletteKey(typed), nil
		}
		if m.QuickAdd.Active {
			return m.handleQuickAddKey(typed), nil
		}

		switch typed.String() {
		case "/":
			m.Palette.Active = true
			m.Palette.Input = ""
			m.commandInput.SetValue("")
			m.commandInput.Focus()
			m.Status = StatusBar{Text: "command palette active"}
			return m, nil
		case m.Keys.QuickAdd:
			if m.CurrentView == ViewTasks {
				m.QuickAdd.Active = true
				m.quickAddInput.SetValue("")
				m.quickAddInput.Focus()
				return m, nil
			}
		case m.Keys.Tasks:
			m.CurrentView = ViewTasks
			m.Cursor = 0
			return m, nil
		case m.Keys.Achievements:
			m.CurrentView = ViewAchievements
			return m, nil
		case m.Keys.Insights:
			m.CurrentView = ViewInsights
			m.Cursor = 0
			return m, nil
		case m.Keys.Help:
			m.HelpVisible = !m.HelpVisible
			return m, nil
		case "ctrl+c", m.Keys.Quit:
			m.Quitting = true
			return m, tea.Quit
		}

		if m.CurrentView == ViewTasks {
			return m.handleTaskKey(typed), nil
		}
		if m.CurrentView == ViewInsights {
			return m.handleInsightKey(typed), nil
		}
		return m, nil

	case TickMsg:
		// Countdown strings depend on the clock, so re-render every second.
		return m, tickCmd()

	case ReminderMsg:
		if typed.Closed {
			return m, nil
		}
		m.ReminderLog = append(m.ReminderLog, typed.Reminder)
		if len(m.ReminderLog) > 20 {
			m.ReminderLog = m.ReminderLog[len(m.ReminderLog)-20:]
		}
		m.Status = StatusBar{Text: fmt.Sprintf("reminder: %s", typed.Reminder.Title())}
		if m.App != nil {
			_ = m.App.Deliver(typed.Reminder)
			return m, waitForReminderCmd(m.App.Reminders())
		}
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case ClearStatusMsg:
		m.Status = StatusBar{}
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = fmt.Sprintf("status: error: %s", m.Status.Text)
		} else {
			status = fmt.Sprintf("status: %s", m.Status.Text)
		}
	}

	leftPane := ""
	switch m.CurrentView {
	case ViewTasks:
		leftPane = m.renderTasksPane()
	case ViewAchievements:
		leftPane = m.renderAchievementsPane()
	case ViewInsights:
		leftPane = m.renderInsightsPane()
	}

	rightPane := m.renderStatsPane()
	if m.CurrentView == ViewInsights {
		if active := m.App.ActiveInsights(); m.Cursor < len(active) {
			detail := fmt.Sprintf("## %s\n\n%s", active[m.Cursor].Title, active[m.Cursor].Message)
			rightPane += "\n\n" + views.RenderMarkdown(detail)
		}
	}
	if m.Palette.Active {
		rightPane += "\n\n" + "command: " + m.commandInput.View()
	}
	if m.QuickAdd.Active {
		rightPane += "\n\n" + "new task: " + m.quickAddInput.View()
	}
	if m.HelpVisible {
		rightPane += "\n\n" + m.renderHelp()
	}

	notification := ""
	if len(m.ReminderLog) > 0 {
		last := m.ReminderLog[len(m.ReminderLog)-1]
		notification = fmt.Sprintf("last reminder: %s @ %s", last.Tag, last.At.Format("15:04:05"))
	}

	stats := m.App.Stats()
	return views.RenderApp(views.AppData{
		Header:       fmt.Sprintf("questlog | view: %s | level %d", m.CurrentView, stats.Level),
		LeftPane:     leftPane,
		RightPane:    rightPane,
		StatusLine:   status,
		Notification: notification,
		Footer: fmt.Sprintf("keys: %s tasks | %s achievements | %s insights | %s add | / cmd | %s help | %s quit",
			m.Keys.Tasks, m.Keys.Achievements, m.Keys.Insights, m.Keys.QuickAdd, m.Keys.Help, m.Keys.Quit),
	})
}

func (m Model) renderHelp() string {
	var rows []string
	for _, group := range m.helpBindings() {
		rows = append(rows, m.helpModel.ShortHelpView(group))
	}
	return strings.Join(rows, "\n")
}

// ctxBg is the context used for mutations triggered by key presses.
func ctxBg() context.Context { return context.Background() }
