package update

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"questlog/internal/commands"
	"questlog/internal/model"
	"questlog/internal/store"
)

func (m Model) handlePaletteKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command palette closed"}
	case "enter":
		m.Palette.Input = m.commandInput.Value()
		m = m.executePaletteCommand()
	default:
		var cmd tea.Cmd
		m.commandInput, cmd = m.commandInput.Update(msg)
		_ = cmd
		m.Palette.Input = m.commandInput.Value()
	}
	return m
}

func (m Model) executePaletteCommand() Model {
	raw := strings.TrimSpace(m.Palette.Input)
	cmd, err := commands.Parse(raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		m.Palette.Active = false
		m.Palette.Input = ""
		m.commandInput.SetValue("")
		return m
	}

	res, err := commands.Execute(cmd, commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			next := m.runAdd(a)
			if next.Status.IsError {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: next.Status.Text}
			}
			m = next
			return commands.Result{Message: next.Status.Text}, nil
		},
		Done: func(a commands.DoneArgs) (commands.Result, error) {
			task, ok := m.App.ToggleComplete(ctxBg(), a.Target)
			if !ok {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task with id " + a.Target}
			}
			verb := "reopened"
			if task.Completed {
				verb = "completed"
			}
			return commands.Result{Message: fmt.Sprintf("%s: %s", verb, task.Title)}, nil
		},
		Delete: func(a commands.DeleteArgs) (commands.Result, error) {
			if !m.App.DeleteTask(ctxBg(), a.Target) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no task with id " + a.Target}
			}
			return commands.Result{Message: "deleted " + a.Target}, nil
		},
		Show: func(a commands.ShowArgs) (commands.Result, error) {
			switch a.Subject {
			case "tasks":
				m.CurrentView = ViewTasks
				m.Filter = store.Filter{
					Query:    a.Query,
					Priority: model.Priority(a.Priority),
					Status:   store.StatusFilter(a.Status),
				}
				m.Cursor = 0
				return commands.Result{Message: "showing tasks " + filterDescription(m.Filter)}, nil
			case "achievements":
				m.CurrentView = ViewAchievements
				return commands.Result{Message: "showing achievements"}, nil
			case "insights":
				m.CurrentView = ViewInsights
				m.Cursor = 0
				return commands.Result{Message: "showing insights"}, nil
			default:
				stats := m.App.Stats()
				return commands.Result{Message: fmt.Sprintf("level %d | %d xp | streak %d", stats.Level, stats.XP, stats.CurrentStreak)}, nil
			}
		},
		Dismiss: func(a commands.DismissArgs) (commands.Result, error) {
			if !m.App.DismissInsight(ctxBg(), a.InsightID) {
				return commands.Result{}, &commands.CommandError{Code: commands.ErrCodeInvalidArgument, Message: "no insight with id " + a.InsightID}
			}
			return commands.Result{Message: "insight dismissed"}, nil
		},
		Mute: func() (commands.Result, error) {
			enabled := false
			m.App.UpdateNotificationSettings(ctxBg(), model.NotificationSettingsPatch{Enabled: &enabled})
			return commands.Result{Message: "notifications muted"}, nil
		},
		Unmute: func() (commands.Result, error) {
			enabled := true
			m.App.UpdateNotificationSettings(ctxBg(), model.NotificationSettingsPatch{Enabled: &enabled})
			return commands.Result{Message: "notifications enabled"}, nil
		},
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}

	m.Palette.Active = false
	m.Palette.Input = ""
	m.commandInput.SetValue("")
	return m
}
