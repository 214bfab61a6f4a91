package update

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questlog/internal/commands"
	"questlog/internal/model"
	"questlog/internal/store"
	"questlog/internal/timeutil"
	"questlog/internal/views"
)

func (m Model) visibleTasks() []model.Task {
	return m.App.Tasks(m.Filter)
}

func (m Model) handleTaskKey(msg tea.KeyMsg) Model {
	tasks := m.visibleTasks()
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(tasks)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "enter", " ":
		if m.Cursor < len(tasks) {
			task, ok := m.App.ToggleComplete(ctxBg(), tasks[m.Cursor].ID)
			if ok && task.Completed {
				m.Status = StatusBar{Text: fmt.Sprintf("completed: %s", task.Title)}
			} else if ok {
				m.Status = StatusBar{Text: fmt.Sprintf("reopened: %s", task.Title)}
			}
		}
	case "x":
		if m.Cursor < len(tasks) {
			title := tasks[m.Cursor].Title
			if m.App.DeleteTask(ctxBg(), tasks[m.Cursor].ID) {
				m.Status = StatusBar{Text: fmt.Sprintf("deleted: %s", title)}
				if m.Cursor > 0 {
					m.Cursor--
				}
			}
		}
	case "p":
		m.Filter.Priority = cyclePriority(m.Filter.Priority)
		m.Cursor = 0
		m.Status = StatusBar{Text: "filter: " + filterDescription(m.Filter)}
	case "s":
		m.Filter.Status = cycleStatus(m.Filter.Status)
		m.Cursor = 0
		m.Status = StatusBar{Text: "filter: " + filterDescription(m.Filter)}
	case "esc":
		m.Filter = filterReset()
		m.Cursor = 0
		m.Status = StatusBar{Text: "filters cleared"}
	}
	return m
}

func (m Model) handleInsightKey(msg tea.KeyMsg) Model {
	active := m.App.ActiveInsights()
	switch msg.String() {
	case "j", "down":
		if m.Cursor < len(active)-1 {
			m.Cursor++
		}
	case "k", "up":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "enter", "x":
		if m.Cursor < len(active) {
			if m.App.DismissInsight(ctxBg(), active[m.Cursor].ID) {
				m.Status = StatusBar{Text: "insight dismissed"}
				if m.Cursor > 0 {
					m.Cursor--
				}
			}
		}
	}
	return m
}

func (m Model) handleQuickAddKey(msg tea.KeyMsg) Model {
	switch msg.String() {
	case "esc":
		m.QuickAdd.Active = false
		m.quickAddInput.Blur()
		m.Status = StatusBar{Text: "quick add cancelled"}
	case "enter":
		raw := strings.TrimSpace(m.quickAddInput.Value())
		m.QuickAdd.Active = false
		m.quickAddInput.Blur()
		if raw == "" {
			return m
		}
		m = m.createFromInput(raw)
	default:
		var cmd tea.Cmd
		m.quickAddInput, cmd = m.quickAddInput.Update(msg)
		_ = cmd
	}
	return m
}

// createFromInput funnels quick-add text through the same parser as the
// palette's add command.
func (m Model) createFromInput(raw string) Model {
	cmd, err := commands.Parse("add " + raw)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	return m.runAdd(*cmd.Add)
}

func (m Model) runAdd(args commands.AddArgs) Model {
	due, err := parseDue(args.Due, m.now())
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	task, err := m.App.CreateTask(ctxBg(), model.Draft{
		Title:    args.Title,
		Priority: model.Priority(args.Priority),
		DueDate:  due,
		Labels:   args.Labels,
	})
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m
	}
	m.Status = StatusBar{Text: fmt.Sprintf("added: %s", task.Title)}
	return m
}

// parseDue accepts RFC3339, a bare date, or a +duration offset from now.
// Empty defaults to tomorrow.
func parseDue(raw string, now time.Time) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.Add(24 * time.Hour), nil
	}
	if strings.HasPrefix(raw, "+") {
		d, err := time.ParseDuration(strings.TrimPrefix(raw, "+"))
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid due offset %q", raw)
		}
		return now.Add(d), nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, fmt.Errorf("invalid due date %q", raw)
}

func (m Model) renderTasksPane() string {
	tasks := m.visibleTasks()
	now := m.now()

	rows := make([]views.TaskRowData, 0, len(tasks))
	for _, t := range tasks {
		sub := ""
		if len(t.Subtasks) > 0 {
			done := 0
			for _, s := range t.Subtasks {
				if s.Completed {
					done++
				}
			}
			sub = fmt.Sprintf("(%d/%d)", done, len(t.Subtasks))
		}
		rows = append(rows, views.TaskRowData{
			ID:        t.ID,
			Title:     t.Title,
			Priority:  string(t.Priority),
			Countdown: timeutil.Remaining(now, t.DueDate),
			Completed: t.Completed,
			Labels:    t.Labels,
			Subtasks:  sub,
		})
	}
	return views.RenderTaskList(views.TaskListData{
		Rows:       rows,
		Cursor:     m.Cursor,
		FilterDesc: filterDescription(m.Filter),
	})
}

func (m Model) renderAchievementsPane() string {
	achievements := m.App.Achievements()
	rows := make([]views.AchievementRowData, 0, len(achievements))
	for _, a := range achievements {
		progress := ""
		if a.Progress != nil && a.MaxProgress != nil {
			progress = fmt.Sprintf("%d/%d", *a.Progress, *a.MaxProgress)
		}
		rows = append(rows, views.AchievementRowData{
			Icon:        a.Icon,
			Title:       a.Title,
			Description: a.Description,
			Unlocked:    a.Unlocked(),
			Progress:    progress,
		})
	}
	return views.RenderAchievements(rows)
}

func (m Model) renderInsightsPane() string {
	active := m.App.ActiveInsights()
	rows := make([]views.InsightRowData, 0, len(active))
	for _, in := range active {
		rows = append(rows, views.InsightRowData{
			ID:       in.ID,
			Title:    in.Title,
			Message:  in.Message,
			Priority: string(in.Priority),
		})
	}
	return views.RenderInsights(rows)
}

func (m Model) renderStatsPane() string {
	stats := m.App.Stats()
	ratio := 0.0
	if stats.XPToNextLevel > 0 {
		base := (stats.Level - 1) * 1000
		span := stats.XPToNextLevel - base
		if span > 0 {
			ratio = float64(stats.XP-base) / float64(span)
		}
	}
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return views.RenderStats(views.StatsData{
		Level:          stats.Level,
		XP:             stats.XP,
		XPToNextLevel:  stats.XPToNextLevel,
		ProgressView:   m.xpBar.ViewAs(ratio),
		CurrentStreak:  stats.CurrentStreak,
		LongestStreak:  stats.LongestStreak,
		TasksCompleted: stats.TasksCompleted,
		FocusMinutes:   stats.TotalFocusTime,
		Productivity:   stats.Productivity,
	})
}

func cyclePriority(p model.Priority) model.Priority {
	switch p {
	case "":
		return model.PriorityHigh
	case model.PriorityHigh:
		return model.PriorityMedium
	case model.PriorityMedium:
		return model.PriorityLow
	default:
		return ""
	}
}

func cycleStatus(s store.StatusFilter) store.StatusFilter {
	switch s {
	case "", store.StatusAll:
		return store.StatusPending
	case store.StatusPending:
		return store.StatusCompleted
	default:
		return store.StatusAll
	}
}

func filterReset() store.Filter {
	return store.Filter{}
}

func filterDescription(f store.Filter) string {
	var parts []string
	if f.Query != "" {
		parts = append(parts, "query="+f.Query)
	}
	if f.Priority != "" {
		parts = append(parts, "prio="+string(f.Priority))
	}
	if f.Status != "" && f.Status != store.StatusAll {
		parts = append(parts, "status="+string(f.Status))
	}
	return strings.Join(parts, " ")
}
