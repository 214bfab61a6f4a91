package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"questlog/internal/timeutil"
)

type TaskRowData struct {
	ID        string
	Title     string
	Priority  string
	Countdown timeutil.Breakdown
	Completed bool
	Labels    []string
	Subtasks  string
}

type TaskListData struct {
	Rows       []TaskRowData
	Cursor     int
	FilterDesc string
	Empty      string
}

type StatsData struct {
	Level          int
	XP             int
	XPToNextLevel  int
	ProgressView   string
	CurrentStreak  int
	LongestStreak  int
	TasksCompleted int
	FocusMinutes   int
	Productivity   int
}

type AchievementRowData struct {
	Icon        string
	Title       string
	Description string
	Unlocked    bool
	Progress    string
}

type InsightRowData struct {
	ID       string
	Title    string
	Message  string
	Priority string
}

var (
	criticalStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	warningStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	cautionStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	doneStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Strikethrough(true)
	selectedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("14"))
	lockedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	unlockedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	insightStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	statsHdrStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("13"))
	dimdetailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
)

// FormatCountdown renders a breakdown in the compact list form.
func FormatCountdown(b timeutil.Breakdown) string {
	if b.IsOverdue {
		return "OVERDUE"
	}
	switch {
	case b.Days > 0:
		return fmt.Sprintf("%dd %dh", b.Days, b.Hours)
	case b.Hours > 0:
		return fmt.Sprintf("%dh %dm", b.Hours, b.Minutes)
	default:
		return fmt.Sprintf("%dm %ds", b.Minutes, b.Seconds)
	}
}

func RenderTaskList(data TaskListData) string {
	if len(data.Rows) == 0 {
		msg := data.Empty
		if msg == "" {
			msg = "no tasks - press 'a' to add one"
		}
		return dimdetail(msg)
	}

	var b strings.Builder
	if data.FilterDesc != "" {
		b.WriteString(dimdetail("filter: "+data.FilterDesc) + "\n")
	}
	for i, row := range data.Rows {
		cursor := "  "
		if i == data.Cursor {
			cursor = "> "
		}
		check := "[ ]"
		if row.Completed {
			check = "[x]"
		}

		countdown := FormatCountdown(row.Countdown)
		line := fmt.Sprintf("%s%s %-34s %s %s", cursor, check, truncate(row.Title, 34), countdown, priorityBadge(row.Priority))
		if row.Subtasks != "" {
			line += " " + dimdetail(row.Subtasks)
		}

		switch {
		case row.Completed:
			line = doneStyle.Render(line)
		case i == data.Cursor:
			line = selectedStyle.Render(line)
		default:
			line = urgencyStyle(row.Countdown).Render(line)
		}
		b.WriteString(line + "\n")

		if len(row.Labels) > 0 && i == data.Cursor {
			b.WriteString("      " + dimdetail("#"+strings.Join(row.Labels, " #")) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderStats(data StatsData) string {
	var b strings.Builder
	b.WriteString(statsHdrStyle.Render(fmt.Sprintf("Level %d", data.Level)) + "\n")
	b.WriteString(fmt.Sprintf("XP %d / %d\n", data.XP, data.XPToNextLevel))
	if data.ProgressView != "" {
		b.WriteString(data.ProgressView + "\n")
	}
	b.WriteString(fmt.Sprintf("streak: %d (best %d) | done: %d | focus: %dm | productivity: %d%%",
		data.CurrentStreak, data.LongestStreak, data.TasksCompleted, data.FocusMinutes, data.Productivity))
	return b.String()
}

func RenderAchievements(rows []AchievementRowData) string {
	if len(rows) == 0 {
		return dimdetail("no achievements yet")
	}
	var b strings.Builder
	for _, row := range rows {
		line := fmt.Sprintf("%s %s", row.Icon, row.Title)
		if row.Progress != "" {
			line += " " + row.Progress
		}
		if row.Unlocked {
			b.WriteString(unlockedStyle.Render(line))
		} else {
			b.WriteString(lockedStyle.Render(line))
		}
		b.WriteString("\n" + "   " + dimdetail(truncate(row.Description, 40)) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func RenderInsights(rows []InsightRowData) string {
	if len(rows) == 0 {
		return dimdetail("no active insights")
	}
	var b strings.Builder
	for _, row := range rows {
		b.WriteString(insightStyle.Render(fmt.Sprintf("[%s] %s", row.Priority, row.Title)) + "\n")
		b.WriteString("   " + truncate(row.Message, 42) + "\n")
		b.WriteString("   " + dimdetail("dismiss: /dismiss "+row.ID) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func urgencyStyle(b timeutil.Breakdown) lipgloss.Style {
	switch timeutil.UrgencyOf(b) {
	case timeutil.UrgencyCritical:
		return criticalStyle
	case timeutil.UrgencyWarning:
		return warningStyle
	case timeutil.UrgencyCaution:
		return cautionStyle
	default:
		return lipgloss.NewStyle()
	}
}

func priorityBadge(p string) string {
	switch p {
	case "high":
		return criticalStyle.Render("!!!")
	case "medium":
		return warningStyle.Render("!!")
	default:
		return dimdetail("!")
	}
}

func dimdetail(s string) string {
	return dimdetailStyle.Render(s)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 1 {
		return s[:max]
	}
	return s[:max-1] + "…"
}
