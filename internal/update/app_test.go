package update

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"questlog/internal/app"
	"questlog/internal/config"
	"questlog/internal/model"
	"questlog/internal/notify"
	"questlog/internal/scheduler"
	"questlog/internal/storage"
	"questlog/internal/store"
)

var uiNow = time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)

func newUITestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.Default()
	cfg.DBPath = "unused"
	a, err := app.New(context.Background(), cfg,
		app.WithStore(storage.NewMemoryStore()),
		app.WithNotifier(notify.NoopNotifier{}),
		app.WithClock(func() time.Time { return uiNow }),
	)
	if err != nil {
		t.Fatalf("build app: %v", err)
	}
	return NewModel(a, WithClock(func() time.Time { return uiNow }))
}

func reminderFixture(tag string) scheduler.Reminder {
	return scheduler.Reminder{
		TaskID:    "1",
		TaskTitle: "fixture",
		Priority:  model.PriorityMedium,
		Tag:       tag,
		Lead:      time.Hour,
		At:        uiNow,
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeString(t *testing.T, m Model, s string) Model {
	t.Helper()
	for _, r := range s {
		updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
		m = updated.(Model)
	}
	return m
}

func TestNewModelDefaults(t *testing.T) {
	m := newUITestModel(t)
	if m.CurrentView != ViewTasks {
		t.Fatalf("expected default view %q, got %q", ViewTasks, m.CurrentView)
	}
	if m.Keys.Quit != "q" {
		t.Fatalf("expected quit key q, got %q", m.Keys.Quit)
	}
}

func TestUpdateKeySwitchesView(t *testing.T) {
	m := newUITestModel(t)
	updated, _ := m.Update(keyRunes("g"))
	next := updated.(Model)
	if next.CurrentView != ViewAchievements {
		t.Fatalf("expected achievements view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyRunes("i"))
	next = updated.(Model)
	if next.CurrentView != ViewInsights {
		t.Fatalf("expected insights view, got %q", next.CurrentView)
	}

	updated, _ = next.Update(keyRunes("t"))
	next = updated.(Model)
	if next.CurrentView != ViewTasks {
		t.Fatalf("expected tasks view, got %q", next.CurrentView)
	}
}

func TestUpdateQuitKey(t *testing.T) {
	m := newUITestModel(t)
	updated, cmd := m.Update(keyRunes("q"))
	next := updated.(Model)
	if !next.Quitting {
		t.Fatal("expected quitting flag true")
	}
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}

func TestQuickAddCreatesTask(t *testing.T) {
	m := newUITestModel(t)
	updated, _ := m.Update(keyRunes("a"))
	m = updated.(Model)
	if !m.QuickAdd.Active {
		t.Fatal("expected quick add active")
	}

	m = typeString(t, m, "pay rent due:+48h prio:high")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.QuickAdd.Active {
		t.Fatal("expected quick add closed after enter")
	}
	tasks := m.App.Tasks(store.Filter{})
	if len(tasks) != 1 {
		t.Fatalf("expected 1 task, got %d", len(tasks))
	}
	if tasks[0].Title != "pay rent" || tasks[0].Priority != model.PriorityHigh {
		t.Fatalf("unexpected task: %+v", tasks[0])
	}
	if !tasks[0].DueDate.Equal(uiNow.Add(48 * time.Hour)) {
		t.Fatalf("unexpected due date: %v", tasks[0].DueDate)
	}
}

func TestQuickAddRejectsBadDue(t *testing.T) {
	m := newUITestModel(t)
	updated, _ := m.Update(keyRunes("a"))
	m = updated.(Model)
	m = typeString(t, m, "thing due:whenever")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
	if len(m.App.Tasks(store.Filter{})) != 0 {
		t.Fatal("expected no task created")
	}
}

func TestTaskKeysToggleAndDelete(t *testing.T) {
	m := newUITestModel(t)
	task, err := m.App.CreateTask(context.Background(), model.Draft{
		Title: "ship", Priority: model.PriorityMedium, DueDate: uiNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	got, _ := m.App.Task(task.ID)
	if !got.Completed {
		t.Fatal("expected task completed after enter")
	}

	updated, _ = m.Update(keyRunes("x"))
	m = updated.(Model)
	if len(m.App.Tasks(store.Filter{})) != 0 {
		t.Fatal("expected task deleted")
	}
}

func TestPaletteDoneCommand(t *testing.T) {
	m := newUITestModel(t)
	task, err := m.App.CreateTask(context.Background(), model.Draft{
		Title: "report", Priority: model.PriorityHigh, DueDate: uiNow.Add(time.Hour),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, _ := m.Update(keyRunes("/"))
	m = updated.(Model)
	if !m.Palette.Active {
		t.Fatal("expected palette active")
	}
	m = typeString(t, m, "done "+task.ID)
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)

	if m.Palette.Active {
		t.Fatal("expected palette closed")
	}
	if m.Status.IsError {
		t.Fatalf("unexpected error status: %+v", m.Status)
	}
	got, _ := m.App.Task(task.ID)
	if !got.Completed {
		t.Fatal("expected task completed via palette")
	}
}

func TestPaletteMuteUnmute(t *testing.T) {
	m := newUITestModel(t)

	updated, _ := m.Update(keyRunes("/"))
	m = updated.(Model)
	m = typeString(t, m, "unmute")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.App.Settings().Enabled {
		t.Fatal("expected notifications enabled")
	}

	updated, _ = m.Update(keyRunes("/"))
	m = updated.(Model)
	m = typeString(t, m, "mute")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if m.App.Settings().Enabled {
		t.Fatal("expected notifications muted")
	}
}

func TestPaletteUnknownCommandSetsErrorStatus(t *testing.T) {
	m := newUITestModel(t)
	updated, _ := m.Update(keyRunes("/"))
	m = updated.(Model)
	m = typeString(t, m, "frobnicate")
	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = updated.(Model)
	if !m.Status.IsError {
		t.Fatalf("expected error status, got %+v", m.Status)
	}
}

func TestReminderMsgAppendsLogAndRearms(t *testing.T) {
	m := newUITestModel(t)
	updated, cmd := m.Update(ReminderMsg{Reminder: reminderFixture("task:1:1h")})
	m = updated.(Model)
	if len(m.ReminderLog) != 1 {
		t.Fatalf("expected 1 logged reminder, got %d", len(m.ReminderLog))
	}
	if cmd == nil {
		t.Fatal("expected re-armed wait command")
	}

	updated, cmd = m.Update(ReminderMsg{Closed: true})
	m = updated.(Model)
	if cmd != nil {
		t.Fatal("expected no command after channel close")
	}
}

func TestViewRendersCorePieces(t *testing.T) {
	m := newUITestModel(t)
	if _, err := m.App.CreateTask(context.Background(), model.Draft{
		Title: "render me", Priority: model.PriorityLow, DueDate: uiNow.Add(30 * time.Minute),
	}); err != nil {
		t.Fatalf("create: %v", err)
	}

	out := m.View()
	if !strings.Contains(out, "questlog") {
		t.Fatal("expected header in view output")
	}
	if !strings.Contains(out, "render me") {
		t.Fatal("expected task title in view output")
	}
	if !strings.Contains(out, "Level 1") {
		t.Fatal("expected stats pane in view output")
	}
}

func TestParseDue(t *testing.T) {
	cases := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"", uiNow.Add(24 * time.Hour), false},
		{"+90m", uiNow.Add(90 * time.Minute), false},
		{"2026-07-01T12:00:00Z", time.Date(2026, 7, 1, 12, 0, 0, 0, time.UTC), false},
		{"2026-07-01", time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), false},
		{"soonish", time.Time{}, true},
		{"+later", time.Time{}, true},
	}
	for _, tc := range cases {
		got, err := parseDue(tc.in, uiNow)
		if tc.wantErr {
			if err == nil {
				t.Fatalf("parseDue(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Fatalf("parseDue(%q): %v", tc.in, err)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("parseDue(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}
