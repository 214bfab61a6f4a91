// Package update holds the bubbletea program state and the message loop for
// the terminal frontend. All domain work is delegated to the app container;
// this layer only decides what to show and which command to run next.
package update

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"

	"questlog/internal/app"
	"questlog/internal/scheduler"
	"questlog/internal/store"
)

type View string

const (
	ViewTasks        View = "Tasks"
	ViewAchievements View = "Achievements"
	ViewInsights     View = "Insights"
)

type StatusBar struct {
	Text    string
	IsError bool
}

type GlobalKeyMap struct {
	Tasks        string
	Achievements string
	Insights     string
	QuickAdd     string
	Help         string
	Quit         string
}

func DefaultKeyMap() GlobalKeyMap {
	return GlobalKeyMap{
		Tasks:        "t",
		Achievements: "g",
		Insights:     "i",
		QuickAdd:     "a",
		Help:         "?",
		Quit:         "q",
	}
}

type CommandPaletteState struct {
	Active bool
	Input  string
}

type QuickAddState struct {
	Active bool
}

type Model struct {
	App         *app.App
	CurrentView View
	Cursor      int
	Filter      store.Filter
	Palette     CommandPaletteState
	QuickAdd    QuickAddState
	ReminderLog []scheduler.Reminder
	Status      StatusBar
	Keys        GlobalKeyMap
	HelpVisible bool
	Quitting    bool

	quickAddInput textinput.Model
	commandInput  textinput.Model
	xpBar         progress.Model
	helpModel     help.Model

	now func() time.Time
}

type Option func(*Model)

func WithClock(now func() time.Time) Option {
	return func(m *Model) { m.now = now }
}

func NewModel(a *app.App, opts ...Option) Model {
	quickAdd := textinput.New()
	quickAdd.Placeholder = "title due:2026-01-02T15:00:00Z prio:high label:x"
	quickAdd.CharLimit = 200

	command := textinput.New()
	command.Placeholder = "add | done | delete | show | dismiss | mute | unmute"
	command.CharLimit = 200

	m := Model{
		App:           a,
		CurrentView:   ViewTasks,
		Keys:          DefaultKeyMap(),
		quickAddInput: quickAdd,
		commandInput:  command,
		xpBar:         progress.New(progress.WithDefaultGradient()),
		helpModel:     help.New(),
		now:           func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// helpBindings feed the bubbles help component.
func (m Model) helpBindings() [][]key.Binding {
	return [][]key.Binding{
		{
			key.NewBinding(key.WithKeys(m.Keys.Tasks), key.WithHelp(m.Keys.Tasks, "tasks")),
			key.NewBinding(key.WithKeys(m.Keys.Achievements), key.WithHelp(m.Keys.Achievements, "achievements")),
			key.NewBinding(key.WithKeys(m.Keys.Insights), key.WithHelp(m.Keys.Insights, "insights")),
		},
		{
			key.NewBinding(key.WithKeys(m.Keys.QuickAdd), key.WithHelp(m.Keys.QuickAdd, "quick add")),
			key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "command palette")),
			key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "toggle complete")),
			key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "delete task")),
		},
		{
			key.NewBinding(key.WithKeys(m.Keys.Help), key.WithHelp(m.Keys.Help, "help")),
			key.NewBinding(key.WithKeys(m.Keys.Quit), key.WithHelp(m.Keys.Quit, "quit")),
		},
	}
}
