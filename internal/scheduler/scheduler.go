// Package scheduler decides which deadline reminders fire on each tick. It
// polls a snapshot of open tasks against the clock, emits at most one
// reminder per (task, lead time) pair per session and suppresses everything
// while reminders are disabled or permission is missing.
package scheduler

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"questlog/internal/model"
)

const (
	DefaultTickInterval = time.Minute
	DefaultTickWindow   = 5 * time.Minute
)

// leadTimes are the fixed reminder offsets, largest first.
var leadTimes = []struct {
	offset time.Duration
	label  string
}{
	{24 * time.Hour, "24h"},
	{time.Hour, "1h"},
	{15 * time.Minute, "15m"},
}

// Reminder is one due notification decision. Tag is the session-scoped
// dedupe key: task:{id}:{lead} or task:{id}:overdue.
type Reminder struct {
	TaskID    string
	TaskTitle string
	Priority  model.Priority
	Tag       string
	Lead      time.Duration
	Overdue   bool
	At        time.Time
}

func (r Reminder) Title() string {
	if r.Overdue {
		return fmt.Sprintf("Task Overdue: %s", r.TaskTitle)
	}
	return fmt.Sprintf("Task Reminder: %s", r.TaskTitle)
}

func (r Reminder) Body() string {
	if r.Overdue {
		return fmt.Sprintf("This task is now overdue. Priority: %s", r.Priority)
	}
	return fmt.Sprintf("Due in %s - %s", leadLabel(r.Lead), r.TaskTitle)
}

// TaskSource supplies a consistent snapshot of the open tasks.
type TaskSource interface {
	OpenTasks() []model.Task
}

// Scheduler owns the recurring evaluation loop. Construction does not start
// it; Start and Stop are idempotent and Stop waits for the loop to drain.
type Scheduler struct {
	mu       sync.Mutex
	tasks    TaskSource
	settings func() model.NotificationSettings
	perm     func() model.Permission
	now      func() time.Time

	interval time.Duration
	window   time.Duration

	fired   map[string]bool
	out     chan Reminder
	wakeup  chan struct{}
	stopCh  chan struct{}
	doneCh  chan struct{}
	started bool
	stopped bool
	dropped uint64
}

type Option func(*Scheduler)

func WithInterval(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.interval = d
		}
	}
}

func WithWindow(d time.Duration) Option {
	return func(s *Scheduler) {
		if d > 0 {
			s.window = d
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) { s.now = now }
}

func New(tasks TaskSource, settings func() model.NotificationSettings, perm func() model.Permission, bufferSize int, opts ...Option) *Scheduler {
	if bufferSize <= 0 {
		bufferSize = 1
	}
	s := &Scheduler{
		tasks:    tasks,
		settings: settings,
		perm:     perm,
		now:      func() time.Time { return time.Now().UTC() },
		interval: DefaultTickInterval,
		window:   DefaultTickWindow,
		fired:    make(map[string]bool),
		out:      make(chan Reminder, bufferSize),
		wakeup:   make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// C is the reminder output channel; it closes when the loop exits.
func (s *Scheduler) C() <-chan Reminder {
	return s.out
}

func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	go s.loop()
}

func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	close(s.stopCh)
	s.mu.Unlock()
	<-s.doneCh
}

// Wake forces an immediate re-evaluation, used when tasks or settings
// change between ticks.
func (s *Scheduler) Wake() {
	select {
	case s.wakeup <- struct{}{}:
	default:
	}
}

func (s *Scheduler) Dropped() uint64 {
	return atomic.LoadUint64(&s.dropped)
}

func (s *Scheduler) loop() {
	defer close(s.doneCh)
	defer close(s.out)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.emit(s.Tick(s.now()))
		case <-s.wakeup:
			s.emit(s.Tick(s.now()))
		case <-s.stopCh:
			return
		}
	}
}

func (s *Scheduler) emit(reminders []Reminder) {
	for _, r := range reminders {
		select {
		case s.out <- r:
		default:
			atomic.AddUint64(&s.dropped, 1)
		}
	}
}

// Tick evaluates all open tasks at the given instant and records the tags
// it decides to fire. Exported so the loop, tests and a manual refresh all
// share one code path.
func (s *Scheduler) Tick(now time.Time) []Reminder {
	settings := s.settings()
	if !settings.Enabled || !settings.DeadlineReminders {
		return nil
	}
	if s.perm() != model.PermissionGranted {
		return nil
	}

	tasks := s.tasks.OpenTasks()

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Reminder, 0, 4)
	for _, task := range tasks {
		if task.DueDate.IsZero() {
			continue
		}
		timeUntilDue := task.DueDate.Sub(now)

		for _, lead := range leadTimes {
			delta := timeUntilDue - lead.offset
			if delta <= 0 || delta > s.window {
				continue
			}
			tag := fmt.Sprintf("task:%s:%s", task.ID, lead.label)
			if s.fired[tag] {
				continue
			}
			s.fired[tag] = true
			out = append(out, Reminder{
				TaskID:    task.ID,
				TaskTitle: task.Title,
				Priority:  task.Priority,
				Tag:       tag,
				Lead:      lead.offset,
				At:        now,
			})
		}

		// One-time overdue notification when the deadline passed within
		// the last tick window.
		if timeUntilDue < 0 && timeUntilDue >= -s.window {
			tag := fmt.Sprintf("task:%s:overdue", task.ID)
			if s.fired[tag] {
				continue
			}
			s.fired[tag] = true
			out = append(out, Reminder{
				TaskID:    task.ID,
				TaskTitle: task.Title,
				Priority:  task.Priority,
				Tag:       tag,
				Overdue:   true,
				At:        now,
			})
		}
	}
	return out
}

func leadLabel(d time.Duration) string {
	switch d {
	case 24 * time.Hour:
		return "24 hours"
	case time.Hour:
		return "1 hour"
	case 15 * time.Minute:
		return "15 minutes"
	default:
		return d.String()
	}
}
