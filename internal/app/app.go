// Package app wires storage, the task store, the gamification engine, the
// insight generator and the notification scheduler into one container and
// exposes the command surface the presentation layer calls.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"questlog/internal/config"
	"questlog/internal/gamify"
	"questlog/internal/insights"
	"questlog/internal/model"
	"questlog/internal/notify"
	"questlog/internal/scheduler"
	"questlog/internal/storage"
	"questlog/internal/store"
)

type App struct {
	cfg      config.Config
	log      *slog.Logger
	db       storage.Store
	tasks    *store.TaskStore
	engine   *gamify.Engine
	gen      *insights.Generator
	notifier notify.Notifier
	sched    *scheduler.Scheduler
	now      func() time.Time

	mu        sync.Mutex
	insights  []model.AIInsight
	settings  model.NotificationSettings
	forwardWG sync.WaitGroup
	started   bool
}

type Option func(*App)

// WithStore substitutes the persistence backend, used by tests to run on
// the in-memory store.
func WithStore(s storage.Store) Option {
	return func(a *App) { a.db = s }
}

func WithNotifier(n notify.Notifier) Option {
	return func(a *App) { a.notifier = n }
}

func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

func WithLogger(log *slog.Logger) Option {
	return func(a *App) { a.log = log }
}

// New loads every persisted document, replay-safely rebuilds the engine and
// prepares (but does not start) the scheduler.
func New(ctx context.Context, cfg config.Config, opts ...Option) (*App, error) {
	a := &App{
		cfg: cfg,
		log: slog.New(slog.DiscardHandler),
		now: func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.notifier == nil {
		if cfg.DesktopNotifications {
			a.notifier = notify.NewExecNotifier()
		} else {
			a.notifier = notify.NoopNotifier{}
		}
	}
	if a.db == nil {
		db, err := storage.OpenSQLite(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("app: open storage: %w", err)
		}
		a.db = db
	}

	tasks, err := storage.Load(ctx, a.db, storage.KeyTasks, func() []model.Task { return nil })
	if err != nil {
		return nil, fmt.Errorf("app: load tasks: %w", err)
	}
	projects, err := storage.Load(ctx, a.db, storage.KeyProjects, func() []model.Project { return nil })
	if err != nil {
		return nil, fmt.Errorf("app: load projects: %w", err)
	}
	state, err := storage.Load(ctx, a.db, storage.KeyStats, func() gamify.State { return gamify.State{} })
	if err != nil {
		return nil, fmt.Errorf("app: load stats: %w", err)
	}
	if len(state.Achievements) == 0 {
		// Older databases kept achievements under their own key.
		achievements, err := storage.Load(ctx, a.db, storage.KeyAchievements, func() []model.Achievement { return nil })
		if err != nil {
			return nil, fmt.Errorf("app: load achievements: %w", err)
		}
		state.Achievements = achievements
	}
	a.insights, err = storage.Load(ctx, a.db, storage.KeyInsights, func() []model.AIInsight { return nil })
	if err != nil {
		return nil, fmt.Errorf("app: load insights: %w", err)
	}
	a.settings, err = storage.Load(ctx, a.db, storage.KeySettings, model.DefaultNotificationSettings)
	if err != nil {
		return nil, fmt.Errorf("app: load settings: %w", err)
	}

	a.engine, err = gamify.NewEngine(state)
	if err != nil {
		return nil, fmt.Errorf("app: build engine: %w", err)
	}
	a.tasks = store.NewTaskStore(tasks, projects, a.engine, store.WithClock(a.now))
	a.engine.ObserveBacklog(a.tasks.Counts())
	a.gen = insights.NewGenerator(a.now)

	a.sched = scheduler.New(a.tasks, a.Settings, a.notifier.Permission, cfg.SchedulerBuffer,
		scheduler.WithInterval(cfg.TickInterval()),
		scheduler.WithWindow(cfg.TickWindow()),
		scheduler.WithClock(a.now),
	)

	a.log.Info("app initialized",
		"tasks", len(tasks),
		"projects", len(projects),
		"level", a.engine.Stats().Level,
	)
	return a, nil
}

// Start launches the scheduler loop. Exactly one consumer must then drain
// Reminders: either the frontend, or ForwardToNotifier in headless mode.
func (a *App) Start() {
	a.mu.Lock()
	if a.started {
		a.mu.Unlock()
		return
	}
	a.started = true
	a.mu.Unlock()
	a.sched.Start()
}

// Reminders is the scheduler output; it closes on shutdown.
func (a *App) Reminders() <-chan scheduler.Reminder {
	return a.sched.C()
}

// Deliver pushes one reminder through the notification boundary.
func (a *App) Deliver(r scheduler.Reminder) error {
	err := a.notifier.Send(notify.Reminder{
		Title:              r.Title(),
		Body:               r.Body(),
		Tag:                r.Tag,
		RequireInteraction: true,
	})
	if err != nil {
		a.log.Warn("reminder delivery failed", "tag", r.Tag, "error", err)
	}
	return err
}

// ForwardToNotifier drains reminders straight into the notifier when no
// frontend is consuming them.
func (a *App) ForwardToNotifier() {
	a.forwardWG.Add(1)
	go func() {
		defer a.forwardWG.Done()
		for r := range a.sched.C() {
			_ = a.Deliver(r)
		}
	}()
}

// Close stops the scheduler, flushes every document and closes storage.
func (a *App) Close(ctx context.Context) error {
	a.sched.Stop()
	a.forwardWG.Wait()

	var firstErr error
	keep := func(err error) {
		if err != nil && firstErr == nil {
			firstErr = err
		}
	}
	keep(a.persistTasks(ctx))
	keep(a.persistEngine(ctx))
	keep(a.persistInsights(ctx))
	keep(a.persistSettings(ctx))
	keep(a.db.Close())
	return firstErr
}

// CreateTask validates the draft, stores the task and grants the creation
// XP through the reward sink.
func (a *App) CreateTask(ctx context.Context, draft model.Draft) (model.Task, error) {
	task, err := a.tasks.Create(draft)
	if err != nil {
		return model.Task{}, err
	}
	a.afterTaskMutation(ctx)
	a.log.Info("task created", "id", task.ID, "priority", task.Priority)
	return task, nil
}

func (a *App) ToggleComplete(ctx context.Context, id string) (model.Task, bool) {
	task, ok := a.tasks.ToggleComplete(id)
	if !ok {
		return model.Task{}, false
	}
	a.afterTaskMutation(ctx)
	return task, true
}

func (a *App) DeleteTask(ctx context.Context, id string) bool {
	if !a.tasks.Delete(id) {
		return false
	}
	a.afterTaskMutation(ctx)
	a.log.Info("task deleted", "id", id)
	return true
}

func (a *App) UpdateSubtasks(ctx context.Context, id string, subtasks []model.Subtask) (model.Task, bool) {
	task, ok := a.tasks.UpdateSubtasks(id, subtasks)
	if !ok {
		return model.Task{}, false
	}
	a.afterTaskMutation(ctx)
	return task, true
}

func (a *App) DismissInsight(ctx context.Context, id string) bool {
	a.mu.Lock()
	updated, ok := insights.Dismiss(a.insights, id)
	if ok {
		a.insights = updated
	}
	a.mu.Unlock()
	if !ok {
		return false
	}
	if err := a.persistInsights(ctx); err != nil {
		a.log.Warn("persist insights failed", "error", err)
	}
	return true
}

// UpdateNotificationSettings applies a partial update and persists the
// result; the scheduler sees it on its next evaluation.
func (a *App) UpdateNotificationSettings(ctx context.Context, patch model.NotificationSettingsPatch) model.NotificationSettings {
	a.mu.Lock()
	a.settings = a.settings.Apply(patch)
	updated := a.settings
	a.mu.Unlock()

	if err := a.persistSettings(ctx); err != nil {
		a.log.Warn("persist settings failed", "error", err)
	}
	a.sched.Wake()
	return updated
}

// RequestPermission asks the delivery layer for permission. A grant also
// flips the enabled flag on, matching the opt-in flow.
func (a *App) RequestPermission(ctx context.Context) (model.Permission, error) {
	perm, err := a.notifier.RequestPermission(ctx)
	if err != nil {
		return perm, err
	}
	if perm == model.PermissionGranted {
		a.UpdateNotificationSettings(ctx, model.NotificationSettingsPatch{Enabled: boolPtr(true)})
	}
	return perm, nil
}

func (a *App) Tasks(f store.Filter) []model.Task {
	return a.tasks.Filter(f)
}

func (a *App) Task(id string) (model.Task, bool) { return a.tasks.Get(id) }

func (a *App) Projects() []model.Project { return a.tasks.Projects() }

func (a *App) Stats() model.UserStats { return a.engine.Stats() }

func (a *App) Achievements() []model.Achievement { return a.engine.Achievements() }

func (a *App) ActiveInsights() []model.AIInsight {
	a.mu.Lock()
	defer a.mu.Unlock()
	return insights.Active(a.insights)
}

func (a *App) Settings() model.NotificationSettings {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.settings
}

func (a *App) Dropped() uint64 { return a.sched.Dropped() }

// afterTaskMutation refreshes the derived state and rewrites the documents
// a task mutation can touch.
func (a *App) afterTaskMutation(ctx context.Context) {
	a.engine.ObserveBacklog(a.tasks.Counts())

	a.mu.Lock()
	a.insights = a.gen.Refresh(a.insights, a.tasks.Tasks(), a.engine.Stats())
	a.mu.Unlock()

	if err := a.persistTasks(ctx); err != nil {
		a.log.Warn("persist tasks failed", "error", err)
	}
	if err := a.persistEngine(ctx); err != nil {
		a.log.Warn("persist stats failed", "error", err)
	}
	if err := a.persistInsights(ctx); err != nil {
		a.log.Warn("persist insights failed", "error", err)
	}
	a.sched.Wake()
}

func (a *App) persistTasks(ctx context.Context) error {
	if err := a.db.Put(ctx, storage.KeyTasks, a.tasks.Tasks()); err != nil {
		return err
	}
	return a.db.Put(ctx, storage.KeyProjects, a.tasks.Projects())
}

func (a *App) persistEngine(ctx context.Context) error {
	snapshot := a.engine.Snapshot()
	if err := a.db.Put(ctx, storage.KeyStats, snapshot); err != nil {
		return err
	}
	return a.db.Put(ctx, storage.KeyAchievements, snapshot.Achievements)
}

func (a *App) persistInsights(ctx context.Context) error {
	a.mu.Lock()
	doc := make([]model.AIInsight, len(a.insights))
	copy(doc, a.insights)
	a.mu.Unlock()
	return a.db.Put(ctx, storage.KeyInsights, doc)
}

func (a *App) persistSettings(ctx context.Context) error {
	a.mu.Lock()
	doc := a.settings
	a.mu.Unlock()
	return a.db.Put(ctx, storage.KeySettings, doc)
}

func boolPtr(v bool) *bool { return &v }
