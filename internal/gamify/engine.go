// Package gamify turns task events into XP, levels, streaks and
// achievement unlocks. Rewards are at-most-once per task: a per-task ledger
// guards both the creation grant and the completion grant, so replaying an
// event log after the first application changes nothing.
package gamify

import (
	"sync"
	"time"

	"questlog/internal/model"
)

const (
	xpPerLevel       = 1000
	xpTaskCreated    = 50
	xpCompleteHigh   = 100
	xpCompleteMedium = 75
	xpCompleteLow    = 50

	dayLayout = "2006-01-02"
)

// CompletionEvent records one false→true completion transition.
type CompletionEvent struct {
	TaskID    string
	Priority  model.Priority
	At        time.Time
	BeforeDue bool
	Minutes   int
}

// State is the persistable engine snapshot: visible stats plus the internal
// counters and ledgers that keep reward application idempotent.
type State struct {
	Stats            model.UserStats     `json:"stats"`
	Achievements     []model.Achievement `json:"achievements"`
	RewardedTasks    []string            `json:"rewarded_tasks"`
	CreationRewarded []string            `json:"creation_rewarded"`
	CompletionsToday int                 `json:"completions_today"`
	EarlyCompletions int                 `json:"early_completions"`
}

type Engine struct {
	mu               sync.Mutex
	stats            model.UserStats
	achievements     []model.Achievement
	catalog          map[string]CatalogEntry
	rewarded         map[string]bool
	creationRewarded map[string]bool
	completionsToday int
	earlyCompletions int
}

// NewEngine builds an engine over the embedded catalog. A zero-value state
// starts at level 1 with everything locked.
func NewEngine(state State) (*Engine, error) {
	catalog, err := LoadCatalog()
	if err != nil {
		return nil, err
	}
	e := &Engine{
		stats:            state.Stats,
		achievements:     state.Achievements,
		catalog:          make(map[string]CatalogEntry, len(catalog)),
		rewarded:         make(map[string]bool, len(state.RewardedTasks)),
		creationRewarded: make(map[string]bool, len(state.CreationRewarded)),
		completionsToday: state.CompletionsToday,
		earlyCompletions: state.EarlyCompletions,
	}
	for _, entry := range catalog {
		e.catalog[entry.ID] = entry
	}
	if e.stats.Level < 1 {
		e.stats.Level = 1
	}
	if e.stats.XPToNextLevel == 0 {
		e.stats.XPToNextLevel = xpPerLevel * e.stats.Level
	}
	if len(e.achievements) == 0 {
		e.achievements = seedAchievements(catalog)
	}
	for _, id := range state.RewardedTasks {
		e.rewarded[id] = true
	}
	for _, id := range state.CreationRewarded {
		e.creationRewarded[id] = true
	}
	return e, nil
}

// AwardXP returns the completion grant for a priority.
func AwardXP(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return xpCompleteHigh
	case model.PriorityMedium:
		return xpCompleteMedium
	default:
		return xpCompleteLow
	}
}

// TaskCreated grants the flat engagement XP, once per task id.
func (e *Engine) TaskCreated(taskID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if taskID == "" || e.creationRewarded[taskID] {
		return
	}
	e.creationRewarded[taskID] = true
	e.grantXP(xpTaskCreated)
}

// TaskCompleted applies one completion transition. Re-delivery for a task
// that has already been rewarded is a no-op.
func (e *Engine) TaskCompleted(ev CompletionEvent) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if ev.TaskID == "" || e.rewarded[ev.TaskID] {
		return
	}
	e.rewarded[ev.TaskID] = true

	e.grantXP(AwardXP(ev.Priority))
	e.stats.TasksCompleted++
	e.advanceStreak(ev.At)
	if ev.BeforeDue {
		e.earlyCompletions++
	}
	if ev.Minutes > 0 {
		e.stats.TotalFocusTime += ev.Minutes
	}
	e.evaluateAchievements(ev.At)
}

// AddFocusTime accumulates focus minutes into the stats record.
func (e *Engine) AddFocusTime(minutes int) {
	if minutes <= 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stats.TotalFocusTime += minutes
}

// ObserveBacklog recomputes the derived productivity percentage from the
// current completed/total task counts.
func (e *Engine) ObserveBacklog(completed, total int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if total <= 0 {
		e.stats.Productivity = 0
		return
	}
	e.stats.Productivity = completed * 100 / total
}

func (e *Engine) Stats() model.UserStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

func (e *Engine) Achievements() []model.Achievement {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]model.Achievement, len(e.achievements))
	copy(out, e.achievements)
	return out
}

// Snapshot returns the persistable state.
func (e *Engine) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	rewarded := make([]string, 0, len(e.rewarded))
	for id := range e.rewarded {
		rewarded = append(rewarded, id)
	}
	created := make([]string, 0, len(e.creationRewarded))
	for id := range e.creationRewarded {
		created = append(created, id)
	}
	achievements := make([]model.Achievement, len(e.achievements))
	copy(achievements, e.achievements)
	return State{
		Stats:            e.stats,
		Achievements:     achievements,
		RewardedTasks:    rewarded,
		CreationRewarded: created,
		CompletionsToday: e.completionsToday,
		EarlyCompletions: e.earlyCompletions,
	}
}

// grantXP adds xp and recomputes the level. Level never decreases;
// xpToNextLevel is the threshold for the level after the current one.
func (e *Engine) grantXP(amount int) {
	e.stats.XP += amount
	computed := e.stats.XP/xpPerLevel + 1
	if computed > e.stats.Level {
		e.stats.Level = computed
	}
	e.stats.XPToNextLevel = xpPerLevel * e.stats.Level
}

// advanceStreak applies calendar-day streak semantics: at most one increment
// per UTC day with a completion, reset after a completion-free day.
func (e *Engine) advanceStreak(at time.Time) {
	day := at.UTC().Format(dayLayout)
	switch e.stats.LastCompletionDay {
	case day:
		e.completionsToday++
	case previousDay(at):
		e.stats.CurrentStreak++
		e.completionsToday = 1
	default:
		e.stats.CurrentStreak = 1
		e.completionsToday = 1
	}
	e.stats.LastCompletionDay = day
	if e.stats.CurrentStreak > e.stats.LongestStreak {
		e.stats.LongestStreak = e.stats.CurrentStreak
	}
}

func previousDay(at time.Time) string {
	return at.UTC().AddDate(0, 0, -1).Format(dayLayout)
}

func (e *Engine) metricValue(metric Metric) int {
	switch metric {
	case MetricTasksCompleted:
		return e.stats.TasksCompleted
	case MetricStreakDays:
		return e.stats.CurrentStreak
	case MetricCompletionsInDay:
		return e.completionsToday
	case MetricEarlyCompletions:
		return e.earlyCompletions
	default:
		return 0
	}
}

// evaluateAchievements advances progress for trackable achievements and
// fires binary predicates. Unlock happens at most once: once unlockedAt is
// set the entry is skipped forever and its progress pair is dropped.
func (e *Engine) evaluateAchievements(now time.Time) {
	for i := range e.achievements {
		ach := &e.achievements[i]
		if ach.Unlocked() {
			continue
		}
		entry, ok := e.catalog[ach.ID]
		if !ok {
			continue
		}
		value := e.metricValue(entry.Metric)
		if ach.Progress != nil && ach.MaxProgress != nil {
			progress := value
			if progress > *ach.MaxProgress {
				progress = *ach.MaxProgress
			}
			if progress > *ach.Progress {
				*ach.Progress = progress
			}
			if *ach.Progress < *ach.MaxProgress {
				continue
			}
		} else if value < entry.Target {
			continue
		}
		at := now.UTC()
		ach.UnlockedAt = &at
		ach.Progress = nil
		ach.MaxProgress = nil
	}
}
