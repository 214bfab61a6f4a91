package gamify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"questlog/internal/model"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(State{})
	require.NoError(t, err)
	return engine
}

func TestAwardXPTable(t *testing.T) {
	assert.Equal(t, 100, AwardXP(model.PriorityHigh))
	assert.Equal(t, 75, AwardXP(model.PriorityMedium))
	assert.Equal(t, 50, AwardXP(model.PriorityLow))
}

func TestTaskCompletedGrantsOnce(t *testing.T) {
	engine := newTestEngine(t)
	at := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	ev := CompletionEvent{TaskID: "t1", Priority: model.PriorityHigh, At: at}
	engine.TaskCompleted(ev)

	stats := engine.Stats()
	assert.Equal(t, 100, stats.XP)
	assert.Equal(t, 1, stats.TasksCompleted)

	// Complete, un-complete, re-complete: the replayed event must change
	// nothing.
	engine.TaskCompleted(ev)
	engine.TaskCompleted(ev)
	stats = engine.Stats()
	assert.Equal(t, 100, stats.XP)
	assert.Equal(t, 1, stats.TasksCompleted)
}

func TestTaskCreatedGrantsOnce(t *testing.T) {
	engine := newTestEngine(t)
	engine.TaskCreated("t1")
	engine.TaskCreated("t1")
	assert.Equal(t, 50, engine.Stats().XP)

	engine.TaskCreated("t2")
	assert.Equal(t, 100, engine.Stats().XP)
}

func TestLevelIsMonotonicAndThresholdTracks(t *testing.T) {
	engine := newTestEngine(t)
	at := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	stats := engine.Stats()
	require.Equal(t, 1, stats.Level)
	require.Equal(t, 1000, stats.XPToNextLevel)

	// 11 high completions cross the 1000 XP boundary.
	for i := 0; i < 11; i++ {
		engine.TaskCompleted(CompletionEvent{
			TaskID:   string(rune('a' + i)),
			Priority: model.PriorityHigh,
			At:       at,
		})
	}
	stats = engine.Stats()
	assert.Equal(t, 1100, stats.XP)
	assert.Equal(t, 2, stats.Level)
	assert.Equal(t, 2000, stats.XPToNextLevel)

	// A seeded level above the computed one never drops.
	seeded, err := NewEngine(State{Stats: model.UserStats{Level: 12, XP: 500}})
	require.NoError(t, err)
	seeded.TaskCompleted(CompletionEvent{TaskID: "x", Priority: model.PriorityLow, At: at})
	assert.Equal(t, 12, seeded.Stats().Level)
	assert.Equal(t, 12000, seeded.Stats().XPToNextLevel)
}

func TestStreakAdvancesOncePerDay(t *testing.T) {
	engine := newTestEngine(t)
	day1 := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)

	// Five completions in one day still count as a streak of one.
	for i := 0; i < 5; i++ {
		engine.TaskCompleted(CompletionEvent{
			TaskID:   string(rune('a' + i)),
			Priority: model.PriorityLow,
			At:       day1.Add(time.Duration(i) * time.Hour),
		})
	}
	assert.Equal(t, 1, engine.Stats().CurrentStreak)

	// Next-day completion extends the streak.
	engine.TaskCompleted(CompletionEvent{TaskID: "f", Priority: model.PriorityLow, At: day1.AddDate(0, 0, 1)})
	assert.Equal(t, 2, engine.Stats().CurrentStreak)

	// Skipping a day resets to one; longest streak is retained.
	engine.TaskCompleted(CompletionEvent{TaskID: "g", Priority: model.PriorityLow, At: day1.AddDate(0, 0, 4)})
	stats := engine.Stats()
	assert.Equal(t, 1, stats.CurrentStreak)
	assert.Equal(t, 2, stats.LongestStreak)
}

func TestObserveBacklogDerivesProductivity(t *testing.T) {
	engine := newTestEngine(t)
	engine.ObserveBacklog(3, 4)
	assert.Equal(t, 75, engine.Stats().Productivity)

	engine.ObserveBacklog(0, 0)
	assert.Equal(t, 0, engine.Stats().Productivity)
}

func TestAddFocusTime(t *testing.T) {
	engine := newTestEngine(t)
	engine.AddFocusTime(25)
	engine.AddFocusTime(-5)
	assert.Equal(t, 25, engine.Stats().TotalFocusTime)
}

func TestCompletionAccumulatesFocusTime(t *testing.T) {
	engine := newTestEngine(t)
	at := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	ev := CompletionEvent{TaskID: "t1", Priority: model.PriorityLow, At: at, Minutes: 45}
	engine.TaskCompleted(ev)
	engine.TaskCompleted(ev)
	assert.Equal(t, 45, engine.Stats().TotalFocusTime)
}

func TestSnapshotRoundTrip(t *testing.T) {
	engine := newTestEngine(t)
	at := time.Date(2026, 8, 10, 9, 0, 0, 0, time.UTC)
	engine.TaskCreated("t1")
	engine.TaskCompleted(CompletionEvent{TaskID: "t1", Priority: model.PriorityHigh, At: at, BeforeDue: true})

	restored, err := NewEngine(engine.Snapshot())
	require.NoError(t, err)

	// Replaying the already-applied events against the restored engine is
	// a no-op.
	restored.TaskCreated("t1")
	restored.TaskCompleted(CompletionEvent{TaskID: "t1", Priority: model.PriorityHigh, At: at, BeforeDue: true})
	assert.Equal(t, engine.Stats(), restored.Stats())
	assert.Equal(t, engine.Achievements(), restored.Achievements())
}
