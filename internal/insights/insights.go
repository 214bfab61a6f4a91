// Package insights derives advisory cards from the current task list and
// user stats. Rules are deterministic: the same inputs always produce
// insights with the same ids, so regeneration never resurrects a card the
// user already dismissed.
package insights

import (
	"fmt"
	"sort"
	"time"

	"questlog/internal/model"
	"questlog/internal/timeutil"
)

const maxActive = 3

// Generator evaluates the advisory rules against a task snapshot.
type Generator struct {
	now func() time.Time
}

func NewGenerator(now func() time.Time) *Generator {
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	return &Generator{now: now}
}

// Refresh merges newly derived insights into the existing set. Dismissed
// entries are kept so their ids stay burned; stale undismissed entries whose
// rule no longer applies are removed.
func (g *Generator) Refresh(existing []model.AIInsight, tasks []model.Task, stats model.UserStats) []model.AIInsight {
	derived := g.derive(tasks, stats)

	dismissed := make(map[string]bool, len(existing))
	for _, in := range existing {
		if in.Dismissed {
			dismissed[in.ID] = true
		}
	}

	out := make([]model.AIInsight, 0, len(existing)+len(derived))
	for _, in := range existing {
		if in.Dismissed {
			out = append(out, in)
		}
	}
	for _, in := range derived {
		if !dismissed[in.ID] {
			out = append(out, in)
		}
	}
	return out
}

// Active returns the undismissed insights shown to the user, newest and
// highest priority first, capped at three.
func Active(insights []model.AIInsight) []model.AIInsight {
	out := make([]model.AIInsight, 0, maxActive)
	for _, in := range insights {
		if !in.Dismissed {
			out = append(out, in)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if pi, pj := priorityRank(out[i].Priority), priorityRank(out[j].Priority); pi != pj {
			return pi < pj
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > maxActive {
		out = out[:maxActive]
	}
	return out
}

// Dismiss marks the insight with the given id. Returns false when no
// insight carries that id.
func Dismiss(insights []model.AIInsight, id string) ([]model.AIInsight, bool) {
	out := make([]model.AIInsight, len(insights))
	copy(out, insights)
	for i := range out {
		if out[i].ID == id {
			out[i].Dismissed = true
			return out, true
		}
	}
	return out, false
}

func (g *Generator) derive(tasks []model.Task, stats model.UserStats) []model.AIInsight {
	now := g.now()
	var out []model.AIInsight

	highOpen := 0
	for _, t := range tasks {
		if t.Completed {
			continue
		}
		if t.Priority == model.PriorityHigh {
			highOpen++
		}
		if t.DueDate.IsZero() {
			continue
		}
		b := timeutil.Remaining(now, t.DueDate)
		if b.IsOverdue || b.Days >= 1 {
			continue
		}
		out = append(out, model.AIInsight{
			ID:         fmt.Sprintf("insight:deadline:%s", t.ID),
			Type:       model.InsightDeadlineWarning,
			Title:      fmt.Sprintf("Urgent: %s Due Soon", t.Title),
			Message:    fmt.Sprintf("%q is due in less than 24 hours. Consider breaking it into smaller tasks to complete it on time.", t.Title),
			Priority:   model.PriorityHigh,
			CreatedAt:  now,
			Actionable: true,
		})
	}

	if highOpen >= 3 {
		out = append(out, model.AIInsight{
			ID:         "insight:balance:high-priority",
			Type:       model.InsightScheduleOptimization,
			Title:      "Schedule Optimization",
			Message:    fmt.Sprintf("You have %d high-priority tasks open. Consider redistributing them across different days for better balance.", highOpen),
			Priority:   model.PriorityLow,
			CreatedAt:  now,
			Actionable: true,
		})
	}

	if stats.CurrentStreak >= 3 {
		out = append(out, model.AIInsight{
			ID:         "insight:streak:momentum",
			Type:       model.InsightProductivityTip,
			Title:      "Productivity Boost Suggestion",
			Message:    fmt.Sprintf("You are on a %d-day completion streak. Schedule your high-priority tasks during your peak hours to keep the momentum.", stats.CurrentStreak),
			Priority:   model.PriorityMedium,
			CreatedAt:  now,
			Actionable: true,
		})
	}

	if over, total := overEstimate(tasks); total >= 3 && over*2 > total {
		out = append(out, model.AIInsight{
			ID:         "insight:estimates:overrun",
			Type:       model.InsightTimeAllocation,
			Title:      "Estimates Running Over",
			Message:    fmt.Sprintf("%d of your last %d completed tasks took longer than estimated. Try padding estimates or splitting work earlier.", over, total),
			Priority:   model.PriorityMedium,
			CreatedAt:  now,
			Actionable: true,
		})
	}

	return out
}

// overEstimate counts completed tasks whose actual time exceeded the
// estimate, among those that carry both durations. Zero means unset.
func overEstimate(tasks []model.Task) (over, total int) {
	for _, t := range tasks {
		if !t.Completed || t.EstimatedMinutes == 0 || t.ActualMinutes == 0 {
			continue
		}
		total++
		if t.ActualMinutes > t.EstimatedMinutes {
			over++
		}
	}
	return over, total
}

func priorityRank(p model.Priority) int {
	switch p {
	case model.PriorityHigh:
		return 0
	case model.PriorityMedium:
		return 1
	default:
		return 2
	}
}
