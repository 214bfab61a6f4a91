package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidAchievementType = errors.New("model: invalid achievement type")

// UserStats is the single per-session progress record. It is mutated only
// by the gamification engine.
type UserStats struct {
	Level          int `json:"level"`
	XP             int `json:"xp"`
	XPToNextLevel  int `json:"xp_to_next_level"`
	TasksCompleted int `json:"tasks_completed"`
	CurrentStreak  int `json:"current_streak"`
	LongestStreak  int `json:"longest_streak"`
	TotalFocusTime int `json:"total_focus_time"`
	Productivity   int `json:"productivity"`

	// LastCompletionDay is the UTC calendar day (YYYY-MM-DD) of the most
	// recent qualifying completion, used for day-boundary streak updates.
	LastCompletionDay string `json:"last_completion_day,omitempty"`
}

func (s UserStats) Validate() error {
	if s.Level < 1 {
		return errors.New("model: stats level must be at least 1")
	}
	if s.XP < 0 {
		return errors.New("model: stats xp must not be negative")
	}
	if s.CurrentStreak > s.LongestStreak {
		return errors.New("model: current streak exceeds longest streak")
	}
	if s.Productivity < 0 || s.Productivity > 100 {
		return errors.New("model: productivity must be within 0-100")
	}
	return nil
}

type AchievementType string

const (
	AchievementStreak       AchievementType = "streak"
	AchievementCompletion   AchievementType = "completion"
	AchievementProductivity AchievementType = "productivity"
	AchievementMilestone    AchievementType = "milestone"
)

func (a AchievementType) IsValid() bool {
	switch a {
	case AchievementStreak, AchievementCompletion, AchievementProductivity, AchievementMilestone:
		return true
	default:
		return false
	}
}

// Achievement tracks one unlockable. A nil UnlockedAt means locked; once set
// it is never cleared. Progress/MaxProgress are present only while the
// achievement is partially trackable and are dropped on unlock.
type Achievement struct {
	ID          string          `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Icon        string          `json:"icon,omitempty"`
	Type        AchievementType `json:"type"`
	UnlockedAt  *time.Time      `json:"unlocked_at,omitempty"`
	Progress    *int            `json:"progress,omitempty"`
	MaxProgress *int            `json:"max_progress,omitempty"`
}

func (a Achievement) Unlocked() bool {
	return a.UnlockedAt != nil
}

func (a Achievement) Validate() error {
	if strings.TrimSpace(a.ID) == "" {
		return errors.New("model: achievement id is required")
	}
	if !a.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidAchievementType, a.Type)
	}
	if (a.Progress == nil) != (a.MaxProgress == nil) {
		return errors.New("model: achievement progress and max_progress must be set together")
	}
	if a.Progress != nil && *a.Progress > *a.MaxProgress {
		return errors.New("model: achievement progress exceeds max_progress")
	}
	return nil
}
