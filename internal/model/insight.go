package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var ErrInvalidInsightType = errors.New("model: invalid insight type")

type InsightType string

const (
	InsightScheduleOptimization InsightType = "schedule_optimization"
	InsightDeadlineWarning      InsightType = "deadline_warning"
	InsightProductivityTip      InsightType = "productivity_tip"
	InsightTimeAllocation       InsightType = "time_allocation"
)

func (t InsightType) IsValid() bool {
	switch t {
	case InsightScheduleOptimization, InsightDeadlineWarning, InsightProductivityTip, InsightTimeAllocation:
		return true
	default:
		return false
	}
}

// AIInsight is advisory only. Dismissal is one-way.
type AIInsight struct {
	ID         string      `json:"id"`
	Type       InsightType `json:"type"`
	Title      string      `json:"title"`
	Message    string      `json:"message"`
	Priority   Priority    `json:"priority"`
	CreatedAt  time.Time   `json:"created_at"`
	Actionable bool        `json:"actionable,omitempty"`
	Dismissed  bool        `json:"dismissed"`
}

func (i AIInsight) Validate() error {
	if strings.TrimSpace(i.ID) == "" {
		return errors.New("model: insight id is required")
	}
	if !i.Type.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidInsightType, i.Type)
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, i.Priority)
	}
	return nil
}
