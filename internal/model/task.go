package model

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidPriority = errors.New("model: invalid task priority")
	ErrEmptyTitle      = errors.New("model: task title is required")
	ErrMissingDueDate  = errors.New("model: task due date is required")
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

type Subtask struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
}

type Task struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      string    `json:"description,omitempty"`
	DueDate          time.Time `json:"due_date"`
	Priority         Priority  `json:"priority"`
	Labels           []string  `json:"labels,omitempty"`
	ProjectID        string    `json:"project_id,omitempty"`
	Completed        bool      `json:"completed"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
	EstimatedMinutes int       `json:"estimated_minutes,omitempty"`
	ActualMinutes    int       `json:"actual_minutes,omitempty"`
	Subtasks         []Subtask `json:"subtasks,omitempty"`
}

func (t Task) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return errors.New("model: task id is required")
	}
	if strings.TrimSpace(t.Title) == "" {
		return ErrEmptyTitle
	}
	if t.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if !t.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, t.Priority)
	}
	if t.CreatedAt.IsZero() {
		return errors.New("model: task created_at is required")
	}
	if t.UpdatedAt.Before(t.CreatedAt) {
		return errors.New("model: task updated_at must not precede created_at")
	}
	return nil
}

// Draft carries the caller-supplied fields for a new task. The store assigns
// the id and timestamps.
type Draft struct {
	Title            string
	Description      string
	DueDate          time.Time
	Priority         Priority
	Labels           []string
	ProjectID        string
	EstimatedMinutes int
}

func (d Draft) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return ErrEmptyTitle
	}
	if d.DueDate.IsZero() {
		return ErrMissingDueDate
	}
	if d.Priority != "" && !d.Priority.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidPriority, d.Priority)
	}
	return nil
}
