package model

import (
	"errors"
	"strings"
	"time"
)

// Project groups tasks by weak reference; it never owns them. Deleting a
// task only requires scrubbing the id from TaskIDs.
type Project struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Color       string     `json:"color"`
	TaskIDs     []string   `json:"task_ids"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Deadline    *time.Time `json:"deadline,omitempty"`
}

func (p Project) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("model: project id is required")
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.New("model: project title is required")
	}
	return nil
}

// RemoveTaskID returns TaskIDs with every occurrence of id removed.
func (p Project) RemoveTaskID(id string) []string {
	out := make([]string, 0, len(p.TaskIDs))
	for _, tid := range p.TaskIDs {
		if tid != id {
			out = append(out, tid)
		}
	}
	return out
}
