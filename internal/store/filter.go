package store

import (
	"strings"

	"questlog/internal/model"
)

type StatusFilter string

const (
	StatusAll       StatusFilter = "all"
	StatusPending   StatusFilter = "pending"
	StatusCompleted StatusFilter = "completed"
)

// Filter narrows the task list. Query matches case-insensitively against
// title, description and labels; Priority and Status are exact. Empty
// fields match everything and the three conditions AND together.
type Filter struct {
	Query    string
	Priority model.Priority
	Status   StatusFilter
}

func (s *TaskStore) Filter(f Filter) []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := strings.ToLower(strings.TrimSpace(f.Query))
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !matchQuery(t, query) {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if !matchStatus(t, f.Status) {
			continue
		}
		out = append(out, t)
	}
	return out
}

func matchQuery(t model.Task, query string) bool {
	if query == "" {
		return true
	}
	if strings.Contains(strings.ToLower(t.Title), query) {
		return true
	}
	if strings.Contains(strings.ToLower(t.Description), query) {
		return true
	}
	for _, label := range t.Labels {
		if strings.Contains(strings.ToLower(label), query) {
			return true
		}
	}
	return false
}

func matchStatus(t model.Task, status StatusFilter) bool {
	switch status {
	case StatusPending:
		return !t.Completed
	case StatusCompleted:
		return t.Completed
	default:
		return true
	}
}
