// Package store owns the in-memory task and project collections. It is the
// single writer for both; the scheduler and TUI read through snapshot
// copies. Completion transitions are forwarded to a reward sink exactly
// when a task flips from open to completed.
package store

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"questlog/internal/gamify"
	"questlog/internal/model"
)

// RewardSink receives task lifecycle events. The gamification engine
// satisfies this.
type RewardSink interface {
	TaskCreated(taskID string)
	TaskCompleted(ev gamify.CompletionEvent)
}

type noopSink struct{}

func (noopSink) TaskCreated(string)                   {}
func (noopSink) TaskCompleted(gamify.CompletionEvent) {}

type Option func(*TaskStore)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *TaskStore) { s.now = now }
}

type TaskStore struct {
	mu       sync.RWMutex
	tasks    []model.Task
	projects []model.Project
	sink     RewardSink
	now      func() time.Time
}

func NewTaskStore(tasks []model.Task, projects []model.Project, sink RewardSink, opts ...Option) *TaskStore {
	if sink == nil {
		sink = noopSink{}
	}
	s := &TaskStore{
		tasks:    append([]model.Task(nil), tasks...),
		projects: append([]model.Project(nil), projects...),
		sink:     sink,
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the draft, assigns a fresh id and timestamps and
// prepends the task. The creation grant fires after the task is stored.
func (s *TaskStore) Create(draft model.Draft) (model.Task, error) {
	if err := draft.Validate(); err != nil {
		return model.Task{}, err
	}

	s.mu.Lock()
	now := s.now()
	task := model.Task{
		ID:               uuid.NewString(),
		Title:            strings.TrimSpace(draft.Title),
		Description:      draft.Description,
		DueDate:          draft.DueDate,
		Priority:         draft.Priority,
		Labels:           append([]string(nil), draft.Labels...),
		ProjectID:        draft.ProjectID,
		CreatedAt:        now,
		UpdatedAt:        now,
		EstimatedMinutes: draft.EstimatedMinutes,
	}
	if task.Priority == "" {
		task.Priority = model.PriorityMedium
	}
	s.tasks = append([]model.Task{task}, s.tasks...)
	s.attachToProject(task.ProjectID, task.ID)
	s.mu.Unlock()

	s.sink.TaskCreated(task.ID)
	return task, nil
}

// ToggleComplete flips the completed flag and refreshes updatedAt. Only the
// false→true transition reaches the reward sink; completing again after an
// un-complete re-delivers the event, and the sink's ledger keeps the grant
// at-most-once. Unknown ids are silent no-ops.
func (s *TaskStore) ToggleComplete(id string) (model.Task, bool) {
	s.mu.Lock()
	idx := s.indexOf(id)
	if idx < 0 {
		s.mu.Unlock()
		return model.Task{}, false
	}
	now := s.now()
	task := &s.tasks[idx]
	task.Completed = !task.Completed
	task.UpdatedAt = now
	updated := *task
	s.mu.Unlock()

	if updated.Completed {
		minutes := updated.ActualMinutes
		if minutes == 0 {
			minutes = updated.EstimatedMinutes
		}
		s.sink.TaskCompleted(gamify.CompletionEvent{
			TaskID:    updated.ID,
			Priority:  updated.Priority,
			At:        now,
			BeforeDue: now.Before(updated.DueDate),
			Minutes:   minutes,
		})
	}
	return updated, true
}

// Delete removes the task and scrubs the id from every project's reference
// set. Unknown ids are silent no-ops.
func (s *TaskStore) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return false
	}
	s.tasks = append(s.tasks[:idx], s.tasks[idx+1:]...)
	for i := range s.projects {
		s.projects[i].TaskIDs = s.projects[i].RemoveTaskID(id)
	}
	return true
}

// UpdateSubtasks replaces the subtask list wholesale.
func (s *TaskStore) UpdateSubtasks(id string, subtasks []model.Subtask) (model.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	s.tasks[idx].Subtasks = append([]model.Subtask(nil), subtasks...)
	s.tasks[idx].UpdatedAt = s.now()
	return s.tasks[idx], true
}

func (s *TaskStore) Get(id string) (model.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexOf(id)
	if idx < 0 {
		return model.Task{}, false
	}
	return s.tasks[idx], true
}

// Tasks returns a snapshot copy in display order (newest first).
func (s *TaskStore) Tasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Task(nil), s.tasks...)
}

// OpenTasks returns a snapshot of non-completed tasks, the scheduler's
// working set.
func (s *TaskStore) OpenTasks() []model.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

func (s *TaskStore) Projects() []model.Project {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.Project(nil), s.projects...)
}

// Counts reports completed and total task counts.
func (s *TaskStore) Counts() (completed, total int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.tasks {
		if t.Completed {
			completed++
		}
	}
	return completed, len(s.tasks)
}

func (s *TaskStore) indexOf(id string) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskStore) attachToProject(projectID, taskID string) {
	if projectID == "" {
		return
	}
	for i := range s.projects {
		if s.projects[i].ID != projectID {
			continue
		}
		for _, existing := range s.projects[i].TaskIDs {
			if existing == taskID {
				return
			}
		}
		s.projects[i].TaskIDs = append(s.projects[i].TaskIDs, taskID)
		return
	}
}
