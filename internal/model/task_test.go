package model

import (
	"errors"
	"testing"
	"time"
)

func TestTaskValidateSuccess(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Write quarterly report",
		DueDate:   now.Add(48 * time.Hour),
		Priority:  PriorityHigh,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); err != nil {
		t.Fatalf("expected valid task, got error: %v", err)
	}
}

func TestTaskValidateRejectsEmptyTitle(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "   ",
		DueDate:   now.Add(time.Hour),
		Priority:  PriorityLow,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); !errors.Is(err, ErrEmptyTitle) {
		t.Fatalf("expected ErrEmptyTitle, got: %v", err)
	}
}

func TestTaskValidateRejectsMissingDueDate(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "No due date",
		Priority:  PriorityMedium,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); !errors.Is(err, ErrMissingDueDate) {
		t.Fatalf("expected ErrMissingDueDate, got: %v", err)
	}
}

func TestTaskValidateInvalidPriority(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Bad priority",
		DueDate:   now.Add(time.Hour),
		Priority:  Priority("urgent"),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := task.Validate(); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("expected ErrInvalidPriority, got: %v", err)
	}
}

func TestTaskValidateUpdatedBeforeCreated(t *testing.T) {
	now := time.Date(2026, 8, 10, 12, 0, 0, 0, time.UTC)
	task := Task{
		ID:        "task-1",
		Title:     "Timestamp order",
		DueDate:   now.Add(time.Hour),
		Priority:  PriorityLow,
		CreatedAt: now,
		UpdatedAt: now.Add(-time.Minute),
	}
	if err := task.Validate(); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestDraftValidate(t *testing.T) {
	due := time.Date(2026, 8, 12, 9, 0, 0, 0, time.UTC)
	tests := []struct {
		name    string
		draft   Draft
		wantErr error
	}{
		{name: "valid", draft: Draft{Title: "Pay rent", DueDate: due, Priority: PriorityMedium}},
		{name: "valid without priority", draft: Draft{Title: "Pay rent", DueDate: due}},
		{name: "empty title", draft: Draft{DueDate: due}, wantErr: ErrEmptyTitle},
		{name: "missing due date", draft: Draft{Title: "Pay rent"}, wantErr: ErrMissingDueDate},
		{name: "bad priority", draft: Draft{Title: "Pay rent", DueDate: due, Priority: "asap"}, wantErr: ErrInvalidPriority},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.draft.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("expected valid draft, got: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got: %v", tc.wantErr, err)
			}
		})
	}
}
