package model

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/xid"
)

type TaskID string

func NewTaskID() TaskID {
	return TaskID(xid.New().String())
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

func Statuses() []Status {
	return []Status{StatusPending, StatusInProgress, StatusCompleted, StatusCancelled}
}

func ParseStatus(raw string) (Status, error) {
	switch Status(raw) {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return Status(raw), nil
	default:
		return "", errors.WithStack(fmt.Errorf("unknown status %q", raw))
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParsePriority(raw string) (Priority, error) {
	switch Priority(raw) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(raw), nil
	default:
		return "", errors.WithStack(fmt.Errorf("unknown priority %q", raw))
	}
}

type Task struct {
	ID TaskID

	Title       string
	Description string
	DueDate     time.Time
	Priority    Priority
	Status      Status

	AssignedTo *UserID
	AssignedBy *UserID

	Tags []string

	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedBy UserID
	CreatedAt time.Time
	UpdatedAt time.Time

	// Version is incremented on every accepted update and used by stores
	// as an optimistic concurrency check.
	Version int64

	History []HistoryEntry
}

// HistoryEntry records one accepted status transition.
type HistoryEntry struct {
	From *Status
	To   Status
	At   time.Time
	By   UserID
}

func (t *Task) Clone() Task {
	clone := *t

	clone.Tags = append([]string(nil), t.Tags...)
	clone.History = append([]HistoryEntry(nil), t.History...)

	if t.AssignedTo != nil {
		assignedTo := *t.AssignedTo
		clone.AssignedTo = &assignedTo
	}
	if t.AssignedBy != nil {
		assignedBy := *t.AssignedBy
		clone.AssignedBy = &assignedBy
	}
	if t.StartedAt != nil {
		startedAt := *t.StartedAt
		clone.StartedAt = &startedAt
	}
	if t.CompletedAt != nil {
		completedAt := *t.CompletedAt
		clone.CompletedAt = &completedAt
	}
	if t.CancelledAt != nil {
		cancelledAt := *t.CancelledAt
		clone.CancelledAt = &cancelledAt
	}

	return clone
}
