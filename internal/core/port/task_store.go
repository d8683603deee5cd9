package port

import (
	"context"
	"slices"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
)

// TaskScope restricts which task records an operation may touch. It is
// computed by the access policy and applied by stores; when both
// CreatedBy and AssignedTo are set the predicate matches either.
type TaskScope struct {
	All        bool
	CreatedBy  *model.UserID
	AssignedTo *model.UserID
}

func ScopeAll() TaskScope {
	return TaskScope{All: true}
}

func ScopeCreatedBy(userID model.UserID) TaskScope {
	return TaskScope{CreatedBy: &userID}
}

func ScopeAssignedTo(userID model.UserID) TaskScope {
	return TaskScope{AssignedTo: &userID}
}

func ScopeCreatedByOrAssignedTo(userID model.UserID) TaskScope {
	return TaskScope{CreatedBy: &userID, AssignedTo: &userID}
}

// Matches reports whether the given task satisfies the scope predicate.
func (s TaskScope) Matches(task *model.Task) bool {
	if s.All {
		return true
	}

	if s.CreatedBy != nil && task.CreatedBy == *s.CreatedBy {
		return true
	}

	if s.AssignedTo != nil && task.AssignedTo != nil && *task.AssignedTo == *s.AssignedTo {
		return true
	}

	return false
}

type SortOrder string

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

const (
	MaxLimit     = 100
	DefaultLimit = 10
)

var sortableColumns = []string{"createdAt", "updatedAt", "dueDate", "priority", "title"}

type ListOptions struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder SortOrder
}

// Normalize clamps pagination bounds and falls back to the default sort
// for unknown keys. Stores apply it before executing a listing.
func (o ListOptions) Normalize() ListOptions {
	if o.Page < 1 {
		o.Page = 1
	}

	if o.Limit < 1 {
		o.Limit = DefaultLimit
	} else if o.Limit > MaxLimit {
		o.Limit = MaxLimit
	}

	if !slices.Contains(sortableColumns, o.SortBy) {
		o.SortBy = "createdAt"
	}

	if o.SortOrder != SortAsc && o.SortOrder != SortDesc {
		o.SortOrder = SortDesc
	}

	return o
}

// TaskFilter selects the task subset an analytics report is computed
// over. All fields are optional and combined conjunctively; Tags
// matches any of the given tags.
type TaskFilter struct {
	From       *time.Time
	To         *time.Time
	AssignedTo *model.UserID
	CreatedBy  *model.UserID
	Status     *model.Status
	Tags       []string
}

// MatchesFilter reports whether the task satisfies the filter. Shared
// by the memory adapter and by facet unit tests.
func MatchesFilter(task *model.Task, filter TaskFilter) bool {
	if filter.From != nil && task.CreatedAt.Before(*filter.From) {
		return false
	}

	if filter.To != nil && task.CreatedAt.After(*filter.To) {
		return false
	}

	if filter.AssignedTo != nil && (task.AssignedTo == nil || *task.AssignedTo != *filter.AssignedTo) {
		return false
	}

	if filter.CreatedBy != nil && task.CreatedBy != *filter.CreatedBy {
		return false
	}

	if filter.Status != nil && task.Status != *filter.Status {
		return false
	}

	if len(filter.Tags) > 0 {
		any := false
		for _, tag := range filter.Tags {
			if slices.Contains(task.Tags, tag) {
				any = true
				break
			}
		}

		if !any {
			return false
		}
	}

	return true
}

type TaskStore interface {
	// CreateTask persists a new task record.
	CreateTask(ctx context.Context, task model.Task) (model.Task, error)

	// GetTaskByID returns the task if it exists and satisfies the scope,
	// or ErrNotFound otherwise. An existing but out-of-scope task is
	// indistinguishable from an absent one.
	GetTaskByID(ctx context.Context, id model.TaskID, scope TaskScope) (model.Task, error)

	// QueryTasks returns one page of in-scope tasks and the total number
	// of in-scope records disregarding pagination.
	QueryTasks(ctx context.Context, scope TaskScope, opts ListOptions) ([]model.Task, int64, error)

	// UpdateTask replaces the record if its persisted version equals
	// expectedVersion, appending any history entries not yet stored. It
	// returns ErrConflict on a version mismatch and ErrNotFound if the
	// record disappeared.
	UpdateTask(ctx context.Context, task model.Task, expectedVersion int64) (model.Task, error)

	// DeleteTaskByID removes the task if it satisfies the scope and
	// reports whether a record was deleted.
	DeleteTaskByID(ctx context.Context, id model.TaskID, scope TaskScope) (bool, error)

	// QueryTasksByFilter returns all tasks matching the filter, without
	// pagination. Used by the analytics engine.
	QueryTasksByFilter(ctx context.Context, filter TaskFilter) ([]model.Task, error)
}
