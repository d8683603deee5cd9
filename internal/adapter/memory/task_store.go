package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

// TaskStore is an in-memory port.TaskStore, used by tests and as a
// storage-free reference implementation of the scoped query semantics.
type TaskStore struct {
	mutex sync.RWMutex
	tasks map[model.TaskID]model.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{
		tasks: map[model.TaskID]model.Task{},
	}
}

// CreateTask implements port.TaskStore.
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.tasks[task.ID] = task.Clone()

	return task.Clone(), nil
}

// GetTaskByID implements port.TaskStore.
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID, scope port.TaskScope) (model.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	task, exists := s.tasks[id]
	if !exists || !scope.Matches(&task) {
		return model.Task{}, errors.WithStack(port.ErrNotFound)
	}

	return task.Clone(), nil
}

// QueryTasks implements port.TaskStore.
func (s *TaskStore) QueryTasks(ctx context.Context, scope port.TaskScope, opts port.ListOptions) ([]model.Task, int64, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	opts = opts.Normalize()

	matching := make([]model.Task, 0)
	for _, task := range s.tasks {
		if scope.Matches(&task) {
			matching = append(matching, task.Clone())
		}
	}

	sortTasks(matching, opts)

	total := int64(len(matching))

	skip := (opts.Page - 1) * opts.Limit
	if skip >= len(matching) {
		return make([]model.Task, 0), total, nil
	}

	end := skip + opts.Limit
	if end > len(matching) {
		end = len(matching)
	}

	return matching[skip:end], total, nil
}

// UpdateTask implements port.TaskStore.
func (s *TaskStore) UpdateTask(ctx context.Context, task model.Task, expectedVersion int64) (model.Task, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existing, exists := s.tasks[task.ID]
	if !exists {
		return model.Task{}, errors.WithStack(port.ErrNotFound)
	}

	if existing.Version != expectedVersion {
		return model.Task{}, errors.WithStack(port.ErrConflict)
	}

	s.tasks[task.ID] = task.Clone()

	return task.Clone(), nil
}

// DeleteTaskByID implements port.TaskStore.
func (s *TaskStore) DeleteTaskByID(ctx context.Context, id model.TaskID, scope port.TaskScope) (bool, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	task, exists := s.tasks[id]
	if !exists || !scope.Matches(&task) {
		return false, nil
	}

	delete(s.tasks, id)

	return true, nil
}

// QueryTasksByFilter implements port.TaskStore.
func (s *TaskStore) QueryTasksByFilter(ctx context.Context, filter port.TaskFilter) ([]model.Task, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	matching := make([]model.Task, 0)
	for _, task := range s.tasks {
		if port.MatchesFilter(&task, filter) {
			matching = append(matching, task.Clone())
		}
	}

	sort.Slice(matching, func(i, j int) bool {
		return matching[i].CreatedAt.Before(matching[j].CreatedAt)
	})

	return matching, nil
}

func sortTasks(tasks []model.Task, opts port.ListOptions) {
	less := func(t1, t2 *model.Task) bool {
		switch opts.SortBy {
		case "updatedAt":
			return t1.UpdatedAt.Before(t2.UpdatedAt)
		case "dueDate":
			return t1.DueDate.Before(t2.DueDate)
		case "priority":
			return strings.Compare(string(t1.Priority), string(t2.Priority)) < 0
		case "title":
			return strings.Compare(t1.Title, t2.Title) < 0
		default:
			return lessTime(t1.CreatedAt, t2.CreatedAt, t1.ID, t2.ID)
		}
	}

	sort.SliceStable(tasks, func(i, j int) bool {
		if opts.SortOrder == port.SortDesc {
			return less(&tasks[j], &tasks[i])
		}

		return less(&tasks[i], &tasks[j])
	})
}

// lessTime orders by timestamp, breaking ties by ID to keep pagination
// stable.
func lessTime(at1, at2 time.Time, id1, id2 model.TaskID) bool {
	if !at1.Equal(at2) {
		return at1.Before(at2)
	}

	return id1 < id2
}

var _ port.TaskStore = &TaskStore{}
