package gorm

import (
	"context"
	"fmt"
	"strings"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/ncruces/go-sqlite3"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TaskStore struct {
	getDatabase func(ctx context.Context) (*gorm.DB, error)
}

// CreateTask implements port.TaskStore.
func (s *TaskStore) CreateTask(ctx context.Context, task model.Task) (model.Task, error) {
	var created model.Task

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		record := fromTask(&task)

		if err := db.Create(record).Error; err != nil {
			return errors.WithStack(err)
		}

		created = toTask(record)

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return model.Task{}, errors.WithStack(err)
	}

	return created, nil
}

// GetTaskByID implements port.TaskStore.
func (s *TaskStore) GetTaskByID(ctx context.Context, id model.TaskID, scope port.TaskScope) (model.Task, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return model.Task{}, errors.WithStack(err)
	}

	var record Task

	err = scopeTasks(db.WithContext(ctx), scope).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		First(&record, "id = ?", string(id)).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Task{}, errors.WithStack(port.ErrNotFound)
		}

		return model.Task{}, errors.WithStack(err)
	}

	return toTask(&record), nil
}

// QueryTasks implements port.TaskStore.
func (s *TaskStore) QueryTasks(ctx context.Context, scope port.TaskScope, opts port.ListOptions) ([]model.Task, int64, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	opts = opts.Normalize()

	query := scopeTasks(db.WithContext(ctx).Model(&Task{}), scope)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, errors.WithStack(err)
	}

	var records []*Task

	err = query.
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Order(fmt.Sprintf("%s %s", sortColumn(opts.SortBy), opts.SortOrder)).
		Offset((opts.Page - 1) * opts.Limit).
		Limit(opts.Limit).
		Find(&records).Error
	if err != nil {
		return nil, 0, errors.WithStack(err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, toTask(record))
	}

	return tasks, total, nil
}

// UpdateTask implements port.TaskStore.
func (s *TaskStore) UpdateTask(ctx context.Context, task model.Task, expectedVersion int64) (model.Task, error) {
	var updated model.Task

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		record := fromTask(&task)

		res := db.Model(&Task{}).
			Where("id = ? AND version = ?", record.ID, expectedVersion).
			Select("title", "description", "due_date", "priority", "status", "assigned_to", "assigned_by", "tags", "started_at", "completed_at", "cancelled_at", "version").
			Updates(record)
		if res.Error != nil {
			return errors.WithStack(res.Error)
		}

		if res.RowsAffected == 0 {
			var count int64
			if err := db.Model(&Task{}).Where("id = ?", record.ID).Count(&count).Error; err != nil {
				return errors.WithStack(err)
			}

			if count == 0 {
				return errors.WithStack(port.ErrNotFound)
			}

			return errors.WithStack(port.ErrConflict)
		}

		// Append the history entries not yet persisted. Entries are
		// never updated or removed.
		var stored int64
		if err := db.Model(&TaskHistoryEntry{}).Where("task_id = ?", record.ID).Count(&stored).Error; err != nil {
			return errors.WithStack(err)
		}

		for _, entry := range task.History[stored:] {
			if err := db.Create(fromHistoryEntry(task.ID, entry)).Error; err != nil {
				return errors.WithStack(err)
			}
		}

		var reloaded Task
		err := db.Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).First(&reloaded, "id = ?", record.ID).Error
		if err != nil {
			return errors.WithStack(err)
		}

		updated = toTask(&reloaded)

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return model.Task{}, errors.WithStack(err)
	}

	return updated, nil
}

// DeleteTaskByID implements port.TaskStore.
func (s *TaskStore) DeleteTaskByID(ctx context.Context, id model.TaskID, scope port.TaskScope) (bool, error) {
	deleted := false

	err := s.withRetry(ctx, func(ctx context.Context, db *gorm.DB) error {
		var record Task
		if err := scopeTasks(db, scope).First(&record, "id = ?", string(id)).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}

			return errors.WithStack(err)
		}

		if err := db.Select(clause.Associations).Delete(&record).Error; err != nil {
			return errors.WithStack(err)
		}

		deleted = true

		return nil
	}, sqlite3.LOCKED, sqlite3.BUSY)
	if err != nil {
		return false, errors.WithStack(err)
	}

	return deleted, nil
}

// QueryTasksByFilter implements port.TaskStore.
func (s *TaskStore) QueryTasksByFilter(ctx context.Context, filter port.TaskFilter) ([]model.Task, error) {
	db, err := s.getDatabase(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	query := db.WithContext(ctx).Model(&Task{})

	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}

	if filter.To != nil {
		query = query.Where("created_at <= ?", *filter.To)
	}

	if filter.AssignedTo != nil {
		query = query.Where("assigned_to = ?", string(*filter.AssignedTo))
	}

	if filter.CreatedBy != nil {
		query = query.Where("created_by = ?", string(*filter.CreatedBy))
	}

	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	if len(filter.Tags) > 0 {
		// Tags are stored as a JSON array; match-any via the quoted
		// representation of each tag.
		conds := make([]string, 0, len(filter.Tags))
		args := make([]any, 0, len(filter.Tags))

		for _, tag := range filter.Tags {
			conds = append(conds, "tags LIKE ?")
			args = append(args, `%"`+strings.ReplaceAll(tag, `"`, ``)+`"%`)
		}

		query = query.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	var records []*Task

	err = query.
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).
		Order("created_at asc").
		Find(&records).Error
	if err != nil {
		return nil, errors.WithStack(err)
	}

	tasks := make([]model.Task, 0, len(records))
	for _, record := range records {
		tasks = append(tasks, toTask(record))
	}

	return tasks, nil
}

func (s *TaskStore) withRetry(ctx context.Context, fn func(ctx context.Context, db *gorm.DB) error, codes ...sqlite3.ErrorCode) error {
	return withRetry(ctx, s.getDatabase, fn, codes...)
}

func scopeTasks(db *gorm.DB, scope port.TaskScope) *gorm.DB {
	if scope.All {
		return db
	}

	switch {
	case scope.CreatedBy != nil && scope.AssignedTo != nil:
		return db.Where("created_by = ? OR assigned_to = ?", string(*scope.CreatedBy), string(*scope.AssignedTo))
	case scope.CreatedBy != nil:
		return db.Where("created_by = ?", string(*scope.CreatedBy))
	case scope.AssignedTo != nil:
		return db.Where("assigned_to = ?", string(*scope.AssignedTo))
	default:
		return db.Where("1 = 0")
	}
}

var sortColumns = map[string]string{
	"createdAt": "created_at",
	"updatedAt": "updated_at",
	"dueDate":   "due_date",
	"priority":  "priority",
	"title":     "title",
}

func sortColumn(sortBy string) string {
	if column, exists := sortColumns[sortBy]; exists {
		return column
	}

	return "created_at"
}

func NewTaskStore(db *gorm.DB) *TaskStore {
	return &TaskStore{
		getDatabase: createGetDatabase(db, &Task{}, &TaskHistoryEntry{}),
	}
}

var _ port.TaskStore = &TaskStore{}
