package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/metrics"
	"github.com/pkg/errors"
)

// maxUpdateAttempts bounds the optimistic retry loop of UpdateTask.
const maxUpdateAttempts = 3

type TaskManagerOptions struct {
	Clock func() time.Time
}

type TaskManagerOptionFunc func(opts *TaskManagerOptions)

func WithTaskManagerClock(clock func() time.Time) TaskManagerOptionFunc {
	return func(opts *TaskManagerOptions) {
		opts.Clock = clock
	}
}

func NewTaskManagerOptions(funcs ...TaskManagerOptionFunc) *TaskManagerOptions {
	opts := &TaskManagerOptions{
		Clock: time.Now,
	}
	for _, fn := range funcs {
		fn(opts)
	}
	return opts
}

// TaskManager validates and applies task mutations: field validation,
// the status state machine with its derived timestamps and append-only
// history, and the scoped read paths.
type TaskManager struct {
	store  port.TaskStore
	users  port.UserStore
	policy *AccessPolicy
	clock  func() time.Time
}

func NewTaskManager(store port.TaskStore, users port.UserStore, policy *AccessPolicy, funcs ...TaskManagerOptionFunc) *TaskManager {
	opts := NewTaskManagerOptions(funcs...)

	return &TaskManager{
		store:  store,
		users:  users,
		policy: policy,
		clock:  opts.Clock,
	}
}

type TaskPage struct {
	Tasks []model.Task

	// Users resolves task user references to public profiles. Only
	// populated for admin actors.
	Users map[model.UserID]model.Profile

	Total int64
	Page  int
	Limit int
}

type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     time.Time
	Priority    model.Priority
	Status      model.Status
	AssignedTo  *model.UserID
	Tags        []string
}

type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	Priority    *model.Priority
	Status      *model.Status
	AssignedTo  *model.UserID
	Tags        *[]string
}

func (m *TaskManager) ListTasks(ctx context.Context, actor model.Actor, opts port.ListOptions) (*TaskPage, error) {
	return m.queryPage(ctx, actor, m.policy.ListScope(actor), opts)
}

func (m *TaskManager) ListAssignedTasks(ctx context.Context, actor model.Actor, opts port.ListOptions) (*TaskPage, error) {
	return m.queryPage(ctx, actor, m.policy.AssignedScope(actor), opts)
}

func (m *TaskManager) queryPage(ctx context.Context, actor model.Actor, scope port.TaskScope, opts port.ListOptions) (*TaskPage, error) {
	opts = opts.Normalize()

	tasks, total, err := m.store.QueryTasks(ctx, scope, opts)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	page := &TaskPage{
		Tasks: tasks,
		Total: total,
		Page:  opts.Page,
		Limit: opts.Limit,
	}

	if actor.IsAdmin() {
		users, err := m.resolveProfiles(ctx, tasks)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		page.Users = users
	}

	return page, nil
}

func (m *TaskManager) GetTask(ctx context.Context, actor model.Actor, id model.TaskID) (*model.Task, map[model.UserID]model.Profile, error) {
	task, err := m.store.GetTaskByID(ctx, id, m.policy.ReadScope(actor))
	if err != nil {
		return nil, nil, errors.WithStack(err)
	}

	var users map[model.UserID]model.Profile
	if actor.IsAdmin() {
		users, err = m.resolveProfiles(ctx, []model.Task{task})
		if err != nil {
			return nil, nil, errors.WithStack(err)
		}
	}

	return &task, users, nil
}

func (m *TaskManager) CreateTask(ctx context.Context, actor model.Actor, input CreateTaskInput) (*model.Task, error) {
	if err := validateCreateInput(&input); err != nil {
		return nil, errors.WithStack(err)
	}

	if input.AssignedTo != nil && !m.policy.CanAssign(actor) {
		return nil, errors.WithStack(port.ErrForbidden)
	}

	now := m.clock()

	task := model.Task{
		ID:          model.NewTaskID(),
		Title:       input.Title,
		Description: input.Description,
		DueDate:     input.DueDate,
		Priority:    input.Priority,
		Status:      input.Status,
		Tags:        input.Tags,
		CreatedBy:   actor.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		Version:     1,
	}

	if task.Status == "" {
		task.Status = model.StatusPending
	}

	if task.Tags == nil {
		task.Tags = make([]string, 0)
	}

	if input.AssignedTo != nil {
		task.AssignedTo = input.AssignedTo
		assignedBy := actor.ID
		task.AssignedBy = &assignedBy
	}

	created, err := m.store.CreateTask(ctx, task)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	metrics.Tasks.WithLabelValues(string(created.Status)).Inc()

	slog.InfoContext(ctx, "task created", slog.String("task", string(created.ID)), slog.String("createdBy", string(actor.ID)))

	return &created, nil
}

func (m *TaskManager) UpdateTask(ctx context.Context, actor model.Actor, id model.TaskID, patch TaskPatch) (*model.Task, error) {
	if err := validatePatch(&patch); err != nil {
		return nil, errors.WithStack(err)
	}

	if patch.AssignedTo != nil && !m.policy.CanAssign(actor) {
		return nil, errors.WithStack(port.ErrForbidden)
	}

	scope := m.policy.WriteScope(actor)

	for attempt := 0; ; attempt++ {
		current, err := m.store.GetTaskByID(ctx, id, scope)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		task := current.Clone()
		m.applyPatch(&task, actor, patch)

		updated, err := m.store.UpdateTask(ctx, task, current.Version)
		if err != nil {
			if errors.Is(err, port.ErrConflict) && attempt+1 < maxUpdateAttempts {
				slog.DebugContext(ctx, "concurrent task update, retrying", slog.String("task", string(id)), slog.Int("attempt", attempt))
				continue
			}

			return nil, errors.WithStack(err)
		}

		if task.Status != current.Status {
			metrics.Tasks.WithLabelValues(string(current.Status)).Dec()
			metrics.Tasks.WithLabelValues(string(task.Status)).Inc()
			metrics.TaskTransitions.WithLabelValues(string(current.Status), string(task.Status)).Inc()
		}

		return &updated, nil
	}
}

// applyPatch merges the patch into the task, appending a history entry
// and deriving timestamps when the status changes. Each derived
// timestamp is set only the first time its status is reached.
func (m *TaskManager) applyPatch(task *model.Task, actor model.Actor, patch TaskPatch) {
	now := m.clock()

	if patch.Title != nil {
		task.Title = *patch.Title
	}

	if patch.Description != nil {
		task.Description = *patch.Description
	}

	if patch.DueDate != nil {
		task.DueDate = *patch.DueDate
	}

	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}

	if patch.Tags != nil {
		task.Tags = append([]string(nil), (*patch.Tags)...)
	}

	if patch.AssignedTo != nil {
		task.AssignedTo = patch.AssignedTo
		assignedBy := actor.ID
		task.AssignedBy = &assignedBy
	}

	if patch.Status != nil && *patch.Status != task.Status {
		from := task.Status

		task.History = append(task.History, model.HistoryEntry{
			From: &from,
			To:   *patch.Status,
			At:   now,
			By:   actor.ID,
		})

		task.Status = *patch.Status

		switch task.Status {
		case model.StatusInProgress:
			if task.StartedAt == nil {
				task.StartedAt = &now
			}
		case model.StatusCompleted:
			if task.CompletedAt == nil {
				task.CompletedAt = &now
			}
		case model.StatusCancelled:
			if task.CancelledAt == nil {
				task.CancelledAt = &now
			}
		}
	}

	task.UpdatedAt = now
	task.Version = task.Version + 1
}

func (m *TaskManager) DeleteTask(ctx context.Context, actor model.Actor, id model.TaskID) (bool, error) {
	scope := m.policy.DeleteScope(actor)

	task, err := m.store.GetTaskByID(ctx, id, scope)
	if err != nil {
		if errors.Is(err, port.ErrNotFound) {
			return false, nil
		}

		return false, errors.WithStack(err)
	}

	deleted, err := m.store.DeleteTaskByID(ctx, id, scope)
	if err != nil {
		return false, errors.WithStack(err)
	}

	if deleted {
		metrics.Tasks.WithLabelValues(string(task.Status)).Dec()

		slog.InfoContext(ctx, "task deleted", slog.String("task", string(id)), slog.String("deletedBy", string(actor.ID)))
	}

	return deleted, nil
}

func (m *TaskManager) resolveProfiles(ctx context.Context, tasks []model.Task) (map[model.UserID]model.Profile, error) {
	seen := map[model.UserID]struct{}{}
	ids := make([]model.UserID, 0)

	collect := func(id model.UserID) {
		if _, exists := seen[id]; exists {
			return
		}

		seen[id] = struct{}{}
		ids = append(ids, id)
	}

	for i := range tasks {
		collect(tasks[i].CreatedBy)
		if tasks[i].AssignedTo != nil {
			collect(*tasks[i].AssignedTo)
		}
	}

	if len(ids) == 0 {
		return map[model.UserID]model.Profile{}, nil
	}

	users, err := m.users.GetUsersByIDs(ctx, ids)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	profiles := make(map[model.UserID]model.Profile, len(users))
	for id, user := range users {
		profiles[id] = user.Profile()
	}

	return profiles, nil
}

func validateCreateInput(input *CreateTaskInput) error {
	if strings.TrimSpace(input.Title) == "" {
		return errors.WithStack(port.NewValidationError("title", "must not be empty"))
	}

	if strings.TrimSpace(input.Description) == "" {
		return errors.WithStack(port.NewValidationError("description", "must not be empty"))
	}

	if input.DueDate.IsZero() {
		return errors.WithStack(port.NewValidationError("dueDate", "is required"))
	}

	if _, err := model.ParsePriority(string(input.Priority)); err != nil {
		return errors.WithStack(port.NewValidationError("priority", "must be one of low, medium, high"))
	}

	if input.Status != "" {
		if _, err := model.ParseStatus(string(input.Status)); err != nil {
			return errors.WithStack(port.NewValidationError("status", "must be one of pending, in_progress, completed, cancelled"))
		}
	}

	return nil
}

func validatePatch(patch *TaskPatch) error {
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return errors.WithStack(port.NewValidationError("title", "must not be empty"))
	}

	if patch.Description != nil && strings.TrimSpace(*patch.Description) == "" {
		return errors.WithStack(port.NewValidationError("description", "must not be empty"))
	}

	if patch.DueDate != nil && patch.DueDate.IsZero() {
		return errors.WithStack(port.NewValidationError("dueDate", "must be a valid date"))
	}

	if patch.Priority != nil {
		if _, err := model.ParsePriority(string(*patch.Priority)); err != nil {
			return errors.WithStack(port.NewValidationError("priority", "must be one of low, medium, high"))
		}
	}

	if patch.Status != nil {
		if _, err := model.ParseStatus(string(*patch.Status)); err != nil {
			return errors.WithStack(port.NewValidationError("status", "must be one of pending, in_progress, completed, cancelled"))
		}
	}

	return nil
}
