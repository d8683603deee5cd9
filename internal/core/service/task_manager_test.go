package service

import (
	"context"
	"testing"
	"time"

	"github.com/bornholm/taskboard/internal/adapter/memory"
	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

var (
	adminActor = model.Actor{ID: "admin", Role: model.RoleAdmin}
	aliceActor = model.Actor{ID: "alice", Role: model.RoleUser}
	bobActor   = model.Actor{ID: "bob", Role: model.RoleUser}
)

func newTestTaskManager(clock func() time.Time) (*TaskManager, port.TaskStore, port.UserStore) {
	tasks := memory.NewTaskStore()
	users := memory.NewUserStore()

	manager := NewTaskManager(tasks, users, NewAccessPolicy(), WithTaskManagerClock(clock))

	return manager, tasks, users
}

func validCreateInput() CreateTaskInput {
	return CreateTaskInput{
		Title:       "Write report",
		Description: "Quarterly report for the board",
		DueDate:     time.Date(2025, 7, 1, 12, 0, 0, 0, time.UTC),
		Priority:    model.PriorityHigh,
	}
}

func TestTaskManagerCreateDefaults(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)

	manager, _, _ := newTestTaskManager(func() time.Time { return now })

	task, err := manager.CreateTask(ctx, aliceActor, validCreateInput())
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	if e, g := model.StatusPending, task.Status; e != g {
		t.Errorf("task.Status: expected %s, got %s", e, g)
	}

	if task.Tags == nil || len(task.Tags) != 0 {
		t.Errorf("task.Tags: expected empty slice, got %v", task.Tags)
	}

	if e, g := aliceActor.ID, task.CreatedBy; e != g {
		t.Errorf("task.CreatedBy: expected %s, got %s", e, g)
	}

	if task.AssignedTo != nil || task.AssignedBy != nil {
		t.Errorf("expected unassigned task, got assignedTo=%v assignedBy=%v", task.AssignedTo, task.AssignedBy)
	}

	if e, g := int64(1), task.Version; e != g {
		t.Errorf("task.Version: expected %d, got %d", e, g)
	}

	if e, g := now, task.CreatedAt; !g.Equal(e) {
		t.Errorf("task.CreatedAt: expected %s, got %s", e, g)
	}
}

func TestTaskManagerCreateValidation(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	testCases := []struct {
		Name  string
		Input CreateTaskInput
		Field string
	}{
		{
			Name: "EmptyTitle",
			Input: func() CreateTaskInput {
				input := validCreateInput()
				input.Title = "  "
				return input
			}(),
			Field: "title",
		},
		{
			Name: "EmptyDescription",
			Input: func() CreateTaskInput {
				input := validCreateInput()
				input.Description = ""
				return input
			}(),
			Field: "description",
		},
		{
			Name: "MissingDueDate",
			Input: func() CreateTaskInput {
				input := validCreateInput()
				input.DueDate = time.Time{}
				return input
			}(),
			Field: "dueDate",
		},
		{
			Name: "UnknownPriority",
			Input: func() CreateTaskInput {
				input := validCreateInput()
				input.Priority = model.Priority("urgent")
				return input
			}(),
			Field: "priority",
		},
		{
			Name: "UnknownStatus",
			Input: func() CreateTaskInput {
				input := validCreateInput()
				input.Status = model.Status("archived")
				return input
			}(),
			Field: "status",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			_, err := manager.CreateTask(ctx, aliceActor, tc.Input)
			if !port.IsValidationError(err) {
				t.Fatalf("expected a validation error, got %+v", err)
			}

			var validationErr *port.ValidationError
			if errors.As(err, &validationErr) {
				if e, g := tc.Field, validationErr.Field; e != g {
					t.Errorf("validationErr.Field: expected %s, got %s", e, g)
				}
			}
		})
	}
}

func TestTaskManagerAssignmentRequiresAdmin(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	input := validCreateInput()
	bob := bobActor.ID
	input.AssignedTo = &bob

	_, err := manager.CreateTask(ctx, aliceActor, input)
	if !errors.Is(err, port.ErrForbidden) {
		t.Errorf("expected port.ErrForbidden, got %+v", err)
	}

	task, err := manager.CreateTask(ctx, adminActor, input)
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	if task.AssignedTo == nil || *task.AssignedTo != bob {
		t.Errorf("task.AssignedTo: expected %s, got %v", bob, task.AssignedTo)
	}

	if task.AssignedBy == nil || *task.AssignedBy != adminActor.ID {
		t.Errorf("task.AssignedBy: expected %s, got %v", adminActor.ID, task.AssignedBy)
	}
}

func TestTaskManagerUpdateAssignmentForbiddenLeavesTaskUnchanged(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	task, err := manager.CreateTask(ctx, aliceActor, validCreateInput())
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	bob := bobActor.ID
	_, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{AssignedTo: &bob})
	if !errors.Is(err, port.ErrForbidden) {
		t.Errorf("expected port.ErrForbidden, got %+v", err)
	}

	current, _, err := manager.GetTask(ctx, aliceActor, task.ID)
	if err != nil {
		t.Fatalf("could not get task: %+v", errors.WithStack(err))
	}

	if e, g := task.Version, current.Version; e != g {
		t.Errorf("current.Version: expected %d, got %d", e, g)
	}

	if current.AssignedTo != nil {
		t.Errorf("expected task to stay unassigned, got %v", current.AssignedTo)
	}
}

func TestTaskManagerStatusLifecycle(t *testing.T) {
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	manager, _, _ := newTestTaskManager(func() time.Time { return now })

	task, err := manager.CreateTask(ctx, aliceActor, validCreateInput())
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	startedAt := now.Add(time.Hour)
	now = startedAt

	inProgress := model.StatusInProgress
	task, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{Status: &inProgress})
	if err != nil {
		t.Fatalf("could not update task: %+v", errors.WithStack(err))
	}

	if task.StartedAt == nil || !task.StartedAt.Equal(startedAt) {
		t.Errorf("task.StartedAt: expected %s, got %v", startedAt, task.StartedAt)
	}

	completedAt := now.Add(2 * time.Hour)
	now = completedAt

	completed := model.StatusCompleted
	task, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{Status: &completed})
	if err != nil {
		t.Fatalf("could not update task: %+v", errors.WithStack(err))
	}

	if task.CompletedAt == nil || !task.CompletedAt.Equal(completedAt) {
		t.Errorf("task.CompletedAt: expected %s, got %v", completedAt, task.CompletedAt)
	}

	if e, g := int64(3), task.Version; e != g {
		t.Errorf("task.Version: expected %d, got %d", e, g)
	}

	if e, g := 2, len(task.History); e != g {
		t.Fatalf("len(task.History): expected %d, got %d", e, g)
	}

	first, second := task.History[0], task.History[1]

	if first.From == nil || *first.From != model.StatusPending || first.To != model.StatusInProgress {
		t.Errorf("first history entry: expected pending -> in_progress, got %v -> %s", first.From, first.To)
	}

	if second.From == nil || *second.From != model.StatusInProgress || second.To != model.StatusCompleted {
		t.Errorf("second history entry: expected in_progress -> completed, got %v -> %s", second.From, second.To)
	}

	if e, g := aliceActor.ID, second.By; e != g {
		t.Errorf("second.By: expected %s, got %s", e, g)
	}
}

func TestTaskManagerTimestampsSetOnce(t *testing.T) {
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)
	manager, _, _ := newTestTaskManager(func() time.Time { return now })

	task, err := manager.CreateTask(ctx, aliceActor, validCreateInput())
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	completed := model.StatusCompleted
	pending := model.StatusPending

	firstCompletion := now.Add(time.Hour)
	now = firstCompletion

	task, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{Status: &completed})
	if err != nil {
		t.Fatalf("could not update task: %+v", errors.WithStack(err))
	}

	now = now.Add(time.Hour)

	task, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{Status: &pending})
	if err != nil {
		t.Fatalf("could not update task: %+v", errors.WithStack(err))
	}

	now = now.Add(time.Hour)

	task, err = manager.UpdateTask(ctx, aliceActor, task.ID, TaskPatch{Status: &completed})
	if err != nil {
		t.Fatalf("could not update task: %+v", errors.WithStack(err))
	}

	if task.CompletedAt == nil || !task.CompletedAt.Equal(firstCompletion) {
		t.Errorf("task.CompletedAt: expected first completion time %s, got %v", firstCompletion, task.CompletedAt)
	}

	if e, g := 3, len(task.History); e != g {
		t.Errorf("len(task.History): expected %d, got %d", e, g)
	}
}

func TestTaskManagerOutOfScopeIsNotFound(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	task, err := manager.CreateTask(ctx, aliceActor, validCreateInput())
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	_, _, err = manager.GetTask(ctx, bobActor, task.ID)
	if !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected port.ErrNotFound, got %+v", err)
	}

	title := "hijacked"
	_, err = manager.UpdateTask(ctx, bobActor, task.ID, TaskPatch{Title: &title})
	if !errors.Is(err, port.ErrNotFound) {
		t.Errorf("expected port.ErrNotFound, got %+v", err)
	}
}

func TestTaskManagerDeleteScope(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	input := validCreateInput()
	bob := bobActor.ID
	input.AssignedTo = &bob

	task, err := manager.CreateTask(ctx, adminActor, input)
	if err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	// The assignee may read and update the task but not delete it.
	deleted, err := manager.DeleteTask(ctx, bobActor, task.ID)
	if err != nil {
		t.Fatalf("could not delete task: %+v", errors.WithStack(err))
	}

	if deleted {
		t.Errorf("expected assignee delete to be refused")
	}

	if _, _, err := manager.GetTask(ctx, bobActor, task.ID); err != nil {
		t.Errorf("expected task to still exist, got %+v", err)
	}

	deleted, err = manager.DeleteTask(ctx, adminActor, task.ID)
	if err != nil {
		t.Fatalf("could not delete task: %+v", errors.WithStack(err))
	}

	if !deleted {
		t.Errorf("expected creator delete to succeed")
	}

	deleted, err = manager.DeleteTask(ctx, adminActor, task.ID)
	if err != nil {
		t.Fatalf("could not delete task: %+v", errors.WithStack(err))
	}

	if deleted {
		t.Errorf("expected second delete to report no deletion")
	}
}

func TestTaskManagerListScoping(t *testing.T) {
	ctx := context.Background()

	manager, _, users := newTestTaskManager(time.Now)

	if err := users.SaveUser(ctx, model.User{ID: aliceActor.ID, Name: "Alice", Email: "alice@example.net", Role: model.RoleUser}); err != nil {
		t.Fatalf("could not save user: %+v", errors.WithStack(err))
	}

	if _, err := manager.CreateTask(ctx, aliceActor, validCreateInput()); err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	if _, err := manager.CreateTask(ctx, bobActor, validCreateInput()); err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	input := validCreateInput()
	bob := bobActor.ID
	input.AssignedTo = &bob

	if _, err := manager.CreateTask(ctx, adminActor, input); err != nil {
		t.Fatalf("could not create task: %+v", errors.WithStack(err))
	}

	page, err := manager.ListTasks(ctx, aliceActor, port.ListOptions{})
	if err != nil {
		t.Fatalf("could not list tasks: %+v", errors.WithStack(err))
	}

	if e, g := int64(1), page.Total; e != g {
		t.Errorf("page.Total: expected %d, got %d", e, g)
	}

	if page.Users != nil {
		t.Errorf("expected no resolved profiles for a non-admin actor, got %v", page.Users)
	}

	assigned, err := manager.ListAssignedTasks(ctx, bobActor, port.ListOptions{})
	if err != nil {
		t.Fatalf("could not list assigned tasks: %+v", errors.WithStack(err))
	}

	if e, g := int64(1), assigned.Total; e != g {
		t.Errorf("assigned.Total: expected %d, got %d", e, g)
	}

	all, err := manager.ListTasks(ctx, adminActor, port.ListOptions{})
	if err != nil {
		t.Fatalf("could not list tasks: %+v", errors.WithStack(err))
	}

	if e, g := int64(3), all.Total; e != g {
		t.Errorf("all.Total: expected %d, got %d", e, g)
	}

	if all.Users == nil {
		t.Fatalf("expected resolved profiles for an admin actor")
	}

	profile, exists := all.Users[aliceActor.ID]
	if !exists {
		t.Fatalf("expected a profile for %s", aliceActor.ID)
	}

	if e, g := "Alice", profile.Name; e != g {
		t.Errorf("profile.Name: expected %s, got %s", e, g)
	}
}

func TestTaskManagerPaginationClamped(t *testing.T) {
	ctx := context.Background()

	manager, _, _ := newTestTaskManager(time.Now)

	page, err := manager.ListTasks(ctx, aliceActor, port.ListOptions{Page: 0, Limit: 500})
	if err != nil {
		t.Fatalf("could not list tasks: %+v", errors.WithStack(err))
	}

	if e, g := 1, page.Page; e != g {
		t.Errorf("page.Page: expected %d, got %d", e, g)
	}

	if e, g := port.MaxLimit, page.Limit; e != g {
		t.Errorf("page.Limit: expected %d, got %d", e, g)
	}
}
