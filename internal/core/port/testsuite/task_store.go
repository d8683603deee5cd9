package testsuite

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

// TestTaskStore runs the port.TaskStore conformance suite against the
// store returned by the factory. The factory is called once per test
// case and must return an empty store.
func TestTaskStore(t *testing.T, factory func(t *testing.T) (port.TaskStore, error)) {
	type testCase struct {
		Name string
		Run  func(t *testing.T, ctx context.Context, store port.TaskStore) error
	}

	alice := model.UserID("alice")
	bob := model.UserID("bob")

	newTask := func(title string, createdBy model.UserID) model.Task {
		now := time.Now().UTC().Truncate(time.Second)

		return model.Task{
			ID:          model.NewTaskID(),
			Title:       title,
			Description: "description of " + title,
			DueDate:     now.Add(24 * time.Hour),
			Priority:    model.PriorityMedium,
			Status:      model.StatusPending,
			Tags:        []string{"suite"},
			CreatedBy:   createdBy,
			CreatedAt:   now,
			UpdatedAt:   now,
			Version:     1,
		}
	}

	testCases := []testCase{
		{
			Name: "CreateThenGet",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("create-then-get", alice)

				created, err := store.CreateTask(ctx, task)
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := task.ID, created.ID; e != g {
					t.Errorf("created.ID: expected %s, got %s", e, g)
				}

				found, err := store.GetTaskByID(ctx, task.ID, port.ScopeAll())
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := task.Title, found.Title; e != g {
					t.Errorf("found.Title: expected %s, got %s", e, g)
				}

				if e, g := model.StatusPending, found.Status; e != g {
					t.Errorf("found.Status: expected %s, got %s", e, g)
				}

				if e, g := 0, len(found.History); e != g {
					t.Errorf("len(found.History): expected %d, got %d", e, g)
				}

				return nil
			},
		},
		{
			Name: "GetOutOfScopeIsNotFound",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("out-of-scope", alice)

				if _, err := store.CreateTask(ctx, task); err != nil {
					return errors.WithStack(err)
				}

				_, err := store.GetTaskByID(ctx, task.ID, port.ScopeCreatedByOrAssignedTo(bob))
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound, got %+v", err)
				}

				_, err = store.GetTaskByID(ctx, model.TaskID("missing"), port.ScopeAll())
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound for missing id, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "ScopeMatchesAssignee",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("assigned", alice)
				task.AssignedTo = &bob
				assignedBy := alice
				task.AssignedBy = &assignedBy

				if _, err := store.CreateTask(ctx, task); err != nil {
					return errors.WithStack(err)
				}

				found, err := store.GetTaskByID(ctx, task.ID, port.ScopeCreatedByOrAssignedTo(bob))
				if err != nil {
					return errors.WithStack(err)
				}

				if found.AssignedTo == nil || *found.AssignedTo != bob {
					t.Errorf("found.AssignedTo: expected %s, got %v", bob, found.AssignedTo)
				}

				return nil
			},
		},
		{
			Name: "QueryTasksPagination",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				for i := 0; i < 5; i++ {
					task := newTask(fmt.Sprintf("task-%d", i), alice)
					task.CreatedAt = task.CreatedAt.Add(time.Duration(i) * time.Minute)

					if _, err := store.CreateTask(ctx, task); err != nil {
						return errors.WithStack(err)
					}
				}

				tasks, total, err := store.QueryTasks(ctx, port.ScopeCreatedBy(alice), port.ListOptions{Page: 2, Limit: 2})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := int64(5), total; e != g {
					t.Errorf("total: expected %d, got %d", e, g)
				}

				if e, g := 2, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				// Default sort is createdAt desc: page 2 holds task-2, task-1.
				if e, g := "task-2", tasks[0].Title; e != g {
					t.Errorf("tasks[0].Title: expected %s, got %s", e, g)
				}

				return nil
			},
		},
		{
			Name: "QueryTasksScoped",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				mine := newTask("mine", alice)
				other := newTask("other", bob)

				if _, err := store.CreateTask(ctx, mine); err != nil {
					return errors.WithStack(err)
				}
				if _, err := store.CreateTask(ctx, other); err != nil {
					return errors.WithStack(err)
				}

				tasks, total, err := store.QueryTasks(ctx, port.ScopeCreatedBy(alice), port.ListOptions{})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := int64(1), total; e != g {
					t.Errorf("total: expected %d, got %d", e, g)
				}

				if len(tasks) != 1 || tasks[0].CreatedBy != alice {
					t.Errorf("expected only tasks created by %s, got %s", alice, spew.Sdump(tasks))
				}

				return nil
			},
		},
		{
			Name: "UpdateTaskAppendsHistory",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("update", alice)

				created, err := store.CreateTask(ctx, task)
				if err != nil {
					return errors.WithStack(err)
				}

				next := created.Clone()
				from := next.Status
				next.Status = model.StatusInProgress
				next.History = append(next.History, model.HistoryEntry{
					From: &from,
					To:   model.StatusInProgress,
					At:   time.Now().UTC(),
					By:   alice,
				})
				next.Version = created.Version + 1

				updated, err := store.UpdateTask(ctx, next, created.Version)
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := model.StatusInProgress, updated.Status; e != g {
					t.Errorf("updated.Status: expected %s, got %s", e, g)
				}

				if e, g := 1, len(updated.History); e != g {
					t.Fatalf("len(updated.History): expected %d, got %d", e, g)
				}

				if updated.History[0].From == nil || *updated.History[0].From != model.StatusPending {
					t.Errorf("updated.History[0].From: expected %s, got %v", model.StatusPending, updated.History[0].From)
				}

				if e, g := created.Version+1, updated.Version; e != g {
					t.Errorf("updated.Version: expected %d, got %d", e, g)
				}

				return nil
			},
		},
		{
			Name: "UpdateTaskVersionConflict",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("conflict", alice)

				created, err := store.CreateTask(ctx, task)
				if err != nil {
					return errors.WithStack(err)
				}

				next := created.Clone()
				next.Version = created.Version + 1

				if _, err := store.UpdateTask(ctx, next, created.Version); err != nil {
					return errors.WithStack(err)
				}

				// Same expected version again: the record moved on.
				stale := created.Clone()
				stale.Version = created.Version + 1

				_, err = store.UpdateTask(ctx, stale, created.Version)
				if !errors.Is(err, port.ErrConflict) {
					t.Errorf("expected port.ErrConflict, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "DeleteTaskScoped",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				task := newTask("delete", alice)

				if _, err := store.CreateTask(ctx, task); err != nil {
					return errors.WithStack(err)
				}

				deleted, err := store.DeleteTaskByID(ctx, task.ID, port.ScopeCreatedBy(bob))
				if err != nil {
					return errors.WithStack(err)
				}

				if deleted {
					t.Errorf("expected out-of-scope delete to be a no-op")
				}

				deleted, err = store.DeleteTaskByID(ctx, task.ID, port.ScopeCreatedBy(alice))
				if err != nil {
					return errors.WithStack(err)
				}

				if !deleted {
					t.Errorf("expected in-scope delete to succeed")
				}

				_, err = store.GetTaskByID(ctx, task.ID, port.ScopeAll())
				if !errors.Is(err, port.ErrNotFound) {
					t.Errorf("expected port.ErrNotFound after delete, got %+v", err)
				}

				return nil
			},
		},
		{
			Name: "QueryTasksByFilter",
			Run: func(t *testing.T, ctx context.Context, store port.TaskStore) error {
				urgent := newTask("urgent", alice)
				urgent.Tags = []string{"urgent", "backend"}
				urgent.Status = model.StatusInProgress

				later := newTask("later", bob)
				later.Tags = []string{"frontend"}

				if _, err := store.CreateTask(ctx, urgent); err != nil {
					return errors.WithStack(err)
				}
				if _, err := store.CreateTask(ctx, later); err != nil {
					return errors.WithStack(err)
				}

				status := model.StatusInProgress
				tasks, err := store.QueryTasksByFilter(ctx, port.TaskFilter{
					Status: &status,
					Tags:   []string{"urgent", "unknown"},
				})
				if err != nil {
					return errors.WithStack(err)
				}

				if e, g := 1, len(tasks); e != g {
					t.Fatalf("len(tasks): expected %d, got %d", e, g)
				}

				if e, g := "urgent", tasks[0].Title; e != g {
					t.Errorf("tasks[0].Title: expected %s, got %s", e, g)
				}

				return nil
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.Name, func(t *testing.T) {
			ctx := context.Background()

			store, err := factory(t)
			if err != nil {
				t.Fatalf("could not create store: %+v", errors.WithStack(err))
			}

			if err := tc.Run(t, ctx, store); err != nil {
				t.Fatalf("could not run test: %+v", errors.WithStack(err))
			}
		})
	}
}
