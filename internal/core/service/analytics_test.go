package service

import (
	"context"
	"testing"
	"time"

	"github.com/bornholm/taskboard/internal/adapter/memory"
	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/davecgh/go-spew/spew"
	"github.com/pkg/errors"
)

var analyticsNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func newAnalyticsFixture(t *testing.T, tasks []model.Task) *AnalyticsEngine {
	store := memory.NewTaskStore()

	ctx := context.Background()
	for _, task := range tasks {
		if _, err := store.CreateTask(ctx, task); err != nil {
			t.Fatalf("could not create task: %+v", errors.WithStack(err))
		}
	}

	return NewAnalyticsEngine(store, NewAccessPolicy(), WithAnalyticsEngineClock(func() time.Time {
		return analyticsNow
	}))
}

func analyticsTask(title string, status model.Status, modify func(task *model.Task)) model.Task {
	task := model.Task{
		ID:          model.NewTaskID(),
		Title:       title,
		Description: "description of " + title,
		DueDate:     analyticsNow.Add(14 * 24 * time.Hour),
		Priority:    model.PriorityMedium,
		Status:      status,
		Tags:        []string{},
		CreatedBy:   "alice",
		CreatedAt:   analyticsNow.Add(-48 * time.Hour),
		UpdatedAt:   analyticsNow.Add(-24 * time.Hour),
		Version:     1,
	}

	if modify != nil {
		modify(&task)
	}

	return task
}

func TestAnalyticsRequiresAdmin(t *testing.T) {
	ctx := context.Background()

	engine := newAnalyticsFixture(t, nil)

	_, err := engine.Report(ctx, model.Actor{ID: "alice", Role: model.RoleUser}, port.TaskFilter{})
	if !errors.Is(err, port.ErrForbidden) {
		t.Errorf("expected port.ErrForbidden, got %+v", err)
	}

	if _, err := engine.Report(ctx, model.Actor{ID: "admin", Role: model.RoleAdmin}, port.TaskFilter{}); err != nil {
		t.Errorf("could not generate report: %+v", errors.WithStack(err))
	}
}

func TestAnalyticsReport(t *testing.T) {
	ctx := context.Background()

	bob := model.UserID("bob")
	carol := model.UserID("carol")

	tasks := []model.Task{
		// Overdue high-priority task, still pending.
		analyticsTask("overdue", model.StatusPending, func(task *model.Task) {
			task.Priority = model.PriorityHigh
			task.DueDate = analyticsNow.Add(-24 * time.Hour)
			task.Tags = []string{"backend"}
		}),
		// Due within the upcoming window.
		analyticsTask("upcoming", model.StatusInProgress, func(task *model.Task) {
			task.DueDate = analyticsNow.Add(3 * 24 * time.Hour)
			task.AssignedTo = &bob
			task.Tags = []string{"backend", "api"}
		}),
		// Completed yesterday by bob, one day of lead time.
		analyticsTask("done", model.StatusCompleted, func(task *model.Task) {
			task.AssignedTo = &bob
			task.CreatedAt = analyticsNow.Add(-48 * time.Hour)
			task.UpdatedAt = analyticsNow.Add(-24 * time.Hour)
			task.Tags = []string{"backend"}
		}),
		// In progress but untouched for two weeks.
		analyticsTask("stuck", model.StatusInProgress, func(task *model.Task) {
			task.AssignedTo = &carol
			task.UpdatedAt = analyticsNow.Add(-14 * 24 * time.Hour)
			task.CreatedAt = analyticsNow.Add(-15 * 24 * time.Hour)
		}),
	}

	engine := newAnalyticsFixture(t, tasks)

	report, err := engine.Report(ctx, model.Actor{ID: "admin", Role: model.RoleAdmin}, port.TaskFilter{})
	if err != nil {
		t.Fatalf("could not generate report: %+v", errors.WithStack(err))
	}

	if e, g := analyticsNow, report.GeneratedAt; !g.Equal(e) {
		t.Errorf("report.GeneratedAt: expected %s, got %s", e, g)
	}

	if e, g := int64(1), report.StatusBreakdown[model.StatusPending]; e != g {
		t.Errorf("statusBreakdown[pending]: expected %d, got %d", e, g)
	}

	if e, g := int64(2), report.StatusBreakdown[model.StatusInProgress]; e != g {
		t.Errorf("statusBreakdown[in_progress]: expected %d, got %d", e, g)
	}

	if e, g := int64(1), report.Overdue; e != g {
		t.Errorf("report.Overdue: expected %d, got %d", e, g)
	}

	if e, g := int64(1), report.Upcoming; e != g {
		t.Errorf("report.Upcoming: expected %d, got %d", e, g)
	}

	if e, g := int64(1), report.PriorityOverdue[model.PriorityHigh]; e != g {
		t.Errorf("priorityOverdue[high]: expected %d, got %d", e, g)
	}

	if e, g := int64(1), report.StuckTasks; e != g {
		t.Errorf("report.StuckTasks: expected %d, got %d", e, g)
	}

	if e, g := 2, len(report.PerUserCounts); e != g {
		t.Fatalf("len(report.PerUserCounts): expected %d, got %d", e, g)
	}

	// bob holds two assignments and sorts first.
	if e, g := bob, report.PerUserCounts[0].UserID; e != g {
		t.Errorf("perUserCounts[0].UserID: expected %s, got %s", e, g)
	}

	if e, g := int64(2), report.PerUserCounts[0].Count; e != g {
		t.Errorf("perUserCounts[0].Count: expected %d, got %d", e, g)
	}

	if e, g := 1, len(report.AvgCompletionPerUser); e != g {
		t.Fatalf("len(report.AvgCompletionPerUser): expected %d, got %d", e, g)
	}

	completion := report.AvgCompletionPerUser[0]

	if e, g := bob, completion.UserID; e != g {
		t.Errorf("completion.UserID: expected %s, got %s", e, g)
	}

	if e, g := (24 * time.Hour).Seconds(), completion.AvgSeconds; e != g {
		t.Errorf("completion.AvgSeconds: expected %f, got %f", e, g)
	}

	if len(report.TagsTop) == 0 || report.TagsTop[0].Tag != "backend" {
		t.Errorf("tagsTop[0]: expected backend, got %s", spew.Sdump(report.TagsTop))
	}

	if e, g := int64(3), report.TagsTop[0].Count; e != g {
		t.Errorf("tagsTop[0].Count: expected %d, got %d", e, g)
	}
}

func TestAnalyticsPerDayBuckets(t *testing.T) {
	now := analyticsNow

	tasks := []model.Task{
		analyticsTask("today", model.StatusPending, func(task *model.Task) {
			task.CreatedAt = now.Add(-time.Hour)
		}),
		analyticsTask("yesterday", model.StatusCompleted, func(task *model.Task) {
			task.CreatedAt = now.Add(-25 * time.Hour)
			task.UpdatedAt = now.Add(-24 * time.Hour)
		}),
		// Outside the trailing window, must not appear.
		analyticsTask("ancient", model.StatusPending, func(task *model.Task) {
			task.CreatedAt = now.Add(-40 * 24 * time.Hour)
		}),
	}

	created := createdPerDay(tasks, now)

	if e, g := 2, len(created); e != g {
		t.Fatalf("len(created): expected %d, got %d", e, g)
	}

	// Buckets are ascending by day.
	if e, g := now.Add(-25*time.Hour).Format("2006-01-02"), created[0].Day; e != g {
		t.Errorf("created[0].Day: expected %s, got %s", e, g)
	}

	if e, g := now.Format("2006-01-02"), created[1].Day; e != g {
		t.Errorf("created[1].Day: expected %s, got %s", e, g)
	}

	completed := completedPerDay(tasks, now)

	if e, g := 1, len(completed); e != g {
		t.Fatalf("len(completed): expected %d, got %d", e, g)
	}

	if e, g := int64(1), completed[0].Count; e != g {
		t.Errorf("completed[0].Count: expected %d, got %d", e, g)
	}
}

func TestAnalyticsTopTagsTruncated(t *testing.T) {
	tasks := []model.Task{
		analyticsTask("tagged", model.StatusPending, func(task *model.Task) {
			task.Tags = []string{"a", "b", "c", "b", "c", "c"}
		}),
	}

	top := topTags(tasks, 2)

	if e, g := 2, len(top); e != g {
		t.Fatalf("len(top): expected %d, got %d", e, g)
	}

	if e, g := "c", top[0].Tag; e != g {
		t.Errorf("top[0].Tag: expected %s, got %s", e, g)
	}

	if e, g := "b", top[1].Tag; e != g {
		t.Errorf("top[1].Tag: expected %s, got %s", e, g)
	}
}
