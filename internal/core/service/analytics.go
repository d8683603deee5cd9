package service

import (
	"context"
	"sort"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

const (
	upcomingWindow = 7 * 24 * time.Hour
	stuckThreshold = 7 * 24 * time.Hour
	trailingDays   = 30
	topTagsCount   = 10
)

type AnalyticsReport struct {
	GeneratedAt time.Time `json:"generatedAt"`

	StatusBreakdown map[model.Status]int64 `json:"statusBreakdown"`

	Overdue  int64 `json:"overdue"`
	Upcoming int64 `json:"upcoming"`

	PerUserCounts        []UserCount      `json:"perUserCounts"`
	AvgCompletionPerUser []UserCompletion `json:"avgCompletionPerUser"`

	TagsTop []TagCount `json:"tagsTop"`

	PriorityOverdue map[model.Priority]int64 `json:"priorityOverdue"`

	CreatedPerDay   []DayCount `json:"createdPerDay"`
	CompletedPerDay []DayCount `json:"completedPerDay"`

	StuckTasks int64 `json:"stuckTasks"`
}

type UserCount struct {
	UserID model.UserID `json:"userId"`
	Count  int64        `json:"count"`
}

type UserCompletion struct {
	UserID model.UserID `json:"userId"`

	// AvgSeconds is the mean duration between creation and the last
	// update of the user's completed tasks.
	AvgSeconds float64 `json:"avgSeconds"`
	N          int64   `json:"n"`
}

type TagCount struct {
	Tag   string `json:"tag"`
	Count int64  `json:"count"`
}

type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AnalyticsEngine computes one aggregate report over a filtered task
// set. It is read-only: every facet is a pure function of the fetched
// records and a single snapshot timestamp, so all windows within a
// report are mutually consistent.
type AnalyticsEngine struct {
	store  port.TaskStore
	policy *AccessPolicy
	clock  func() time.Time
}

type AnalyticsEngineOptions struct {
	Clock func() time.Time
}

type AnalyticsEngineOptionFunc func(opts *AnalyticsEngineOptions)

func WithAnalyticsEngineClock(clock func() time.Time) AnalyticsEngineOptionFunc {
	return func(opts *AnalyticsEngineOptions) {
		opts.Clock = clock
	}
}

func NewAnalyticsEngine(store port.TaskStore, policy *AccessPolicy, funcs ...AnalyticsEngineOptionFunc) *AnalyticsEngine {
	opts := &AnalyticsEngineOptions{
		Clock: time.Now,
	}
	for _, fn := range funcs {
		fn(opts)
	}

	return &AnalyticsEngine{
		store:  store,
		policy: policy,
		clock:  opts.Clock,
	}
}

func (e *AnalyticsEngine) Report(ctx context.Context, actor model.Actor, filter port.TaskFilter) (*AnalyticsReport, error) {
	if !e.policy.CanViewAnalytics(actor) {
		return nil, errors.WithStack(port.ErrForbidden)
	}

	tasks, err := e.store.QueryTasksByFilter(ctx, filter)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	now := e.clock()

	report := &AnalyticsReport{
		GeneratedAt:          now,
		StatusBreakdown:      statusBreakdown(tasks),
		Overdue:              overdueCount(tasks, now),
		Upcoming:             upcomingCount(tasks, now),
		PerUserCounts:        perUserCounts(tasks),
		AvgCompletionPerUser: avgCompletionPerUser(tasks),
		TagsTop:              topTags(tasks, topTagsCount),
		PriorityOverdue:      priorityOverdue(tasks, now),
		CreatedPerDay:        createdPerDay(tasks, now),
		CompletedPerDay:      completedPerDay(tasks, now),
		StuckTasks:           stuckCount(tasks, now),
	}

	return report, nil
}

func statusBreakdown(tasks []model.Task) map[model.Status]int64 {
	breakdown := make(map[model.Status]int64, len(model.Statuses()))
	for i := range tasks {
		breakdown[tasks[i].Status]++
	}

	return breakdown
}

func isOverdue(task *model.Task, now time.Time) bool {
	return task.Status != model.StatusCompleted && task.DueDate.Before(now)
}

func overdueCount(tasks []model.Task, now time.Time) int64 {
	var count int64
	for i := range tasks {
		if isOverdue(&tasks[i], now) {
			count++
		}
	}

	return count
}

func upcomingCount(tasks []model.Task, now time.Time) int64 {
	horizon := now.Add(upcomingWindow)

	var count int64
	for i := range tasks {
		task := &tasks[i]

		if task.Status != model.StatusPending && task.Status != model.StatusInProgress {
			continue
		}

		if task.DueDate.Before(now) || task.DueDate.After(horizon) {
			continue
		}

		count++
	}

	return count
}

func perUserCounts(tasks []model.Task) []UserCount {
	byUser := map[model.UserID]int64{}
	for i := range tasks {
		if tasks[i].AssignedTo == nil {
			continue
		}

		byUser[*tasks[i].AssignedTo]++
	}

	counts := make([]UserCount, 0, len(byUser))
	for userID, count := range byUser {
		counts = append(counts, UserCount{UserID: userID, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}

		return counts[i].UserID < counts[j].UserID
	})

	return counts
}

func avgCompletionPerUser(tasks []model.Task) []UserCompletion {
	type sample struct {
		total time.Duration
		n     int64
	}

	byUser := map[model.UserID]*sample{}

	for i := range tasks {
		task := &tasks[i]

		if task.Status != model.StatusCompleted || task.AssignedTo == nil {
			continue
		}

		s, exists := byUser[*task.AssignedTo]
		if !exists {
			s = &sample{}
			byUser[*task.AssignedTo] = s
		}

		s.total += task.UpdatedAt.Sub(task.CreatedAt)
		s.n++
	}

	completions := make([]UserCompletion, 0, len(byUser))
	for userID, s := range byUser {
		completions = append(completions, UserCompletion{
			UserID:     userID,
			AvgSeconds: s.total.Seconds() / float64(s.n),
			N:          s.n,
		})
	}

	sort.Slice(completions, func(i, j int) bool {
		if completions[i].AvgSeconds != completions[j].AvgSeconds {
			return completions[i].AvgSeconds < completions[j].AvgSeconds
		}

		return completions[i].UserID < completions[j].UserID
	})

	return completions
}

func topTags(tasks []model.Task, max int) []TagCount {
	byTag := map[string]int64{}
	for i := range tasks {
		for _, tag := range tasks[i].Tags {
			byTag[tag]++
		}
	}

	counts := make([]TagCount, 0, len(byTag))
	for tag, count := range byTag {
		counts = append(counts, TagCount{Tag: tag, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		if counts[i].Count != counts[j].Count {
			return counts[i].Count > counts[j].Count
		}

		return counts[i].Tag < counts[j].Tag
	})

	if len(counts) > max {
		counts = counts[:max]
	}

	return counts
}

func priorityOverdue(tasks []model.Task, now time.Time) map[model.Priority]int64 {
	byPriority := map[model.Priority]int64{}
	for i := range tasks {
		if isOverdue(&tasks[i], now) {
			byPriority[tasks[i].Priority]++
		}
	}

	return byPriority
}

func createdPerDay(tasks []model.Task, now time.Time) []DayCount {
	return perDay(tasks, now, func(task *model.Task) (time.Time, bool) {
		return task.CreatedAt, true
	})
}

func completedPerDay(tasks []model.Task, now time.Time) []DayCount {
	return perDay(tasks, now, func(task *model.Task) (time.Time, bool) {
		return task.UpdatedAt, task.Status == model.StatusCompleted
	})
}

// perDay buckets tasks by calendar day over the trailing 30 days,
// ascending by day.
func perDay(tasks []model.Task, now time.Time, keyFn func(task *model.Task) (time.Time, bool)) []DayCount {
	start := now.AddDate(0, 0, -trailingDays)

	byDay := map[string]int64{}
	for i := range tasks {
		at, ok := keyFn(&tasks[i])
		if !ok {
			continue
		}

		if at.Before(start) || at.After(now) {
			continue
		}

		byDay[at.Format("2006-01-02")]++
	}

	counts := make([]DayCount, 0, len(byDay))
	for day, count := range byDay {
		counts = append(counts, DayCount{Day: day, Count: count})
	}

	sort.Slice(counts, func(i, j int) bool {
		return counts[i].Day < counts[j].Day
	})

	return counts
}

func stuckCount(tasks []model.Task, now time.Time) int64 {
	threshold := now.Add(-stuckThreshold)

	var count int64
	for i := range tasks {
		if tasks[i].Status == model.StatusInProgress && tasks[i].UpdatedAt.Before(threshold) {
			count++
		}
	}

	return count
}
