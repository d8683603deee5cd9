package gorm

import (
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
)

type Task struct {
	ID string `gorm:"primaryKey;autoIncrement:false"`

	CreatedAt time.Time `gorm:"index"`
	UpdatedAt time.Time `gorm:"index"`

	Title       string `gorm:"not null"`
	Description string `gorm:"not null"`

	DueDate  time.Time `gorm:"index"`
	Priority string    `gorm:"index"`
	Status   string    `gorm:"index"`

	AssignedTo *string `gorm:"index"`
	AssignedBy *string

	Tags []string `gorm:"serializer:json"`

	StartedAt   *time.Time
	CompletedAt *time.Time
	CancelledAt *time.Time

	CreatedBy string `gorm:"index;not null"`

	Version int64 `gorm:"not null;default:1"`

	History []*TaskHistoryEntry `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE;"`
}

type TaskHistoryEntry struct {
	ID uint `gorm:"primaryKey"`

	TaskID string `gorm:"index;not null"`

	FromStatus *string
	ToStatus   string `gorm:"not null"`

	At time.Time
	By string
}

func fromTask(t *model.Task) *Task {
	record := &Task{
		ID:          string(t.ID),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		Title:       t.Title,
		Description: t.Description,
		DueDate:     t.DueDate,
		Priority:    string(t.Priority),
		Status:      string(t.Status),
		Tags:        t.Tags,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
		CancelledAt: t.CancelledAt,
		CreatedBy:   string(t.CreatedBy),
		Version:     t.Version,
	}

	if t.AssignedTo != nil {
		assignedTo := string(*t.AssignedTo)
		record.AssignedTo = &assignedTo
	}

	if t.AssignedBy != nil {
		assignedBy := string(*t.AssignedBy)
		record.AssignedBy = &assignedBy
	}

	for _, entry := range t.History {
		record.History = append(record.History, fromHistoryEntry(t.ID, entry))
	}

	return record
}

func fromHistoryEntry(taskID model.TaskID, entry model.HistoryEntry) *TaskHistoryEntry {
	record := &TaskHistoryEntry{
		TaskID:   string(taskID),
		ToStatus: string(entry.To),
		At:       entry.At,
		By:       string(entry.By),
	}

	if entry.From != nil {
		from := string(*entry.From)
		record.FromStatus = &from
	}

	return record
}

func toTask(record *Task) model.Task {
	task := model.Task{
		ID:          model.TaskID(record.ID),
		CreatedAt:   record.CreatedAt,
		UpdatedAt:   record.UpdatedAt,
		Title:       record.Title,
		Description: record.Description,
		DueDate:     record.DueDate,
		Priority:    model.Priority(record.Priority),
		Status:      model.Status(record.Status),
		Tags:        record.Tags,
		StartedAt:   record.StartedAt,
		CompletedAt: record.CompletedAt,
		CancelledAt: record.CancelledAt,
		CreatedBy:   model.UserID(record.CreatedBy),
		Version:     record.Version,
	}

	if task.Tags == nil {
		task.Tags = make([]string, 0)
	}

	if record.AssignedTo != nil {
		assignedTo := model.UserID(*record.AssignedTo)
		task.AssignedTo = &assignedTo
	}

	if record.AssignedBy != nil {
		assignedBy := model.UserID(*record.AssignedBy)
		task.AssignedBy = &assignedBy
	}

	task.History = make([]model.HistoryEntry, 0, len(record.History))
	for _, entry := range record.History {
		task.History = append(task.History, toHistoryEntry(entry))
	}

	return task
}

func toHistoryEntry(record *TaskHistoryEntry) model.HistoryEntry {
	entry := model.HistoryEntry{
		To: model.Status(record.ToStatus),
		At: record.At,
		By: model.UserID(record.By),
	}

	if record.FromStatus != nil {
		from := model.Status(*record.FromStatus)
		entry.From = &from
	}

	return entry
}
