package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/core/service"
	httpCtx "github.com/bornholm/taskboard/internal/http/context"
	"github.com/pkg/errors"
)

type Task struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	DueDate     time.Time      `json:"dueDate"`
	Priority    model.Priority `json:"priority"`
	Status      model.Status   `json:"status"`
	AssignedTo  *string        `json:"assignedTo"`
	AssignedBy  *string        `json:"assignedBy"`
	Tags        []string       `json:"tags"`
	StartedAt   *time.Time     `json:"startedAt"`
	CompletedAt *time.Time     `json:"completedAt"`
	CancelledAt *time.Time     `json:"cancelledAt"`
	CreatedBy   string         `json:"createdBy"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`

	History []HistoryEntry `json:"history"`

	// Resolved public profiles, only populated on admin views. An
	// unresolved reference stays null, never a partial object.
	CreatedByUser  *model.Profile `json:"createdByUser"`
	AssignedToUser *model.Profile `json:"assignedToUser"`
}

type HistoryEntry struct {
	From *model.Status `json:"from"`
	To   model.Status  `json:"to"`
	At   time.Time     `json:"at"`
	By   string        `json:"by"`
}

func toTaskResponse(task *model.Task, users map[model.UserID]model.Profile) Task {
	res := Task{
		ID:          string(task.ID),
		Title:       task.Title,
		Description: task.Description,
		DueDate:     task.DueDate,
		Priority:    task.Priority,
		Status:      task.Status,
		Tags:        task.Tags,
		StartedAt:   task.StartedAt,
		CompletedAt: task.CompletedAt,
		CancelledAt: task.CancelledAt,
		CreatedBy:   string(task.CreatedBy),
		CreatedAt:   task.CreatedAt,
		UpdatedAt:   task.UpdatedAt,
		History:     make([]HistoryEntry, 0, len(task.History)),
	}

	if res.Tags == nil {
		res.Tags = make([]string, 0)
	}

	if task.AssignedTo != nil {
		assignedTo := string(*task.AssignedTo)
		res.AssignedTo = &assignedTo
	}

	if task.AssignedBy != nil {
		assignedBy := string(*task.AssignedBy)
		res.AssignedBy = &assignedBy
	}

	for _, entry := range task.History {
		res.History = append(res.History, HistoryEntry{
			From: entry.From,
			To:   entry.To,
			At:   entry.At,
			By:   string(entry.By),
		})
	}

	if users != nil {
		if profile, exists := users[task.CreatedBy]; exists {
			res.CreatedByUser = &profile
		}

		if task.AssignedTo != nil {
			if profile, exists := users[*task.AssignedTo]; exists {
				res.AssignedToUser = &profile
			}
		}
	}

	return res
}

type ListTasksResponse struct {
	Data  []Task `json:"data"`
	Total int64  `json:"total"`
	Page  int    `json:"page"`
	Limit int    `json:"limit"`
}

func getListOptions(r *http.Request) port.ListOptions {
	query := r.URL.Query()

	return port.ListOptions{
		Page:      getQueryPage(query, 1),
		Limit:     getQueryLimit(query, port.DefaultLimit),
		SortBy:    query.Get("sortBy"),
		SortOrder: port.SortOrder(query.Get("sortOrder")),
	}
}

func (h *Handler) handleListTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	page, err := h.taskManager.ListTasks(ctx, actor, getListOptions(r))
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusOK, toListResponse(page))
}

func (h *Handler) handleListAssignedTasks(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	page, err := h.taskManager.ListAssignedTasks(ctx, actor, getListOptions(r))
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusOK, toListResponse(page))
}

func toListResponse(page *service.TaskPage) ListTasksResponse {
	res := ListTasksResponse{
		Data:  make([]Task, 0, len(page.Tasks)),
		Total: page.Total,
		Page:  page.Page,
		Limit: page.Limit,
	}

	for i := range page.Tasks {
		res.Data = append(res.Data, toTaskResponse(&page.Tasks[i], page.Users))
	}

	return res
}

type GetTaskResponse struct {
	Task Task `json:"task"`
}

func (h *Handler) handleGetTask(w http.ResponseWriter, r *http.Request) {
	taskID := model.TaskID(r.PathValue("taskID"))

	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	task, users, err := h.taskManager.GetTask(ctx, actor, taskID)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusOK, GetTaskResponse{Task: toTaskResponse(task, users)})
}

type CreateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	Tags        []string   `json:"tags"`
}

func (h *Handler) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		encodeResponse(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    model.Priority(req.Priority),
		Status:      model.Status(req.Status),
		Tags:        req.Tags,
	}

	if req.DueDate != nil {
		input.DueDate = *req.DueDate
	}

	if req.AssignedTo != nil {
		assignedTo := model.UserID(*req.AssignedTo)
		input.AssignedTo = &assignedTo
	}

	task, err := h.taskManager.CreateTask(ctx, actor, input)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusCreated, GetTaskResponse{Task: toTaskResponse(task, nil)})
}

type UpdateTaskRequest struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"dueDate"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	AssignedTo  *string    `json:"assignedTo"`
	Tags        *[]string  `json:"tags"`
}

func (h *Handler) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	taskID := model.TaskID(r.PathValue("taskID"))

	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	var req UpdateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		encodeResponse(w, r, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	patch := service.TaskPatch{
		Title:       req.Title,
		Description: req.Description,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}

	if req.Priority != nil {
		priority := model.Priority(*req.Priority)
		patch.Priority = &priority
	}

	if req.Status != nil {
		status := model.Status(*req.Status)
		patch.Status = &status
	}

	if req.AssignedTo != nil {
		assignedTo := model.UserID(*req.AssignedTo)
		patch.AssignedTo = &assignedTo
	}

	task, err := h.taskManager.UpdateTask(ctx, actor, taskID, patch)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusOK, GetTaskResponse{Task: toTaskResponse(task, nil)})
}

type DeleteTaskResponse struct {
	Deleted bool `json:"deleted"`
}

func (h *Handler) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	taskID := model.TaskID(r.PathValue("taskID"))

	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	deleted, err := h.taskManager.DeleteTask(ctx, actor, taskID)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	if !deleted {
		encodeResponse(w, r, http.StatusNotFound, errorResponse{Error: "task not found"})
		return
	}

	encodeResponse(w, r, http.StatusOK, DeleteTaskResponse{Deleted: true})
}
