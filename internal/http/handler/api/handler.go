package api

import (
	"net/http"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/service"
	"github.com/bornholm/taskboard/internal/http/middleware/authz"
)

type Handler struct {
	taskManager *service.TaskManager
	analytics   *service.AnalyticsEngine
	mux         *http.ServeMux
}

// ServeHTTP implements http.Handler.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func NewHandler(taskManager *service.TaskManager, analytics *service.AnalyticsEngine) *Handler {
	h := &Handler{
		taskManager: taskManager,
		analytics:   analytics,
		mux:         &http.ServeMux{},
	}

	assertUser := authz.Middleware(authz.OneOf(authz.Has(model.RoleUser), authz.Has(model.RoleAdmin)))
	assertAdmin := authz.Middleware(authz.Has(model.RoleAdmin))

	h.mux.Handle("GET /tasks", assertUser(http.HandlerFunc(h.handleListTasks)))
	h.mux.Handle("GET /tasks/assigned", assertUser(http.HandlerFunc(h.handleListAssignedTasks)))
	h.mux.Handle("GET /tasks/{taskID}", assertUser(http.HandlerFunc(h.handleGetTask)))
	h.mux.Handle("POST /tasks", assertUser(http.HandlerFunc(h.handleCreateTask)))
	h.mux.Handle("PATCH /tasks/{taskID}", assertUser(http.HandlerFunc(h.handleUpdateTask)))
	h.mux.Handle("DELETE /tasks/{taskID}", assertUser(http.HandlerFunc(h.handleDeleteTask)))

	h.mux.Handle("GET /analytics", assertAdmin(http.HandlerFunc(h.handleGetAnalytics)))

	return h
}

var _ http.Handler = &Handler{}
