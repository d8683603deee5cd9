package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/bornholm/taskboard/internal/core/model"
	"github.com/bornholm/taskboard/internal/core/port"
	httpCtx "github.com/bornholm/taskboard/internal/http/context"
	"github.com/pkg/errors"
)

func (h *Handler) handleGetAnalytics(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	actor := httpCtx.User(ctx).Actor()

	filter, err := getAnalyticsFilter(r)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	report, err := h.analytics.Report(ctx, actor, filter)
	if err != nil {
		handleError(w, r, errors.WithStack(err))
		return
	}

	encodeResponse(w, r, http.StatusOK, report)
}

func getAnalyticsFilter(r *http.Request) (port.TaskFilter, error) {
	query := r.URL.Query()

	var filter port.TaskFilter

	if raw := query.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.WithStack(port.NewValidationError("from", "must be a RFC3339 date"))
		}

		filter.From = &from
	}

	if raw := query.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return filter, errors.WithStack(port.NewValidationError("to", "must be a RFC3339 date"))
		}

		filter.To = &to
	}

	if raw := query.Get("assignedTo"); raw != "" {
		assignedTo := model.UserID(raw)
		filter.AssignedTo = &assignedTo
	}

	if raw := query.Get("createdBy"); raw != "" {
		createdBy := model.UserID(raw)
		filter.CreatedBy = &createdBy
	}

	if raw := query.Get("status"); raw != "" {
		status, err := model.ParseStatus(raw)
		if err != nil {
			return filter, errors.WithStack(port.NewValidationError("status", "must be one of pending, in_progress, completed, cancelled"))
		}

		filter.Status = &status
	}

	for _, raw := range query["tags"] {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				filter.Tags = append(filter.Tags, tag)
			}
		}
	}

	return filter, nil
}
