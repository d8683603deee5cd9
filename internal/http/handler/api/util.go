package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/pkg/errors"
)

func getQueryPage(query url.Values, defaultValue int) int {
	return getQueryInt(query, "page", defaultValue)
}

func getQueryLimit(query url.Values, defaultValue int) int {
	return getQueryInt(query, "limit", defaultValue)
}

func getQueryInt(query url.Values, name string, defaultValue int) int {
	raw := query.Get(name)
	if raw == "" {
		return defaultValue
	}

	value, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return defaultValue
	}

	return int(value)
}

func encodeResponse(w http.ResponseWriter, r *http.Request, status int, res any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", " ")

	if err := encoder.Encode(res); err != nil {
		slog.ErrorContext(r.Context(), "could not encode response", slog.Any("error", errors.WithStack(err)))
	}
}

type errorResponse struct {
	Error string `json:"error"`
}

// handleError maps core errors to their HTTP status. Storage failures
// are logged and surfaced as a generic failure.
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *port.ValidationError
	if errors.As(err, &validationErr) {
		encodeResponse(w, r, http.StatusBadRequest, errorResponse{Error: validationErr.Error()})
		return
	}

	if errors.Is(err, port.ErrNotFound) {
		encodeResponse(w, r, http.StatusNotFound, errorResponse{Error: "task not found"})
		return
	}

	if errors.Is(err, port.ErrForbidden) {
		encodeResponse(w, r, http.StatusForbidden, errorResponse{Error: http.StatusText(http.StatusForbidden)})
		return
	}

	slog.ErrorContext(r.Context(), "could not handle request", slog.Any("error", errors.WithStack(err)))

	encodeResponse(w, r, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
}
