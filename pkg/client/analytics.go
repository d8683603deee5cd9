package client

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/bornholm/taskboard/internal/core/service"
	"github.com/pkg/errors"
)

// AnalyticsFilter narrows the task set a report is computed over. Zero
// values are omitted from the request.
type AnalyticsFilter struct {
	From       time.Time
	To         time.Time
	AssignedTo string
	CreatedBy  string
	Status     string
	Tags       []string
}

func (c *Client) Analytics(ctx context.Context, filter AnalyticsFilter) (*service.AnalyticsReport, error) {
	query := url.Values{}

	if !filter.From.IsZero() {
		query.Set("from", filter.From.Format(time.RFC3339))
	}

	if !filter.To.IsZero() {
		query.Set("to", filter.To.Format(time.RFC3339))
	}

	if filter.AssignedTo != "" {
		query.Set("assignedTo", filter.AssignedTo)
	}

	if filter.CreatedBy != "" {
		query.Set("createdBy", filter.CreatedBy)
	}

	if filter.Status != "" {
		query.Set("status", filter.Status)
	}

	if len(filter.Tags) > 0 {
		query.Set("tags", strings.Join(filter.Tags, ","))
	}

	var report service.AnalyticsReport
	if err := c.jsonRequest(ctx, http.MethodGet, "/analytics", query, nil, &report); err != nil {
		return nil, errors.WithStack(err)
	}

	return &report, nil
}
