package client

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bornholm/taskboard/internal/core/port"
	"github.com/bornholm/taskboard/internal/http/handler/api"
	"github.com/pkg/errors"
)

func listQuery(opts port.ListOptions) url.Values {
	query := url.Values{}

	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	if opts.SortBy != "" {
		query.Set("sortBy", opts.SortBy)
	}

	if opts.SortOrder != "" {
		query.Set("sortOrder", string(opts.SortOrder))
	}

	return query
}

func (c *Client) ListTasks(ctx context.Context, opts port.ListOptions) (*api.ListTasksResponse, error) {
	var res api.ListTasksResponse
	if err := c.jsonRequest(ctx, http.MethodGet, "/tasks", listQuery(opts), nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res, nil
}

func (c *Client) ListAssignedTasks(ctx context.Context, opts port.ListOptions) (*api.ListTasksResponse, error) {
	var res api.ListTasksResponse
	if err := c.jsonRequest(ctx, http.MethodGet, "/tasks/assigned", listQuery(opts), nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res, nil
}

func (c *Client) GetTask(ctx context.Context, taskID string) (*api.Task, error) {
	var res api.GetTaskResponse
	if err := c.jsonRequest(ctx, http.MethodGet, "/tasks/"+url.PathEscape(taskID), nil, nil, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res.Task, nil
}

func (c *Client) CreateTask(ctx context.Context, req api.CreateTaskRequest) (*api.Task, error) {
	var res api.GetTaskResponse
	if err := c.jsonRequest(ctx, http.MethodPost, "/tasks", nil, req, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res.Task, nil
}

func (c *Client) UpdateTask(ctx context.Context, taskID string, req api.UpdateTaskRequest) (*api.Task, error) {
	var res api.GetTaskResponse
	if err := c.jsonRequest(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(taskID), nil, req, &res); err != nil {
		return nil, errors.WithStack(err)
	}

	return &res.Task, nil
}

func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	var res api.DeleteTaskResponse
	if err := c.jsonRequest(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(taskID), nil, nil, &res); err != nil {
		return errors.WithStack(err)
	}

	return nil
}
