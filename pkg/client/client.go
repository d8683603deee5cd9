// Package client provides a Go client for the taskboard HTTP API.
package client

import (
	"net/http"
	"net/url"
)

type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	token      string
}

func New(funcs ...OptionFunc) *Client {
	opts := NewOptions(funcs...)

	return &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		token:      opts.Token,
	}
}
