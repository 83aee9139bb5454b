package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

// Envelope is the uniform wrapper around every backend reply.
// Data is only meaningful when Status is true.
type Envelope[T any] struct {
	Status  bool   `json:"status"`
	Data    T      `json:"data"`
	Message string `json:"message,omitempty"`
}

// OK reports whether the operation succeeded at the domain level.
func (e *Envelope[T]) OK() bool {
	return e != nil && e.Status
}

// Err converts a status=false envelope into a *DomainError.
func (e *Envelope[T]) Err() error {
	if e == nil {
		return &DomainError{Message: "empty response"}
	}
	if e.Status {
		return nil
	}
	return &DomainError{Message: e.Message}
}

// Get issues a GET and decodes the envelope.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	return call[T](ctx, c, http.MethodGet, path, opts)
}

// Post issues a POST and decodes the envelope.
func Post[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	return call[T](ctx, c, http.MethodPost, path, opts)
}

// Patch issues a PATCH and decodes the envelope.
func Patch[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	return call[T](ctx, c, http.MethodPatch, path, opts)
}

// Delete issues a DELETE and decodes the envelope.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*Envelope[T], error) {
	return call[T](ctx, c, http.MethodDelete, path, opts)
}

func call[T any](ctx context.Context, c *Client, method, path string, opts []RequestOption) (*Envelope[T], error) {
	var env Envelope[T]
	status, body, err := c.send(ctx, method, path, opts)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNoContent || len(body) == 0 {
		env.Status = true
		return &env, nil
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode %s %s envelope: %w", method, path, err)
	}
	return &env, nil
}
