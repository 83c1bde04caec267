// Package request issues one-shot HTTP calls with a bounded timeout.
//
// There is deliberately no retry here: the call either completes within
// its timeout or fails. Polling for HTTP-visible state belongs to the
// caller, not this helper.
package request

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds a call when Request.Timeout is zero.
const DefaultTimeout = 10 * time.Second

// ErrMissingURL is returned when no URL was supplied.
var ErrMissingURL = errors.New("awaitkit: request URL is required")

// Request describes one HTTP call.
type Request struct {
	// Method defaults to GET when empty.
	Method string

	// URL is the absolute endpoint to call. Required.
	URL string

	// Body is sent as the request body when non-empty.
	Body []byte

	// Headers are set on the request.
	Headers map[string]string

	// Timeout bounds the whole call, connection through body read.
	// Zero means DefaultTimeout.
	Timeout time.Duration
}

// Response is the fully-read result of a call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Invoke performs the call once. The response body is read to completion
// and closed before returning. A slow endpoint fails with a deadline
// error once the timeout elapses; no status code is treated as an error.
func Invoke(ctx context.Context, req Request) (*Response, error) {
	if req.URL == "" {
		return nil, ErrMissingURL
	}
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, req.URL, body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       data,
	}, nil
}
