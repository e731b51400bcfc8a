// Package backend is the single HTTP client the front-end uses to talk to the blog REST API.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TokenSource supplies the bearer token for a request. *session.Session implements it.
type TokenSource interface {
	BearerToken() string
}

// StatusError is returned for every non-2xx backend response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: backend answered %d", e.Method, e.Path, e.StatusCode)
}

// IsUnauthorized reports whether err is a 401 from the backend.
func IsUnauthorized(err error) bool {
	return StatusCode(err) == http.StatusUnauthorized
}

// StatusCode returns the backend status carried by err, or 0 for transport errors.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode
	}
	return 0
}

// Client is bound to one base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds every request, including reading the body.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// New returns a Client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get issues a GET and decodes the JSON response into out.
func (c *Client) Get(ctx context.Context, ts TokenSource, endpoint, path string, query url.Values, out any) error {
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	return c.do(ctx, ts, http.MethodGet, endpoint, path, nil, out)
}

// Post issues a POST with a JSON body.
func (c *Client) Post(ctx context.Context, ts TokenSource, endpoint, path string, body, out any) error {
	return c.do(ctx, ts, http.MethodPost, endpoint, path, body, out)
}

// Patch issues a PATCH with a JSON body.
func (c *Client) Patch(ctx context.Context, ts TokenSource, endpoint, path string, body, out any) error {
	return c.do(ctx, ts, http.MethodPatch, endpoint, path, body, out)
}

// do sends one request. endpoint is the path template used as the metrics label.
func (c *Client) do(ctx context.Context, ts TokenSource, method, endpoint, path string, body, out any) error {
	start := time.Now()
	status := 0
	defer func() { observe(method, endpoint, status, time.Since(start)) }()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s %s: encode body: %w", method, path, err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if ts != nil {
		if token := ts.BearerToken(); token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Method: method, Path: path, StatusCode: resp.StatusCode, Body: string(snippet)}
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%s %s: decode response: %w", method, path, err)
	}
	return nil
}

func itoa(id int64) string {
	return strconv.FormatInt(id, 10)
}
