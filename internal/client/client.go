// Package client calls the notes REST API on behalf of the user interfaces.
//
// Every method makes exactly one HTTP request; there are no retries and no
// caching. Network failures come back as *TransportError and non-2xx replies
// as *APIError, which unwraps to note.ErrNotFound or *note.ValidationError
// where the status code says so.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/asmundstavdahl/notes/internal/note"
)

// DefaultTimeout bounds a single call when no http.Client is supplied.
const DefaultTimeout = 10 * time.Second

// TransportError reports that the API could not be reached or its reply could
// not be read.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// APIError is a non-2xx reply.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api returned %d: %s", e.Status, e.Message)
}

func (e *APIError) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return note.ErrNotFound
	case http.StatusBadRequest:
		return &note.ValidationError{Reason: e.Message}
	}
	return nil
}

// Client talks to one notes API base URL.
type Client struct {
	baseURL string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.http = hc } }

// New returns a Client for the API rooted at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: DefaultTimeout},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type noteInput struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// List fetches every note.
func (c *Client) List(ctx context.Context) ([]note.Note, error) {
	var out struct {
		Data []note.Note `json:"data"`
	}
	if err := c.do(ctx, "list notes", http.MethodGet, "/notes", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []note.Note{}
	}
	return out.Data, nil
}

// Create posts a new note and returns the stored record.
func (c *Client) Create(ctx context.Context, title, content string) (note.Note, error) {
	var out struct {
		Data note.Note `json:"data"`
	}
	err := c.do(ctx, "create note", http.MethodPost, "/notes", noteInput{Title: title, Content: content}, &out)
	return out.Data, err
}

// Get fetches one note.
func (c *Client) Get(ctx context.Context, id string) (note.Note, error) {
	var out struct {
		Data note.Note `json:"data"`
	}
	err := c.do(ctx, "get note", http.MethodGet, notePath(id), nil, &out)
	return out.Data, err
}

// Update replaces the title and content of a note.
func (c *Client) Update(ctx context.Context, id, title, content string) (note.Note, error) {
	var out struct {
		Data note.Note `json:"data"`
	}
	err := c.do(ctx, "update note", http.MethodPut, notePath(id), noteInput{Title: title, Content: content}, &out)
	return out.Data, err
}

// Delete removes a note.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, "delete note", http.MethodDelete, notePath(id), nil, nil)
}

func notePath(id string) string {
	return "/notes/" + url.PathEscape(id)
}

func (c *Client) do(ctx context.Context, op, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("%s: marshal request: %w", op, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("%s: create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr struct {
			Error string `json:"error"`
		}
		msg := resp.Status
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			msg = apiErr.Error
		}
		return &APIError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("decode response: %w", err)}
	}
	return nil
}
