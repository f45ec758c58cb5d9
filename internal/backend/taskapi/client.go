// Package taskapi implements the service.Service interface over the tasks REST API.
package taskapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"taskcli/internal/service"
)

const (
	// DefaultBaseURL is the address of a locally running tasks API.
	DefaultBaseURL = "http://localhost:3005/api/tasks"

	// SearchTake is the fixed page size of phrase searches.
	SearchTake = 10

	// searchToken is the fixed continuation token of phrase searches.
	searchToken = "0"
)

var _ service.Service = (*Client)(nil)

// Client implements service.Service using the tasks REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	timeout    time.Duration
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds every call. Zero disables the per-call deadline.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithLogger sets the logger for request tracing.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log }
}

// New creates a client for the API rooted at baseURL.
// An empty baseURL selects DefaultBaseURL.
func New(baseURL string, opts ...Option) (*Client, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base url %q", baseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, errors.Errorf("invalid base url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, errors.Errorf("invalid base url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: http.DefaultClient,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the API root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListTasks returns a page of root tasks.
func (c *Client) ListTasks(ctx context.Context, q service.TaskQuery) (service.Page[service.Task], error) {
	var page service.Page[service.Task]
	query := newQuery().
		Int("take", q.Take).
		Str("continuation_token", q.ContinuationToken).
		Str("order_by", q.OrderBy).
		Bool("descending_sort", q.Descending)
	err := c.do(ctx, http.MethodGet, c.url("")+query.String(), nil, &page)
	return page, err
}

// ListLogs returns a page of task log entries.
func (c *Client) ListLogs(ctx context.Context, q service.LogQuery) (service.Page[service.LogEntry], error) {
	var page service.Page[service.LogEntry]
	err := c.do(ctx, http.MethodGet, c.url("logs")+logQuery(q), nil, &page)
	return page, err
}

// ListTaskLogs returns a page of log entries recorded for one task.
func (c *Client) ListTaskLogs(ctx context.Context, taskID string, q service.LogQuery) (service.Page[service.LogEntry], error) {
	var page service.Page[service.LogEntry]
	err := c.do(ctx, http.MethodGet, c.url(url.PathEscape(taskID), "logs")+logQuery(q), nil, &page)
	return page, err
}

// GetTaskDetails returns a single task.
func (c *Client) GetTaskDetails(ctx context.Context, taskID string) (service.TaskDetails, error) {
	var task service.TaskDetails
	err := c.do(ctx, http.MethodGet, c.url(url.PathEscape(taskID)), nil, &task)
	return task, err
}

// SearchTasks returns the first page of tasks whose summary or description matches phrase.
func (c *Client) SearchTasks(ctx context.Context, phrase string) (service.Page[service.SearchResult], error) {
	var page service.Page[service.SearchResult]
	query := newQuery().
		Str("continuation_token", searchToken).
		Int("take", SearchTake)
	err := c.do(ctx, http.MethodGet, c.url("search", url.PathEscape(phrase))+query.String(), nil, &page)
	return page, err
}

// rootRequest is the body of a root change.
type rootRequest struct {
	RootID *string `json:"root_id"`
}

// SetTaskRoot assigns a task to a root task.
func (c *Client) SetTaskRoot(ctx context.Context, taskID string, rootID *string) error {
	return c.do(ctx, http.MethodPatch, c.url(url.PathEscape(taskID), "root"), rootRequest{RootID: rootID}, nil)
}

// CreateTask creates a new task.
func (c *Client) CreateTask(ctx context.Context, in service.TaskInput) error {
	return c.do(ctx, http.MethodPost, c.url(""), in, nil)
}

// UpdateTask replaces the editable fields of a task.
func (c *Client) UpdateTask(ctx context.Context, taskID string, in service.TaskInput) error {
	return c.do(ctx, http.MethodPatch, c.url(url.PathEscape(taskID)), in, nil)
}

// DeleteTask deletes a task.
func (c *Client) DeleteTask(ctx context.Context, taskID string) error {
	return c.do(ctx, http.MethodDelete, c.url(url.PathEscape(taskID)), nil, nil)
}

// url joins already-escaped path segments onto the base URL.
func (c *Client) url(segments ...string) string {
	path := strings.Join(segments, "/")
	if path == "" {
		return c.baseURL
	}
	return c.baseURL + "/" + path
}

func logQuery(q service.LogQuery) string {
	return newQuery().
		Int("take", q.Take).
		Str("continuation_token", q.ContinuationToken).
		Bool("descending", q.Descending).
		String()
}

// do performs a single request. body, if non-nil, is sent as JSON.
// out, if non-nil, receives the decoded response body on success.
func (c *Client) do(ctx context.Context, method, target string, body, out any) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return errors.Wrap(err, "encode request")
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return errors.Wrap(err, "build request")
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Debug().Str("method", method).Str("url", target).Err(err).Msg("request failed")
		return err
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("url", target).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newRequestError(resp, c.log)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "decode response")
	}
	return nil
}

// query builds a query string with parameters in insertion order.
type query struct {
	parts []string
}

func newQuery() *query {
	return &query{}
}

func (q *query) Str(key, value string) *query {
	q.parts = append(q.parts, key+"="+url.QueryEscape(value))
	return q
}

func (q *query) Int(key string, value int) *query {
	return q.Str(key, strconv.Itoa(value))
}

func (q *query) Bool(key string, value bool) *query {
	return q.Str(key, strconv.FormatBool(value))
}

func (q *query) String() string {
	if len(q.parts) == 0 {
		return ""
	}
	return "?" + strings.Join(q.parts, "&")
}
