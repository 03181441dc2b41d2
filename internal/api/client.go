// Package api implements the typed HTTP client for the task service.
// All responses are parsed into internal/models types at this boundary;
// payloads that don't fit the expected shape are reported as service errors
// rather than passed through.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"github.com/yuchan1120/task-manager-cli/internal/logger"
	"github.com/yuchan1120/task-manager-cli/internal/models"
)

const tracerName = "github.com/yuchan1120/task-manager-cli/internal/api"

// maxErrorBodySize caps how much of an error response body is read.
const maxErrorBodySize = 4096

// TokenSource supplies the bearer token for outbound requests. The token is
// read once per call; an empty token means the Authorization header is
// omitted and the service decides whether to reject the request.
type TokenSource interface {
	Token() string
}

// Client is the HTTP client for the task service. Requests carry no
// client-imposed timeout or retry; failures surface through the transport's
// own errors.
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the client logger.
func WithLogger(log *zap.Logger) Option {
	return func(c *Client) { c.logger = log }
}

// New creates a Client for the service at baseURL (without the /api suffix).
func New(baseURL string, tokens TokenSource, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		tokens:     tokens,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (string, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", creds, &resp); err != nil {
		return "", err
	}
	if resp.Token == "" {
		return "", &Error{StatusCode: http.StatusOK, Message: "login response carried no token"}
	}
	return resp.Token, nil
}

// Validate checks the current token against the service.
func (c *Client) Validate(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/auth/validate", nil, nil)
}

// ListTasks returns the service's current task listing.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	if err := c.do(ctx, http.MethodGet, "/api/tasks", nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// CreateTask creates a task and returns the record assigned by the service.
func (c *Client) CreateTask(ctx context.Context, task models.NewTask) (models.Task, error) {
	var created models.Task
	if err := c.do(ctx, http.MethodPost, "/api/tasks", task, &created); err != nil {
		return models.Task{}, err
	}
	return created, nil
}

// ToggleTask flips the completion state of the task with the given id.
func (c *Client) ToggleTask(ctx context.Context, id int64) (models.Task, error) {
	var updated models.Task
	path := fmt.Sprintf("/api/tasks/%d/toggle", id)
	if err := c.do(ctx, http.MethodPut, path, nil, &updated); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// UpdateTask sends a partial update for the task with the given id.
func (c *Client) UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error) {
	var updated models.Task
	path := fmt.Sprintf("/api/tasks/%d", id)
	if err := c.do(ctx, http.MethodPut, path, patch, &updated); err != nil {
		return models.Task{}, err
	}
	return updated, nil
}

// DeleteTask removes the task with the given id.
func (c *Client) DeleteTask(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tasks/%d", id), nil, nil)
}

// ListTags returns the service's current tag listing.
func (c *Client) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := c.do(ctx, http.MethodGet, "/api/tags", nil, &tags); err != nil {
		return nil, err
	}
	return tags, nil
}

// CreateTag creates a tag and returns the record assigned by the service.
func (c *Client) CreateTag(ctx context.Context, name string) (models.Tag, error) {
	var created models.Tag
	body := map[string]string{"name": name}
	if err := c.do(ctx, http.MethodPost, "/api/tags", body, &created); err != nil {
		return models.Tag{}, err
	}
	return created, nil
}

// RenameTag changes the name of the tag with the given id.
func (c *Client) RenameTag(ctx context.Context, id int64, name string) (models.Tag, error) {
	var updated models.Tag
	body := map[string]string{"name": name}
	path := fmt.Sprintf("/api/tags/%d", id)
	if err := c.do(ctx, http.MethodPut, path, body, &updated); err != nil {
		return models.Tag{}, err
	}
	return updated, nil
}

// DeleteTag removes the tag with the given id.
func (c *Client) DeleteTag(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/tags/%d", id), nil, nil)
}

// do performs a single request against the service and decodes the response
// into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	tracer := otel.Tracer(tracerName)
	ctx, span := tracer.Start(ctx, method+" "+path)
	defer span.End()
	span.SetAttributes(
		attribute.String("http.method", method),
		attribute.String("http.path", path),
	)

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokens.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "transport failure")
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Debug("failed_to_close_response_body", zap.Error(closeErr))
		}
	}()

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	c.logger.Debug("api_call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		span.SetStatus(codes.Error, "service rejection")
		return &Error{
			StatusCode: resp.StatusCode,
			Message:    readErrorBody(resp.Body),
		}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			span.RecordError(err)
			return &Error{
				StatusCode: resp.StatusCode,
				Message:    fmt.Sprintf("malformed response body: %v", err),
			}
		}
	}

	return nil
}

// readErrorBody extracts a short message from an error response. The service
// may answer with a JSON object carrying "message", plain text, or nothing.
func readErrorBody(r io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil || len(data) == 0 {
		return "no response body"
	}

	var parsed struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &parsed) == nil {
		if parsed.Message != "" {
			return logger.SanitizeString(parsed.Message, logger.MaxErrorMessageLength)
		}
		if parsed.Error != "" {
			return logger.SanitizeString(parsed.Error, logger.MaxErrorMessageLength)
		}
	}
	return logger.SanitizeString(string(data), logger.MaxErrorMessageLength)
}
