// Package cache holds the client's in-memory copies of remote entities.
// Every mutation follows confirm-then-resync: the write goes to the service
// first, and only a subsequent full fetch makes its effect visible locally.
// The caches therefore never show state the service has not accepted.
//
// Cache values are single mutable slices replaced wholesale on each fetch.
// They are not safe for concurrent use; interleaved fetches resolve as
// last-write-observed-wins, with no sequencing or cancellation applied.
package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yuchan1120/task-manager-cli/internal/logger"
	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/validation"
)

// TaskAPI is the slice of the service client the task cache needs.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, task models.NewTask) (models.Task, error)
	ToggleTask(ctx context.Context, id int64) (models.Task, error)
	UpdateTask(ctx context.Context, id int64, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id int64) error
}

// TaskCache is the local view of the service's task listing.
type TaskCache struct {
	api     TaskAPI
	logger  *zap.Logger
	tasks   []models.Task
	loading bool
	err     error
}

// NewTaskCache creates an empty task cache.
func NewTaskCache(api TaskAPI, log *zap.Logger) *TaskCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskCache{api: api, logger: log}
}

// Tasks returns the current cache contents. The returned slice is the
// cache's own copy and is replaced, never patched, on refresh.
func (c *TaskCache) Tasks() []models.Task { return c.tasks }

// Loading reports whether a fetch is in flight.
func (c *TaskCache) Loading() bool { return c.loading }

// Err returns the error from the most recent failed fetch, or nil. A failed
// fetch keeps the previous contents in place, stale but available.
func (c *TaskCache) Err() error { return c.err }

// FetchAll replaces the entire cache with the service's current listing.
func (c *TaskCache) FetchAll(ctx context.Context) error {
	c.loading = true
	tasks, err := c.api.ListTasks(ctx)
	c.loading = false
	if err != nil {
		c.err = err
		c.logger.Warn("task_fetch_failed", zap.String("error", logger.SanitizeError(err)))
		return fmt.Errorf("failed to fetch tasks: %w", err)
	}
	c.err = nil
	c.tasks = tasks
	c.logger.Debug("tasks_fetched", zap.Int("count", len(tasks)))
	return nil
}

// Add creates a task on the service and refetches the listing. The created
// record in the service's response is discarded; the cache only ever
// reflects a confirmed full listing. An empty title is rejected locally
// before any request is made.
func (c *TaskCache) Add(ctx context.Context, task models.NewTask) error {
	task.Title = validation.SanitizeText(task.Title)
	task.Completed = false
	if err := validation.Validate.Struct(task); err != nil {
		return validation.Errorf("task title must not be empty")
	}

	if _, err := c.api.CreateTask(ctx, task); err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	return c.FetchAll(ctx)
}

// ToggleCompletion flips the completion state of a task on the service and
// refetches. Nothing was changed locally beforehand, so a failure needs no
// rollback; it is logged and returned.
func (c *TaskCache) ToggleCompletion(ctx context.Context, id int64) error {
	if _, err := c.api.ToggleTask(ctx, id); err != nil {
		c.logger.Warn("task_toggle_failed",
			zap.Int64("task_id", id),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("failed to toggle task %d: %w", id, err)
	}
	return c.FetchAll(ctx)
}

// Update sends a partial update for a task and refetches. A patch that
// changes nothing is rejected locally.
func (c *TaskCache) Update(ctx context.Context, id int64, patch models.TaskPatch) error {
	if patch.IsZero() {
		return validation.Errorf("update changes no fields")
	}
	if patch.Title != nil {
		trimmed := validation.SanitizeText(*patch.Title)
		if trimmed == "" {
			return validation.Errorf("task title must not be empty")
		}
		patch.Title = &trimmed
	}

	if _, err := c.api.UpdateTask(ctx, id, patch); err != nil {
		c.logger.Warn("task_update_failed",
			zap.Int64("task_id", id),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("failed to update task %d: %w", id, err)
	}
	return c.FetchAll(ctx)
}

// Delete removes a task on the service and refetches.
func (c *TaskCache) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteTask(ctx, id); err != nil {
		c.logger.Warn("task_delete_failed",
			zap.Int64("task_id", id),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("failed to delete task %d: %w", id, err)
	}
	return c.FetchAll(ctx)
}
