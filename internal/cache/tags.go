package cache

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/yuchan1120/task-manager-cli/internal/logger"
	"github.com/yuchan1120/task-manager-cli/internal/models"
	"github.com/yuchan1120/task-manager-cli/internal/validation"
)

// TagAPI is the slice of the service client the tag cache needs.
type TagAPI interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	CreateTag(ctx context.Context, name string) (models.Tag, error)
	RenameTag(ctx context.Context, id int64, name string) (models.Tag, error)
	DeleteTag(ctx context.Context, id int64) error
}

// TagCache is the local view of the service's tag listing. Same shape and
// confirm-then-resync protocol as TaskCache.
type TagCache struct {
	api     TagAPI
	logger  *zap.Logger
	tags    []models.Tag
	loading bool
	err     error
}

// NewTagCache creates an empty tag cache.
func NewTagCache(api TagAPI, log *zap.Logger) *TagCache {
	if log == nil {
		log = zap.NewNop()
	}
	return &TagCache{api: api, logger: log}
}

// Tags returns the current cache contents.
func (c *TagCache) Tags() []models.Tag { return c.tags }

// Loading reports whether a fetch is in flight.
func (c *TagCache) Loading() bool { return c.loading }

// Err returns the error from the most recent failed fetch, or nil.
func (c *TagCache) Err() error { return c.err }

// FetchAll replaces the entire cache with the service's current listing.
func (c *TagCache) FetchAll(ctx context.Context) error {
	c.loading = true
	tags, err := c.api.ListTags(ctx)
	c.loading = false
	if err != nil {
		c.err = err
		c.logger.Warn("tag_fetch_failed", zap.String("error", logger.SanitizeError(err)))
		return fmt.Errorf("failed to fetch tags: %w", err)
	}
	c.err = nil
	c.tags = tags
	c.logger.Debug("tags_fetched", zap.Int("count", len(tags)))
	return nil
}

// Add creates a tag and refetches. A name that is empty after trimming is
// rejected locally; no request is made.
func (c *TagCache) Add(ctx context.Context, name string) error {
	name = validation.SanitizeText(name)
	if name == "" {
		return validation.Errorf("tag name must not be empty")
	}

	if _, err := c.api.CreateTag(ctx, name); err != nil {
		return fmt.Errorf("failed to create tag: %w", err)
	}
	return c.FetchAll(ctx)
}

// Rename changes a tag's name on the service and refetches.
func (c *TagCache) Rename(ctx context.Context, id int64, name string) error {
	name = validation.SanitizeText(name)
	if name == "" {
		return validation.Errorf("tag name must not be empty")
	}

	if _, err := c.api.RenameTag(ctx, id, name); err != nil {
		c.logger.Warn("tag_rename_failed",
			zap.Int64("tag_id", id),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("failed to rename tag %d: %w", id, err)
	}
	return c.FetchAll(ctx)
}

// Delete removes a tag on the service and refetches.
func (c *TagCache) Delete(ctx context.Context, id int64) error {
	if err := c.api.DeleteTag(ctx, id); err != nil {
		c.logger.Warn("tag_delete_failed",
			zap.Int64("tag_id", id),
			zap.String("error", logger.SanitizeError(err)),
		)
		return fmt.Errorf("failed to delete tag %d: %w", id, err)
	}
	return c.FetchAll(ctx)
}
