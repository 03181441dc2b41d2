package models

// Tag represents a tag as returned by the task service.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name" validate:"required"`
}
