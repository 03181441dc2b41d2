package models

// Task represents a task as returned by the task service.
type Task struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	DueDate     *Date   `json:"dueDate,omitempty"`
	TagIDs      []int64 `json:"tagIds,omitempty"`
}

// HasTag reports whether the task references the given tag id.
func (t Task) HasTag(id int64) bool {
	for _, tagID := range t.TagIDs {
		if tagID == id {
			return true
		}
	}
	return false
}

// NewTask is the payload for creating a task. The service assigns the id.
type NewTask struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Completed   bool    `json:"completed"`
	DueDate     *Date   `json:"dueDate,omitempty"`
	TagIDs      []int64 `json:"tagIds,omitempty"`
}

// TaskPatch carries a partial update. Nil fields are left unchanged by the
// service; only the set fields are serialized.
type TaskPatch struct {
	Title       *string  `json:"title,omitempty"`
	Description *string  `json:"description,omitempty"`
	Completed   *bool    `json:"completed,omitempty"`
	DueDate     *Date    `json:"dueDate,omitempty"`
	TagIDs      *[]int64 `json:"tagIds,omitempty"`
}

// IsZero reports whether the patch changes nothing.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Description == nil && p.Completed == nil &&
		p.DueDate == nil && p.TagIDs == nil
}
