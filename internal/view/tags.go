package view

import "github.com/yuchan1120/task-manager-cli/internal/models"

// UnknownTagName is rendered for a tag id no tag record resolves to.
// Referential integrity between tasks and tags is not enforced client-side;
// a dangling id is tolerated, never an error.
const UnknownTagName = "unknown tag"

// TagName resolves a tag id to its name.
func TagName(tags []models.Tag, id int64) string {
	for _, tag := range tags {
		if tag.ID == id {
			return tag.Name
		}
	}
	return UnknownTagName
}

// TagNames resolves every tag id of a task, preserving order.
func TagNames(tags []models.Tag, task models.Task) []string {
	if len(task.TagIDs) == 0 {
		return nil
	}
	names := make([]string, 0, len(task.TagIDs))
	for _, id := range task.TagIDs {
		names = append(names, TagName(tags, id))
	}
	return names
}
