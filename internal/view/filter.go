// Package view derives the filtered, sorted task presentation from cache
// contents. Everything here is a pure function of its inputs.
package view

import (
	"sort"
	"strings"

	"github.com/yuchan1120/task-manager-cli/internal/models"
)

// CompletionFilter selects tasks by completion state.
type CompletionFilter string

const (
	FilterAll        CompletionFilter = "all"
	FilterCompleted  CompletionFilter = "completed"
	FilterIncomplete CompletionFilter = "incomplete"
)

// Valid reports whether f is a known filter mode.
func (f CompletionFilter) Valid() bool {
	switch f {
	case FilterAll, FilterCompleted, FilterIncomplete:
		return true
	}
	return false
}

// Criteria are the active filter settings. The zero value of Search matches
// everything and a nil TagID means all tags.
type Criteria struct {
	Completion CompletionFilter
	Search     string
	TagID      *int64
}

// Apply returns the tasks matching all criteria, ordered ascending by due
// date. Tasks without a due date sort after every task that has one and
// keep their input order relative to each other. The input slice is not
// modified.
func Apply(tasks []models.Task, c Criteria) []models.Task {
	search := strings.ToLower(c.Search)

	filtered := make([]models.Task, 0, len(tasks))
	for _, task := range tasks {
		if !matchesTag(task, c.TagID) {
			continue
		}
		if !matchesCompletion(task, c.Completion) {
			continue
		}
		if !matchesSearch(task, search) {
			continue
		}
		filtered = append(filtered, task)
	}

	sort.SliceStable(filtered, func(i, j int) bool {
		a, b := filtered[i].DueDate, filtered[j].DueDate
		if a == nil {
			return false
		}
		if b == nil {
			return true
		}
		return a.Before(*b)
	})

	return filtered
}

func matchesTag(task models.Task, tagID *int64) bool {
	if tagID == nil {
		return true
	}
	return task.HasTag(*tagID)
}

func matchesCompletion(task models.Task, filter CompletionFilter) bool {
	switch filter {
	case FilterCompleted:
		return task.Completed
	case FilterIncomplete:
		return !task.Completed
	default:
		return true
	}
}

func matchesSearch(task models.Task, lowered string) bool {
	if lowered == "" {
		return true
	}
	return strings.Contains(strings.ToLower(task.Title), lowered) ||
		strings.Contains(strings.ToLower(task.Description), lowered)
}
