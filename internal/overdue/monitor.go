// Package overdue derives the set of tasks past their due date and exposes
// a dismissible alert over it.
package overdue

import (
	"time"

	"github.com/yuchan1120/task-manager-cli/internal/models"
)

// Monitor tracks overdue tasks: incomplete tasks whose due date parses to a
// point strictly before the current instant. The alert opens when the set
// becomes non-empty and stays open until Dismiss is called — a later
// recomputation changes the listed tasks but never closes or reopens the
// alert on its own. Not safe for concurrent use.
type Monitor struct {
	now       func() time.Time
	tasks     []models.Task
	open      bool
	dismissed bool
}

// NewMonitor creates a Monitor using the system clock.
func NewMonitor() *Monitor {
	return &Monitor{now: time.Now}
}

// NewMonitorAt creates a Monitor with an injected clock.
func NewMonitorAt(now func() time.Time) *Monitor {
	return &Monitor{now: now}
}

// Recompute derives the overdue set from the given tasks. Call it on every
// task cache change; it only affects the alert's content unless the alert
// is closed and not dismissed, in which case a non-empty set opens it.
func (m *Monitor) Recompute(tasks []models.Task) {
	instant := m.now()
	overdue := make([]models.Task, 0)
	for _, task := range tasks {
		if IsOverdue(task, instant) {
			overdue = append(overdue, task)
		}
	}
	m.tasks = overdue

	if len(overdue) > 0 && !m.open && !m.dismissed {
		m.open = true
	}
}

// Tasks returns the current overdue set, most recently recomputed.
func (m *Monitor) Tasks() []models.Task { return m.tasks }

// Open reports whether the alert is showing.
func (m *Monitor) Open() bool { return m.open }

// Dismiss closes the alert. It stays closed across recomputations until
// Reset is called.
func (m *Monitor) Dismiss() {
	m.open = false
	m.dismissed = true
}

// Reset clears the dismissal so a later non-empty recomputation may open
// the alert again. Whether to reset is the consumer's call.
func (m *Monitor) Reset() {
	m.dismissed = false
}

// IsOverdue reports whether the task is incomplete with a due date strictly
// before the given instant.
func IsOverdue(task models.Task, instant time.Time) bool {
	if task.Completed || task.DueDate == nil || task.DueDate.IsZero() {
		return false
	}
	return task.DueDate.Time().Before(instant)
}
