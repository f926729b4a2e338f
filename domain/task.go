package domain

import (
	"time"

	"github.com/fastygo/focusboard/pkg/recurrence"
)

// TaskStatus is the lifecycle state of a task.
type TaskStatus string

const (
	TaskActive    TaskStatus = "active"
	TaskMonitored TaskStatus = "monitored"
	TaskDone      TaskStatus = "done"
)

// Priority ranks how urgent a task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Quadrant places a task on the Eisenhower matrix.
type Quadrant string

const (
	QuadrantDoFirst    Quadrant = "do-first"
	QuadrantSchedule   Quadrant = "schedule"
	QuadrantDelegate   Quadrant = "delegate"
	QuadrantEliminate  Quadrant = "eliminate"
	QuadrantUnassigned Quadrant = "unassigned"
)

// Subtask is a checklist item owned by a task.
type Subtask struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Done  bool   `json:"done"`
}

// Task represents a user-owned activity item.
//
// RecurrenceParentID is a weak back-reference to the occurrence this task was
// spawned from; the referenced task may no longer exist.
type Task struct {
	ID                   string               `json:"id"`
	Title                string               `json:"title"`
	Notes                string               `json:"notes,omitempty"`
	Status               TaskStatus           `json:"status"`
	Priority             Priority             `json:"priority"`
	Quadrant             Quadrant             `json:"quadrant"`
	DueDate              string               `json:"dueDate,omitempty"`
	Category             string               `json:"category,omitempty"`
	Energy               string               `json:"energy,omitempty"`
	Recurrence           recurrence.Frequency `json:"recurrence,omitempty"`
	RecurrenceDayOfMonth int                  `json:"recurrenceDayOfMonth,omitempty"`
	RecurrenceStartMonth int                  `json:"recurrenceStartMonth,omitempty"`
	RecurrenceParentID   string               `json:"recurrenceParentId,omitempty"`
	RecurrenceNextDate   string               `json:"recurrenceNextDate,omitempty"`
	PinnedToday          string               `json:"pinnedToday,omitempty"`
	Subtasks             []Subtask            `json:"subtasks"`
	CreatedAt            time.Time            `json:"createdAt"`
	CompletedAt          *time.Time           `json:"completedAt,omitempty"`
	StatusChangedAt      *time.Time           `json:"statusChangedAt,omitempty"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == TaskDone
}

// Recurs reports whether completing the task should schedule another occurrence.
func (t *Task) Recurs() bool {
	return t != nil && t.Recurrence.Valid()
}

// RecurrenceOptions returns the quarterly parameters of the task's rule.
func (t *Task) RecurrenceOptions() recurrence.Options {
	return recurrence.Options{
		DayOfMonth: t.RecurrenceDayOfMonth,
		StartMonth: t.RecurrenceStartMonth,
	}
}

// TaskPatch carries the fields of an UPDATE_TASK action. Nil fields are left
// untouched; an empty string clears an optional date or text field.
type TaskPatch struct {
	Title                *string               `json:"title,omitempty"`
	Notes                *string               `json:"notes,omitempty"`
	Priority             *Priority             `json:"priority,omitempty"`
	Quadrant             *Quadrant             `json:"quadrant,omitempty"`
	DueDate              *string               `json:"dueDate,omitempty"`
	Category             *string               `json:"category,omitempty"`
	Energy               *string               `json:"energy,omitempty"`
	Recurrence           *recurrence.Frequency `json:"recurrence,omitempty"`
	RecurrenceDayOfMonth *int                  `json:"recurrenceDayOfMonth,omitempty"`
	RecurrenceStartMonth *int                  `json:"recurrenceStartMonth,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p TaskPatch) Empty() bool {
	return p.Title == nil && p.Notes == nil && p.Priority == nil && p.Quadrant == nil &&
		p.DueDate == nil && p.Category == nil && p.Energy == nil && p.Recurrence == nil &&
		p.RecurrenceDayOfMonth == nil && p.RecurrenceStartMonth == nil
}
