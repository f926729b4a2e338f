package domain

import (
	"time"

	"github.com/fastygo/focusboard/pkg/recurrence"
)

// ReadingItem is an entry of the reading list.
type ReadingItem struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	URL      string     `json:"url,omitempty"`
	Category string     `json:"category,omitempty"`
	Read     bool       `json:"read"`
	AddedAt  time.Time  `json:"addedAt"`
	ReadAt   *time.Time `json:"readAt,omitempty"`
}

// ReadingItemPatch carries the fields of an UPDATE_READING_ITEM action.
type ReadingItemPatch struct {
	Title    *string `json:"title,omitempty"`
	URL      *string `json:"url,omitempty"`
	Category *string `json:"category,omitempty"`
}

// TaskTemplate is a reusable blueprint for new tasks.
type TaskTemplate struct {
	ID         string               `json:"id"`
	Name       string               `json:"name"`
	Title      string               `json:"title"`
	Priority   Priority             `json:"priority,omitempty"`
	Quadrant   Quadrant             `json:"quadrant,omitempty"`
	Category   string               `json:"category,omitempty"`
	Energy     string               `json:"energy,omitempty"`
	Recurrence recurrence.Frequency `json:"recurrence,omitempty"`
	Subtasks   []string             `json:"subtasks,omitempty"`
}
