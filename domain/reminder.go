package domain

import (
	"time"

	"github.com/fastygo/focusboard/pkg/recurrence"
)

// Reminder is a dated nudge. Recurring reminders never stay acknowledged:
// acknowledging one moves its date to the next occurrence instead.
type Reminder struct {
	ID             string               `json:"id"`
	Title          string               `json:"title"`
	Date           string               `json:"date"`
	Time           string               `json:"time,omitempty"`
	Recurrence     recurrence.Frequency `json:"recurrence"`
	Category       string               `json:"category,omitempty"`
	Acknowledged   bool                 `json:"acknowledged"`
	AcknowledgedAt *time.Time           `json:"acknowledgedAt,omitempty"`
}

// ReminderRecurrences lists the rules a reminder accepts.
var ReminderRecurrences = []recurrence.Frequency{
	recurrence.None,
	recurrence.Weekly,
	recurrence.Monthly,
	recurrence.Quarterly,
	recurrence.Yearly,
}

// Repeats reports whether acknowledging the reminder advances its date.
func (r *Reminder) Repeats() bool {
	if r == nil {
		return false
	}
	switch r.Recurrence {
	case recurrence.Weekly, recurrence.Monthly, recurrence.Quarterly, recurrence.Yearly:
		return true
	default:
		return false
	}
}

// ReminderPatch carries the fields of an UPDATE_REMINDER action.
type ReminderPatch struct {
	Title      *string               `json:"title,omitempty"`
	Date       *string               `json:"date,omitempty"`
	Time       *string               `json:"time,omitempty"`
	Recurrence *recurrence.Frequency `json:"recurrence,omitempty"`
	Category   *string               `json:"category,omitempty"`
}
