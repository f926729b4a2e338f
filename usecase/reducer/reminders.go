package reducer

import (
	"strings"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

func reminderIndex(doc *domain.Document, id string) int {
	if id == "" {
		return -1
	}
	return indexOf(doc.Reminders, func(r domain.Reminder) bool { return r.ID == id })
}

func withReminder(doc *domain.Document, idx int, r domain.Reminder) *domain.Document {
	next := clone(doc)
	next.Reminders = replaceAt(doc.Reminders, idx, r)
	return next
}

func addReminder(doc *domain.Document, a domain.AddReminder, env Env, today string) *domain.Document {
	title := strings.TrimSpace(a.Title)
	if title == "" {
		return doc
	}
	id := env.id(a.ID)
	if reminderIndex(doc, id) >= 0 {
		return doc
	}
	r := domain.Reminder{
		ID:         id,
		Title:      title,
		Date:       a.Date,
		Time:       a.Time,
		Recurrence: a.Recurrence,
		Category:   a.Category,
	}
	if r.Date == "" {
		r.Date = today
	}
	if r.Recurrence == "" {
		r.Recurrence = recurrence.None
	}
	next := clone(doc)
	next.Reminders = appendTo(doc.Reminders, r)
	return next
}

func updateReminder(doc *domain.Document, a domain.UpdateReminder) *domain.Document {
	idx := reminderIndex(doc, a.ID)
	if idx < 0 {
		return doc
	}
	r := doc.Reminders[idx]
	p := a.Patch
	if p.Title != nil {
		if title := strings.TrimSpace(*p.Title); title != "" {
			r.Title = title
		}
	}
	if p.Date != nil && *p.Date != "" {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.Recurrence != nil {
		r.Recurrence = *p.Recurrence
	}
	if p.Category != nil {
		r.Category = *p.Category
	}
	if same(r, doc.Reminders[idx]) {
		return doc
	}
	return withReminder(doc, idx, r)
}

func deleteReminder(doc *domain.Document, id string) *domain.Document {
	idx := reminderIndex(doc, id)
	if idx < 0 {
		return doc
	}
	next := clone(doc)
	next.Reminders = removeAt(doc.Reminders, idx)
	return next
}

// ackReminder acknowledges a one-off reminder. A repeating one moves to its
// next date and stays unacknowledged so it fires again.
func ackReminder(doc *domain.Document, id string, env Env, today string) *domain.Document {
	idx := reminderIndex(doc, id)
	if idx < 0 {
		return doc
	}
	r := doc.Reminders[idx]
	r.AcknowledgedAt = timePtr(env.Now)

	if !r.Repeats() {
		if r.Acknowledged {
			return doc
		}
		r.Acknowledged = true
		return withReminder(doc, idx, r)
	}

	base, err := recurrence.ParseDate(r.Date)
	if err != nil {
		base, _ = recurrence.ParseDate(today)
	}
	opts := recurrence.Options{DayOfMonth: base.Day(), StartMonth: int(base.Month())}
	nextDate, ok := recurrence.Next(r.Recurrence, base, opts)
	if !ok {
		return doc
	}
	r.Date = recurrence.FormatDate(nextDate)
	r.Acknowledged = false
	return withReminder(doc, idx, r)
}
