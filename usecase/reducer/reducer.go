// Package reducer implements every document mutation as a pure function of
// (document, action, environment).
//
// Reduce never mutates its input. When an action changes nothing the input
// pointer is returned as is, which lets callers detect no-ops by identity.
package reducer

import (
	"reflect"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/pkg/recurrence"
)

// Env carries the inputs a reduction may not sample on its own. It is built
// once per dispatch so every step of one action sees the same instant.
type Env struct {
	Now   time.Time
	NewID func() string
}

// NewEnv samples the wall clock and uses random UUIDs.
func NewEnv() Env {
	return Env{Now: time.Now(), NewID: uuid.NewString}
}

// Today is the calendar date of Now in its own location.
func (e Env) Today() string {
	return recurrence.FormatDate(e.Now)
}

func (e Env) id(given string) string {
	if given != "" {
		return given
	}
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

// Reduce applies action to doc. Unknown actions return doc unchanged.
func Reduce(doc *domain.Document, action domain.Action, env Env) *domain.Document {
	if doc == nil {
		doc = domain.NewDocument()
	}
	today := env.Today()

	switch a := action.(type) {
	case domain.LoadDocument:
		return replaceDocument(doc, a.Document)
	case domain.ReplaceDocument:
		return replaceDocument(doc, a.Document)

	case domain.AddTask:
		return addTask(doc, a, env, today)
	case domain.UpdateTask:
		return updateTask(doc, a)
	case domain.DeleteTask:
		return deleteTask(doc, a.ID)
	case domain.ToggleTask:
		return toggleTask(doc, a.ID, env, today)
	case domain.ToggleMonitor:
		return toggleMonitor(doc, a.ID, env)
	case domain.PinToday:
		return pinToday(doc, a.ID, today)
	case domain.UnpinToday:
		return unpinToday(doc, a.ID)
	case domain.ReorderTasks:
		return reorderTasks(doc, a.IDs)
	case domain.ClearCompleted:
		return clearCompleted(doc)

	case domain.AddSubtask:
		return addSubtask(doc, a, env)
	case domain.UpdateSubtask:
		return updateSubtask(doc, a)
	case domain.ToggleSubtask:
		return toggleSubtask(doc, a)
	case domain.DeleteSubtask:
		return deleteSubtask(doc, a)

	case domain.AddPomodoro:
		return addPomodoro(doc, a, env)
	case domain.UpdatePomodoro:
		return updatePomodoro(doc, a)
	case domain.DeletePomodoro:
		return deletePomodoro(doc, a.ID)
	case domain.StartPomodoro:
		return startPomodoro(doc, a.ID, env)
	case domain.PausePomodoro:
		return pausePomodoro(doc, a.ID, env)
	case domain.ResetPomodoro:
		return resetPomodoro(doc, a.ID)
	case domain.CompletePomodoro:
		return completePomodoro(doc, a.ID, env, today)
	case domain.TickPomodoro:
		return tickPomodoros(doc, a.ID, env, today)

	case domain.AddReminder:
		return addReminder(doc, a, env, today)
	case domain.UpdateReminder:
		return updateReminder(doc, a)
	case domain.DeleteReminder:
		return deleteReminder(doc, a.ID)
	case domain.AckReminder:
		return ackReminder(doc, a.ID, env, today)

	case domain.AddReadingItem:
		return addReadingItem(doc, a, env)
	case domain.UpdateReadingItem:
		return updateReadingItem(doc, a)
	case domain.ToggleReadingItem:
		return toggleReadingItem(doc, a.ID, env)
	case domain.DeleteReadingItem:
		return deleteReadingItem(doc, a.ID)

	case domain.AddTemplate:
		return addTemplate(doc, a, env)
	case domain.DeleteTemplate:
		return deleteTemplate(doc, a.ID)
	case domain.ApplyTemplate:
		return applyTemplate(doc, a, env, today)

	case domain.UpdateSettings:
		return updateSettings(doc, a.Patch)
	case domain.UpdatePreferences:
		return updatePreferences(doc, a.Patch)

	case domain.UpdateDailyStat:
		date := a.Date
		if date == "" {
			date = today
		}
		return updateDailyStat(doc, date, a.Delta)
	case domain.UpdateStreak:
		return updateStreak(doc, env)

	default:
		// Undo, Redo and unknown actions are handled above this layer.
		return doc
	}
}

func replaceDocument(doc, next *domain.Document) *domain.Document {
	if next == nil || next == doc {
		return doc
	}
	return next.Normalized()
}

// clone returns a shallow copy of doc whose lists still share storage with
// the original. Callers must clone any list before writing to it.
func clone(doc *domain.Document) *domain.Document {
	next := *doc
	return &next
}

func same(a, b any) bool {
	return reflect.DeepEqual(a, b)
}

func indexOf[T any](items []T, match func(T) bool) int {
	return slices.IndexFunc(items, match)
}

// replaceAt returns a copy of items with index i set to item.
func replaceAt[T any](items []T, i int, item T) []T {
	out := slices.Clone(items)
	out[i] = item
	return out
}

// removeAt returns a copy of items without index i.
func removeAt[T any](items []T, i int) []T {
	out := make([]T, 0, len(items)-1)
	out = append(out, items[:i]...)
	return append(out, items[i+1:]...)
}

// appendTo returns a copy of items with item appended.
func appendTo[T any](items []T, item T) []T {
	out := make([]T, 0, len(items)+1)
	out = append(out, items...)
	return append(out, item)
}

func timePtr(t time.Time) *time.Time {
	return &t
}
