// Package history wraps the document reducer with bounded undo and redo.
package history

import (
	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/usecase/reducer"
)

// DefaultLimit bounds the number of undo steps kept.
const DefaultLimit = 50

// State is an immutable history value. Past is ordered oldest first; Future
// is ordered nearest first.
type State struct {
	Current *domain.Document
	Past    []*domain.Document
	Future  []*domain.Document
}

// New starts a history at a normalized copy of doc.
func New(doc *domain.Document) State {
	return State{Current: doc.Normalized()}
}

func (s State) CanUndo() bool { return len(s.Past) > 0 }

func (s State) CanRedo() bool { return len(s.Future) > 0 }

// IsUndoable reports whether an action records an undo step. Loads, timer
// ticks, stat bookkeeping and history navigation never do.
func IsUndoable(action domain.Action) bool {
	if action == nil {
		return false
	}
	switch action.Type() {
	case domain.ActionLoadDocument,
		domain.ActionReplaceDocument,
		domain.ActionTickPomodoro,
		domain.ActionUpdateDailyStat,
		domain.ActionUpdateStreak,
		domain.ActionUndo,
		domain.ActionRedo:
		return false
	}
	_, unknown := action.(domain.UnknownAction)
	return !unknown
}

// Reduce applies action to the history. A non-positive limit means
// DefaultLimit. The returned state shares unchanged slices with s.
func Reduce(s State, action domain.Action, env reducer.Env, limit int) State {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if s.Current == nil {
		s.Current = domain.NewDocument()
	}

	switch action.(type) {
	case domain.Undo:
		return undo(s)
	case domain.Redo:
		return redo(s)
	}

	next := reducer.Reduce(s.Current, action, env)
	if next == s.Current {
		return s
	}
	if !IsUndoable(action) {
		return State{Current: next, Past: s.Past, Future: s.Future}
	}

	past := make([]*domain.Document, 0, min(len(s.Past)+1, limit))
	if drop := len(s.Past) + 1 - limit; drop > 0 {
		past = append(past, s.Past[drop:]...)
	} else {
		past = append(past, s.Past...)
	}
	past = append(past, s.Current)
	return State{Current: next, Past: past}
}

func undo(s State) State {
	if !s.CanUndo() {
		return s
	}
	last := len(s.Past) - 1
	future := make([]*domain.Document, 0, len(s.Future)+1)
	future = append(future, s.Current)
	future = append(future, s.Future...)
	return State{
		Current: s.Past[last],
		Past:    s.Past[:last:last],
		Future:  future,
	}
}

func redo(s State) State {
	if !s.CanRedo() {
		return s
	}
	past := make([]*domain.Document, 0, len(s.Past)+1)
	past = append(past, s.Past...)
	past = append(past, s.Current)
	return State{
		Current: s.Future[0],
		Past:    past,
		Future:  s.Future[1:],
	}
}
