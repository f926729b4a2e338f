package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/usecase/history"
	"github.com/fastygo/focusboard/usecase/reducer"
)

// ChangeTracker is notified about local edits. MarkDirty runs while the
// dispatcher lock is held and must not call back into the dispatcher.
// DocumentChanged runs after the lock is released.
type ChangeTracker interface {
	MarkDirty()
	DocumentChanged(action domain.Action)
}

type noopTracker struct{}

func (noopTracker) MarkDirty()                    {}
func (noopTracker) DocumentChanged(domain.Action) {}

// DispatcherOption customises a Dispatcher.
type DispatcherOption func(*Dispatcher)

// WithClock replaces the wall clock sampled once per dispatch.
func WithClock(now func() time.Time) DispatcherOption {
	return func(d *Dispatcher) {
		if now != nil {
			d.now = now
		}
	}
}

// WithIDGenerator replaces the UUID generator used for new entities.
func WithIDGenerator(newID func() string) DispatcherOption {
	return func(d *Dispatcher) {
		if newID != nil {
			d.newID = newID
		}
	}
}

// WithHistoryLimit bounds the undo stack.
func WithHistoryLimit(limit int) DispatcherOption {
	return func(d *Dispatcher) {
		if limit > 0 {
			d.limit = limit
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *zap.Logger) DispatcherOption {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// Dispatcher is the only entry point for document mutations. It serialises
// actions, keeps the undo history and flags local edits as unsaved before
// they become visible.
type Dispatcher struct {
	mu      sync.RWMutex
	state   history.State
	tracker ChangeTracker

	limit  int
	now    func() time.Time
	newID  func() string
	logger *zap.Logger
}

// NewDispatcher starts a dispatcher at doc, or at an empty document when nil.
func NewDispatcher(doc *domain.Document, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		state:   history.New(doc),
		tracker: noopTracker{},
		limit:   history.DefaultLimit,
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SetTracker installs the change tracker. Passing nil detaches it.
func (d *Dispatcher) SetTracker(tracker ChangeTracker) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if tracker == nil {
		tracker = noopTracker{}
	}
	d.tracker = tracker
}

// Dispatch applies action and returns the resulting document.
func (d *Dispatcher) Dispatch(action domain.Action) *domain.Document {
	doc, _ := d.DispatchIf(nil, action)
	return doc
}

// DispatchIf applies action only when cond, evaluated under the dispatch
// lock, returns true. A nil cond always applies. The boolean reports whether
// the action was applied.
func (d *Dispatcher) DispatchIf(cond func() bool, action domain.Action) (*domain.Document, bool) {
	if action == nil {
		return d.Document(), false
	}
	env := reducer.Env{Now: d.now(), NewID: d.newID}

	d.mu.Lock()
	if cond != nil && !cond() {
		current := d.state.Current
		d.mu.Unlock()
		return current, false
	}
	tracker := d.tracker
	prev := d.state
	dirtied := d.marksDirty(prev, action)
	if dirtied {
		tracker.MarkDirty()
	}
	d.state = history.Reduce(prev, action, env, d.limit)
	current := d.state.Current
	changed := current != prev.Current
	d.mu.Unlock()

	if changed || dirtied {
		tracker.DocumentChanged(action)
	}
	if changed {
		d.logger.Debug("action applied", zap.String("action", string(action.Type())))
	}
	return current, true
}

// marksDirty decides whether action is a local edit. Undo and redo count only
// when they can move the cursor.
func (d *Dispatcher) marksDirty(s history.State, action domain.Action) bool {
	switch action.(type) {
	case domain.Undo:
		return s.CanUndo()
	case domain.Redo:
		return s.CanRedo()
	default:
		return history.IsUndoable(action)
	}
}

func (d *Dispatcher) Undo() *domain.Document {
	return d.Dispatch(domain.Undo{})
}

func (d *Dispatcher) Redo() *domain.Document {
	return d.Dispatch(domain.Redo{})
}

func (d *Dispatcher) CanUndo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.CanUndo()
}

func (d *Dispatcher) CanRedo() bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.CanRedo()
}

// Document returns the current document. Callers must treat it as read-only.
func (d *Dispatcher) Document() *domain.Document {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.state.Current
}

// Read runs fn with the current document while dispatches are held off, so
// fn can pair the document with other state written under the same lock.
func (d *Dispatcher) Read(fn func(doc *domain.Document)) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	fn(d.state.Current)
}
