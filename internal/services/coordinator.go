package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/focusboard/domain"
	"github.com/fastygo/focusboard/repository"
	"github.com/fastygo/focusboard/usecase"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// DocumentCache keeps the last known remote snapshot on local storage.
type DocumentCache interface {
	Put(snap *domain.Snapshot) error
	Get(id string) (*domain.Snapshot, error)
}

// SaveStatus reports the outcome of the latest save attempt.
type SaveStatus string

const (
	SaveOK     SaveStatus = "ok"
	SaveSaving SaveStatus = "saving"
	SaveError  SaveStatus = "error"
)

// CoordinatorConfig controls save debouncing and remote polling.
type CoordinatorConfig struct {
	DocumentID       string
	SaveDebounce     time.Duration
	PollInterval     time.Duration
	VersionTolerance int64
	RemoteTimeout    time.Duration
}

// Status is a point-in-time view of the coordinator.
type Status struct {
	Loaded       bool       `json:"loaded"`
	Source       string     `json:"source,omitempty"`
	SaveStatus   SaveStatus `json:"saveStatus"`
	SaveError    string     `json:"saveError,omitempty"`
	Dirty        bool       `json:"dirty"`
	Version      int64      `json:"version"`
	CanUndo      bool       `json:"canUndo"`
	CanRedo      bool       `json:"canRedo"`
	LastSavedAt  *time.Time `json:"lastSavedAt,omitempty"`
	LastPolledAt *time.Time `json:"lastPolledAt,omitempty"`
}

const (
	sourceRemote = "remote"
	sourceCache  = "cache"
)

// Coordinator keeps the local document and the remote store in step. Local
// edits are saved on a trailing debounce; the remote version is polled on a
// cron schedule and newer remote documents replace the local one only while
// no unsaved edit exists.
type Coordinator struct {
	dispatcher *usecase.Dispatcher
	repo       repository.DocumentRepository
	cache      DocumentCache
	monitor    ConnectionHealth
	logger     *zap.Logger
	cron       *cron.Cron
	cfg        CoordinatorConfig

	// dirtySeq counts local edits, savedSeq the highest count confirmed
	// saved. Both are written under the dispatcher lock or by a save that
	// captured dirtySeq under it.
	dirtySeq atomic.Uint64
	savedSeq atomic.Uint64

	saveMu sync.Mutex
	loadMu sync.Mutex

	mu           sync.Mutex
	started      bool
	loaded       bool
	closed       bool
	source       string
	status       SaveStatus
	saveErr      string
	version      int64
	timer        *time.Timer
	timerGen     uint64
	lastSavedAt  time.Time
	lastPolledAt time.Time
}

var _ usecase.ChangeTracker = (*Coordinator)(nil)

// NewCoordinator wires a coordinator to dispatcher and installs itself as the
// dispatcher's change tracker. cache and monitor are optional. An error is
// returned when the poll interval cannot be scheduled.
func NewCoordinator(
	dispatcher *usecase.Dispatcher,
	repo repository.DocumentRepository,
	cache DocumentCache,
	monitor ConnectionHealth,
	logger *zap.Logger,
	cfg CoordinatorConfig,
) (*Coordinator, error) {
	if cfg.DocumentID == "" {
		cfg.DocumentID = "default"
	}
	if cfg.SaveDebounce <= 0 {
		cfg.SaveDebounce = 500 * time.Millisecond
	}
	if cfg.PollInterval < time.Second {
		cfg.PollInterval = 5 * time.Second
	}
	if cfg.VersionTolerance < 0 {
		cfg.VersionTolerance = 1
	}
	if cfg.RemoteTimeout <= 0 {
		cfg.RemoteTimeout = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := &Coordinator{
		dispatcher: dispatcher,
		repo:       repo,
		cache:      cache,
		monitor:    monitor,
		logger:     logger,
		cfg:        cfg,
		status:     SaveOK,
		cron:       cron.New(cron.WithSeconds()),
	}

	schedule := "@every " + cfg.PollInterval.String()
	if _, err := c.cron.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.PollInterval)
		defer cancel()
		if err := c.Poll(ctx); err != nil {
			c.logger.Debug("poll failed", zap.Error(err))
		}
	}); err != nil {
		return nil, fmt.Errorf("schedule poll %q: %w", schedule, err)
	}

	dispatcher.SetTracker(c)
	return c, nil
}

// Start loads the document once and launches the poll schedule. A failed
// load with no cached copy leaves the session unloaded; polling retries it.
func (c *Coordinator) Start(ctx context.Context) error {
	c.mu.Lock()
	if c.started || c.closed {
		c.mu.Unlock()
		return nil
	}
	c.started = true
	c.mu.Unlock()

	err := c.load(ctx)
	c.cron.Start()
	c.logger.Info("persistence coordinator started",
		zap.String("document_id", c.cfg.DocumentID),
		zap.Duration("poll_interval", c.cfg.PollInterval))
	return err
}

// Close cancels the debounce timer and the poll schedule. Remote calls still
// in flight finish, but their results are discarded.
func (c *Coordinator) Close(ctx context.Context) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	c.cancelTimerLocked()
	c.mu.Unlock()

	stopCtx := c.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	c.logger.Info("persistence coordinator stopped")
}

// Shutdown saves any unsaved edit or pending debounced change, then closes
// the coordinator. The coordinator is closed even when the final save fails.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	var err error
	if c.Loaded() && (c.Dirty() || c.Pending()) {
		err = c.Sync(ctx)
	}
	c.Close(ctx)
	return err
}

// MarkDirty records an unsaved local edit. It runs under the dispatcher lock.
func (c *Coordinator) MarkDirty() {
	c.dirtySeq.Add(1)
}

// Dirty reports whether a local edit has not been confirmed saved yet.
func (c *Coordinator) Dirty() bool {
	return c.dirtySeq.Load() > c.savedSeq.Load()
}

// DocumentChanged (re)starts the save debounce. Loads and replacements come
// from the remote store and are not written back.
func (c *Coordinator) DocumentChanged(action domain.Action) {
	switch action.(type) {
	case domain.LoadDocument, domain.ReplaceDocument:
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.loaded || c.closed {
		return
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timerGen++
	gen := c.timerGen
	c.timer = time.AfterFunc(c.cfg.SaveDebounce, func() { c.flush(gen) })
}

// Pending reports whether a debounced save is scheduled. Changes that record
// no undo step, such as timer ticks and stat updates, leave the dirty flag
// clear but still schedule a save.
func (c *Coordinator) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.timer != nil
}

// Loaded reports whether a document has been loaded for this session.
func (c *Coordinator) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

func (c *Coordinator) Status() Status {
	c.mu.Lock()
	status := Status{
		Loaded:     c.loaded,
		Source:     c.source,
		SaveStatus: c.status,
		SaveError:  c.saveErr,
		Version:    c.version,
	}
	if !c.lastSavedAt.IsZero() {
		saved := c.lastSavedAt
		status.LastSavedAt = &saved
	}
	if !c.lastPolledAt.IsZero() {
		polled := c.lastPolledAt
		status.LastPolledAt = &polled
	}
	c.mu.Unlock()

	status.Dirty = c.Dirty()
	status.CanUndo = c.dispatcher.CanUndo()
	status.CanRedo = c.dispatcher.CanRedo()
	return status
}

// Sync saves immediately, cancelling any pending debounced save.
func (c *Coordinator) Sync(ctx context.Context) error {
	c.mu.Lock()
	c.cancelTimerLocked()
	c.mu.Unlock()
	return c.save(ctx)
}

// Reload fetches the remote document and replaces the local one even when
// unsaved edits exist.
func (c *Coordinator) Reload(ctx context.Context) error {
	c.mu.Lock()
	closed, loaded := c.closed, c.loaded
	c.mu.Unlock()
	if closed {
		return domain.ErrClosed
	}
	if !loaded {
		return c.load(ctx)
	}

	snap, doc, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if c.isClosed() {
		return domain.ErrClosed
	}

	var seq uint64
	c.dispatcher.DispatchIf(func() bool {
		seq = c.dirtySeq.Load()
		return true
	}, domain.ReplaceDocument{Document: doc})
	c.markSaved(seq)

	c.mu.Lock()
	c.version = snap.Version
	c.source = sourceRemote
	if !c.Dirty() {
		c.cancelTimerLocked()
	}
	c.mu.Unlock()

	c.writeCache(snap)
	c.logger.Info("document reloaded", zap.Int64("version", snap.Version))
	return nil
}

// Poll compares the remote version with the captured one and adopts a newer
// remote document when no local edit is pending. Failures are returned for
// logging only and never change the save status.
func (c *Coordinator) Poll(ctx context.Context) error {
	c.mu.Lock()
	closed, loaded := c.closed, c.loaded
	c.mu.Unlock()
	if closed {
		return nil
	}
	if !loaded {
		return c.load(ctx)
	}
	if c.monitor != nil && !c.monitor.IsOnline() {
		c.logger.Debug("skipping poll (offline)")
		return nil
	}
	if c.Dirty() {
		return nil
	}

	remote, err := c.remoteVersion(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.lastPolledAt = time.Now()
	stale := remote > c.version+c.cfg.VersionTolerance
	c.mu.Unlock()
	if !stale || c.Dirty() {
		return nil
	}

	snap, doc, err := c.fetch(ctx)
	if err != nil {
		return err
	}
	if c.isClosed() {
		return nil
	}

	_, applied := c.dispatcher.DispatchIf(func() bool { return !c.Dirty() }, domain.ReplaceDocument{Document: doc})
	if !applied {
		c.logger.Debug("remote change ignored (local edits pending)", zap.Int64("remote_version", snap.Version))
		return nil
	}

	c.mu.Lock()
	c.version = snap.Version
	c.source = sourceRemote
	c.mu.Unlock()

	c.writeCache(snap)
	c.logger.Info("adopted newer remote document", zap.Int64("version", snap.Version))
	return nil
}

func (c *Coordinator) flush(gen uint64) {
	c.mu.Lock()
	if c.timerGen != gen {
		// A newer edit rescheduled the save after this timer fired.
		c.mu.Unlock()
		return
	}
	c.timer = nil
	c.mu.Unlock()

	if err := c.save(context.Background()); err != nil && !errors.Is(err, domain.ErrClosed) {
		c.logger.Warn("debounced save failed", zap.Error(err))
	}
}

// save writes the current document. The document and the edit counter are
// captured together so only edits contained in the payload are cleared.
func (c *Coordinator) save(ctx context.Context) error {
	c.saveMu.Lock()
	defer c.saveMu.Unlock()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	if !c.loaded {
		c.mu.Unlock()
		return domain.ErrNotLoaded
	}
	c.status = SaveSaving
	c.mu.Unlock()

	var (
		doc *domain.Document
		seq uint64
	)
	c.dispatcher.Read(func(current *domain.Document) {
		doc = current
		seq = c.dirtySeq.Load()
	})

	saveCtx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout)
	version, err := c.repo.Save(saveCtx, doc)
	cancel()

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrClosed
	}
	if err != nil {
		c.status = SaveError
		c.saveErr = fmt.Sprintf("could not save your changes: %v", err)
		c.mu.Unlock()
		return domain.WrapError(domain.ErrCodeUnavailable, "save document", err)
	}
	c.markSaved(seq)
	c.status = SaveOK
	c.saveErr = ""
	if version > c.version {
		c.version = version
	}
	c.source = sourceRemote
	c.lastSavedAt = time.Now()
	c.mu.Unlock()

	if snap, err := domain.EncodeDocument(c.cfg.DocumentID, version, doc); err == nil {
		c.writeCache(snap)
	}
	c.logger.Debug("document saved", zap.Int64("version", version))
	return nil
}

// load performs the load-on-mount step. It is a no-op once loaded.
func (c *Coordinator) load(ctx context.Context) error {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.Loaded() {
		return nil
	}

	source := sourceRemote
	snap, doc, err := c.fetch(ctx)
	if err != nil {
		cached, cacheErr := c.cached()
		if cacheErr != nil {
			c.logger.Warn("document load failed; no cached copy", zap.Error(err))
			return err
		}
		c.logger.Warn("document load failed; using cached copy", zap.Error(err), zap.Int64("version", cached.Version))
		snap = cached
		if doc, err = cached.Document(); err != nil {
			return err
		}
		source = sourceCache
	}
	if c.isClosed() {
		return domain.ErrClosed
	}

	var seq uint64
	c.dispatcher.DispatchIf(func() bool {
		seq = c.dirtySeq.Load()
		return true
	}, domain.LoadDocument{Document: doc})
	c.markSaved(seq)

	c.mu.Lock()
	c.loaded = true
	c.version = snap.Version
	c.source = source
	c.mu.Unlock()

	if source == sourceRemote {
		c.writeCache(snap)
	}
	c.logger.Info("document loaded", zap.String("source", source), zap.Int64("version", snap.Version))
	return nil
}

// fetch loads the remote snapshot. A missing document is an empty one at
// version zero.
func (c *Coordinator) fetch(ctx context.Context) (*domain.Snapshot, *domain.Document, error) {
	loadCtx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout)
	defer cancel()

	snap, err := c.repo.Load(loadCtx)
	if errors.Is(err, domain.ErrDocumentNotFound) {
		snap, err = domain.EncodeDocument(c.cfg.DocumentID, 0, domain.NewDocument())
	}
	if err != nil {
		return nil, nil, err
	}
	doc, err := snap.Document()
	if err != nil {
		return nil, nil, err
	}
	return snap, doc, nil
}

func (c *Coordinator) remoteVersion(ctx context.Context) (int64, error) {
	versionCtx, cancel := context.WithTimeout(ctx, c.cfg.RemoteTimeout)
	defer cancel()
	return c.repo.Version(versionCtx)
}

func (c *Coordinator) cached() (*domain.Snapshot, error) {
	if c.cache == nil {
		return nil, domain.ErrDocumentNotFound
	}
	return c.cache.Get(c.cfg.DocumentID)
}

func (c *Coordinator) writeCache(snap *domain.Snapshot) {
	if c.cache == nil || snap == nil {
		return
	}
	snap.DocumentID = c.cfg.DocumentID
	if err := c.cache.Put(snap); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

// markSaved raises savedSeq to seq; it never moves backwards.
func (c *Coordinator) markSaved(seq uint64) {
	for {
		current := c.savedSeq.Load()
		if seq <= current || c.savedSeq.CompareAndSwap(current, seq) {
			return
		}
	}
}

// cancelTimerLocked drops any pending debounced save, including one whose
// timer already fired but has not taken the lock yet.
func (c *Coordinator) cancelTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.timerGen++
}

func (c *Coordinator) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
