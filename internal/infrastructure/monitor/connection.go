package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/focusboard/internal/infrastructure/cache"
)

// Pinger is any remote dependency that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	remote  Pinger
	backend string
	cache   *cache.Store

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	timeout  time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(remote Pinger, backend string, store *cache.Store, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		remote:   remote,
		backend:  backend,
		cache:    store,
		interval: interval,
		timeout:  3 * time.Second,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

// Start runs one check synchronously, then keeps checking in the background.
func (m *Monitor) Start() {
	m.refresh()
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Remote
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.refresh()
		case <-m.stopCh:
			return
		}
	}
}

func (m *Monitor) refresh() {
	cacheOK, cacheSize := m.checkCache()
	status := Status{
		Remote:    m.checkRemote(),
		Backend:   m.backend,
		Cache:     cacheOK,
		CacheSize: cacheSize,
		LastCheck: time.Now(),
	}

	m.mu.Lock()
	if m.status.Remote != status.Remote && !m.status.LastCheck.IsZero() {
		m.logger.Info("remote store reachability changed",
			zap.String("backend", m.backend),
			zap.Bool("online", status.Remote))
	}
	m.status = status
	m.mu.Unlock()
}

func (m *Monitor) checkRemote() bool {
	if m.remote == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()
	return m.remote.Ping(ctx) == nil
}

func (m *Monitor) checkCache() (bool, int) {
	if m.cache == nil {
		return false, 0
	}
	size, err := m.cache.Size()
	if err != nil {
		m.logger.Warn("cache size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
