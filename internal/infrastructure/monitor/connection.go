package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pinger is satisfied by the document store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// MirrorReporter reports when the local mirror was last refreshed.
type MirrorReporter interface {
	UpdatedAt() (time.Time, error)
}

type Monitor struct {
	provider Pinger
	backend  string
	mirror   MirrorReporter

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(provider Pinger, backend string, mirror MirrorReporter, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		provider: provider,
		backend:  backend,
		mirror:   mirror,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

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
	return m.status.Provider
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
	status := Status{
		Backend:   m.backend,
		LastCheck: time.Now(),
	}
	if err := m.checkProvider(); err != nil {
		status.ProviderError = err.Error()
	} else {
		status.Provider = true
	}
	status.Mirror, status.MirrorUpdatedAt = m.checkMirror()

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	switch {
	case previous.LastCheck.IsZero():
	case previous.Provider && !status.Provider:
		m.logger.Warn("snapshot provider went offline", zap.String("backend", m.backend), zap.String("error", status.ProviderError))
	case !previous.Provider && status.Provider:
		m.logger.Info("snapshot provider back online", zap.String("backend", m.backend))
	}
}

func (m *Monitor) checkProvider() error {
	if m.provider == nil {
		return errNoProvider
	}
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	return m.provider.Ping(ctx)
}

func (m *Monitor) checkMirror() (bool, *time.Time) {
	if m.mirror == nil {
		return false, nil
	}
	ts, err := m.mirror.UpdatedAt()
	if err != nil {
		m.logger.Warn("mirror check failed", zap.Error(err))
		return false, nil
	}
	if ts.IsZero() {
		return true, nil
	}
	return true, &ts
}
