package locking

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
)

// lockEntry holds the key's slot and the number of goroutines using it.
type lockEntry struct {
	slot chan struct{}
	refs int
}

// Manager implements ports.DistributedLocker.
// Entries are reference counted and dropped once no caller holds or waits on them.
type Manager struct {
	mu    sync.Mutex
	locks map[string]*lockEntry

	locker ports.DistributedLocker // optional
	logger *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker adds a distributed lock, taken after the local one.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager creates a lock manager.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		locks:  make(map[string]*lockEntry),
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates the entry for key and increments its reference count.
// Every acquire must be paired with a release.
func (m *Manager) acquire(key string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		entry = &lockEntry{slot: make(chan struct{}, 1)}
		m.locks[key] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[key]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, key)
	}
}

// Lock waits for key until ctx is done. ttl only applies to the distributed lock.
func (m *Manager) Lock(ctx context.Context, key string, ttl time.Duration) (ports.UnlockFunc, error) {
	entry := m.acquire(key)

	select {
	case entry.slot <- struct{}{}:
	case <-ctx.Done():
		m.release(key)
		return nil, fmt.Errorf("%w: %s: %w", domain.ErrLocked, key, ctx.Err())
	}

	unlockLocal := func() {
		<-entry.slot
		m.release(key)
	}

	if m.locker == nil {
		return func(context.Context) error {
			unlockLocal()
			return nil
		}, nil
	}

	unlockRemote, err := m.locker.Lock(ctx, key, ttl)
	if err != nil {
		unlockLocal()
		return nil, err
	}

	return func(ctx context.Context) error {
		defer unlockLocal()
		if err := unlockRemote(ctx); err != nil {
			m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
				"key", key,
				"err", err,
			)
			return err
		}
		return nil
	}, nil
}

// Held returns the number of keys currently locked or waited on.
func (m *Manager) Held() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.locks)
}
