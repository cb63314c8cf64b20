package runner

import (
	"log/slog"
	"time"

	"github.com/aretw0/lcm/pkg/ports"
)

// DefaultLockTTL bounds how long a crashed run can keep a mode locked.
const DefaultLockTTL = 30 * time.Minute

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithStore configures the RunStore that receives the audit record.
// If nil, runs are not persisted.
func WithStore(store ports.RunStore) Option {
	return func(r *Runner) {
		r.store = store
	}
}

// WithLocker serializes runs of the same mode across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(r *Runner) {
		r.locker = locker
	}
}

// WithLockTTL sets the expiry of the mode lock.
func WithLockTTL(ttl time.Duration) Option {
	return func(r *Runner) {
		if ttl > 0 {
			r.lockTTL = ttl
		}
	}
}

// WithTimeout bounds the whole run, lock wait included. Zero means no limit.
func WithTimeout(d time.Duration) Option {
	return func(r *Runner) {
		r.timeout = d
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// WithIDGenerator overrides how run IDs are minted.
func WithIDGenerator(fn func() string) Option {
	return func(r *Runner) {
		if fn != nil {
			r.newID = fn
		}
	}
}
