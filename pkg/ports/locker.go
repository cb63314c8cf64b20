package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// The runner uses it to keep two processes from running the same mode at once.
type DistributedLocker interface {
	// Lock attempts to acquire the lock for key (e.g., "mode:release").
	// It blocks until the lock is acquired, the context is canceled, or the
	// implementation gives up, in which case it returns domain.ErrLocked.
	// The lock expires after ttl if it is never released.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
