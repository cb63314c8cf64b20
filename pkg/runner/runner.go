package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/internal/runtime"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
)

// LockKey returns the distributed lock key guarding mode.
func LockKey(mode string) string {
	return "mode:" + mode
}

// Runner executes one mode per call and records the outcome.
// It is safe for concurrent use if its store and locker are.
type Runner struct {
	engine  *runtime.Engine
	store   ports.RunStore
	locker  ports.DistributedLocker
	logger  *slog.Logger
	timeout time.Duration
	lockTTL time.Duration
	newID   func() string
}

// New creates a Runner around engine.
func New(engine *runtime.Engine, opts ...Option) *Runner {
	r := &Runner{
		engine:  engine,
		logger:  logging.NewNop(),
		lockTTL: DefaultLockTTL,
		newID:   uuid.NewString,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Engine returns the wrapped engine.
func (r *Runner) Engine() *runtime.Engine {
	return r.engine
}

// Store returns the configured store, or nil.
func (r *Runner) Store() ports.RunStore {
	return r.store
}

// Run performs mode with the given initial parameters.
//
// Unknown modes and lock failures return a nil record and nothing is stored.
// Otherwise the returned record is always non-nil: on a brick failure it holds
// the steps that completed, the context as they left it, and the error text.
func (r *Runner) Run(ctx context.Context, mode string, params map[string]any) (*domain.RunRecord, error) {
	if _, err := r.engine.Registry().Resolve(mode); err != nil {
		return nil, err
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	logger := r.logger.With("mode", mode)

	if r.locker != nil {
		unlock, err := r.locker.Lock(ctx, LockKey(mode), r.lockTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to lock mode %s: %w", mode, err)
		}
		defer func() {
			if err := unlock(context.WithoutCancel(ctx)); err != nil {
				logger.Warn("failed to release mode lock", "error", err)
			}
		}()
	}

	rec := domain.NewRunRecord(r.newID(), mode, domain.NewParams(params))
	logger = logger.With("run_id", rec.ID)

	if err := r.save(ctx, rec); err != nil {
		return nil, err
	}
	logger.Debug("run recorded", "status", rec.Status)

	res, runErr := r.engine.PerformWithParams(ctx, mode, params)
	if res != nil {
		for i, action := range res.Actions {
			rec.Steps = append(rec.Steps, domain.StepRecord{
				Index:   i,
				Action:  action.Name(),
				Results: res.Records[i],
			})
		}
		rec.Final = res.Params.Map()
	}
	rec.Finish(runErr)

	// The run context may already be expired; the audit entry must still land.
	if err := r.save(context.WithoutCancel(ctx), rec); err != nil {
		if runErr != nil {
			logger.Error("failed to record failed run", "error", err)
			return rec, runErr
		}
		return rec, err
	}

	if runErr != nil {
		logger.Debug("run failed", "steps", len(rec.Steps), "error", runErr)
		return rec, runErr
	}
	logger.Debug("run succeeded", "steps", len(rec.Steps))
	return rec, nil
}

func (r *Runner) save(ctx context.Context, rec *domain.RunRecord) error {
	if r.store == nil {
		return nil
	}
	if err := r.store.Save(ctx, rec); err != nil {
		return fmt.Errorf("failed to save run %s: %w", rec.ID, err)
	}
	return nil
}
