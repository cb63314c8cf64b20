package lcm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/internal/runtime"
	"github.com/aretw0/lcm/pkg/actions"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/aretw0/lcm/pkg/registry"
	"github.com/aretw0/lcm/pkg/report"
	"github.com/aretw0/lcm/pkg/runner"
)

// Result is the outcome of PerformWithParams.
type Result = runtime.Result

// Engine is the high-level entry point for the lcm library.
// It wires the mode registry, the executor and the run harness together.
type Engine struct {
	runtime  *runtime.Engine
	runner   *runner.Runner
	registry *registry.Registry

	platform   ports.Platform
	modes      []domain.Mode
	reporter   report.Reporter
	hooks      domain.LifecycleHooks
	logger     *slog.Logger
	runnerOpts []runner.Option
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithPlatform binds platform bricks of the default mode table to p.
// Without it those bricks fail with domain.ErrNotImplemented.
func WithPlatform(p ports.Platform) Option {
	return func(e *Engine) {
		e.platform = p
	}
}

// WithModes replaces the default mode table.
func WithModes(modes ...domain.Mode) Option {
	return func(e *Engine) {
		e.modes = modes
	}
}

// WithReporter sets where plans and results are printed.
func WithReporter(r report.Reporter) Option {
	return func(e *Engine) {
		e.reporter = r
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine and the runner.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore persists an audit record of every Run.
func WithStore(store ports.RunStore) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithStore(store))
	}
}

// WithLocker serializes Run calls of the same mode across processes.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithLocker(locker))
	}
}

// WithTimeout bounds every Run.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.runnerOpts = append(e.runnerOpts, runner.WithTimeout(d))
	}
}

// New initializes a new lcm Engine.
func New(opts ...Option) (*Engine, error) {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	modes := eng.modes
	if modes == nil {
		modes = actions.DefaultModes(eng.platform)
	}
	reg, err := registry.New(modes...)
	if err != nil {
		return nil, fmt.Errorf("invalid mode table: %w", err)
	}
	eng.registry = reg

	eng.runtime = runtime.NewEngine(reg,
		runtime.WithReporter(eng.reporter),
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
	)

	runnerOpts := append([]runner.Option{runner.WithLogger(eng.logger)}, eng.runnerOpts...)
	eng.runner = runner.New(eng.runtime, runnerOpts...)

	return eng, nil
}

// Perform runs mode and returns the records of each brick, in order.
func (e *Engine) Perform(ctx context.Context, mode string, params map[string]any) ([][]domain.Record, error) {
	return e.runtime.Perform(ctx, mode, params)
}

// PerformWithParams is like Perform but also returns the final parameter context.
func (e *Engine) PerformWithParams(ctx context.Context, mode string, params map[string]any) (*Result, error) {
	return e.runtime.PerformWithParams(ctx, mode, params)
}

// Run performs mode through the harness: run ID, timeout, lock and audit record.
func (e *Engine) Run(ctx context.Context, mode string, params map[string]any) (*domain.RunRecord, error) {
	return e.runner.Run(ctx, mode, params)
}

// Registry returns the mode registry.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Runner returns the run harness, for adapters that serve runs.
func (e *Engine) Runner() *runner.Runner {
	return e.runner
}
