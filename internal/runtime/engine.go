package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/registry"
	"github.com/aretw0/lcm/pkg/report"
)

// Engine executes modes: it resolves a mode to its bricks and runs them in
// order against one shared parameter context.
// The Engine holds no per-run state and is safe for concurrent use.
type Engine struct {
	registry *registry.Registry
	reporter report.Reporter
	hooks    domain.LifecycleHooks
	logger   *slog.Logger
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithReporter sets where plans and results are printed. Defaults to report.Nop().
func WithReporter(r report.Reporter) EngineOption {
	return func(e *Engine) {
		if r != nil {
			e.reporter = r
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates a new engine over the given registry.
func NewEngine(reg *registry.Registry, opts ...EngineOption) *Engine {
	e := &Engine{
		registry: reg,
		reporter: report.Nop(),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Registry returns the registry the engine resolves modes from.
func (e *Engine) Registry() *registry.Registry {
	return e.registry
}

// Result is the outcome of a complete or aborted run.
type Result struct {
	Mode string
	// Actions are the bricks that ran to completion, in order.
	Actions []domain.Action
	// Records holds one entry per completed brick, aligned with Actions.
	Records [][]domain.Record
	// Params is the parameter context after the last completed brick.
	Params domain.Params
}

// Perform runs mode against the initial parameters and returns the records
// produced by each brick, in execution order.
func (e *Engine) Perform(ctx context.Context, mode string, initial map[string]any) ([][]domain.Record, error) {
	res, err := e.PerformWithParams(ctx, mode, initial)
	if err != nil {
		return nil, err
	}
	return res.Records, nil
}

// PerformWithParams is like Perform but also returns the final context.
// When a brick fails, the returned Result holds everything that completed
// before it, and the error is a *domain.ActionError.
func (e *Engine) PerformWithParams(ctx context.Context, mode string, initial map[string]any) (*Result, error) {
	params := domain.NewParams(initial)

	actions, err := e.registry.Resolve(mode)
	if err != nil {
		return nil, err
	}

	logger := e.logger.With("mode", mode)
	ctx = registry.WithCatalog(ctx, e.registry)

	if err := e.reporter.Plan(mode, actions); err != nil {
		logger.Warn("failed to report plan", "error", err)
	}

	res := &Result{
		Mode:    mode,
		Actions: make([]domain.Action, 0, len(actions)),
		Records: make([][]domain.Record, 0, len(actions)),
		Params:  params,
	}

	started := time.Now()
	names := make([]string, len(actions))
	for i, a := range actions {
		names[i] = a.Name()
	}
	if e.hooks.OnRunStart != nil {
		e.hooks.OnRunStart(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: started, Type: domain.EventRunStart, Mode: mode},
			Actions:   names,
		})
	}
	logger.Debug("run started", "actions", len(actions))

	runErr := e.run(ctx, logger, mode, actions, res)

	if runErr == nil && len(res.Actions) > 1 {
		if err := e.reporter.Summary(res.Actions, res.Records); err != nil {
			logger.Warn("failed to report summary", "error", err)
		}
	}

	if e.hooks.OnRunFinish != nil {
		e.hooks.OnRunFinish(ctx, &domain.RunEvent{
			EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventRunFinish, Mode: mode},
			Actions:   names,
			Duration:  time.Since(started),
			Err:       runErr,
		})
	}

	if runErr != nil {
		logger.Debug("run aborted", "completed", len(res.Actions), "error", runErr)
		return res, runErr
	}
	logger.Debug("run finished", "duration", time.Since(started))
	return res, nil
}

func (e *Engine) run(ctx context.Context, logger *slog.Logger, mode string, actions []domain.Action, res *Result) error {
	for i, action := range actions {
		if err := ctx.Err(); err != nil {
			return &domain.ActionError{Mode: mode, Index: i, Action: action.Name(), Err: err}
		}

		records, err := e.step(ctx, logger, mode, i, action, res.Params)
		if err != nil {
			return &domain.ActionError{Mode: mode, Index: i, Action: action.Name(), Err: err}
		}

		if err := e.reporter.Outcome(action, records); err != nil {
			logger.Warn("failed to report outcome", "action", action.Name(), "error", err)
		}

		res.Actions = append(res.Actions, action)
		res.Records = append(res.Records, records)
	}
	return nil
}
