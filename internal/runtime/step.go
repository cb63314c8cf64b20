package runtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/lcm/pkg/domain"
)

// step invokes one brick and folds its parameter delta into params.
func (e *Engine) step(ctx context.Context, logger *slog.Logger, mode string, index int, action domain.Action, params domain.Params) ([]domain.Record, error) {
	started := time.Now()
	event := &domain.ActionEvent{
		EventBase: domain.EventBase{Timestamp: started, Type: domain.EventActionStart, Mode: mode},
		Index:     index,
		Action:    action.Name(),
	}
	if e.hooks.OnActionStart != nil {
		e.hooks.OnActionStart(ctx, event)
	}

	records, delta, err := e.invoke(ctx, action, params)

	if e.hooks.OnActionFinish != nil {
		finish := *event
		finish.Timestamp = time.Now()
		finish.Type = domain.EventActionFinish
		finish.Results = len(records)
		finish.Delta = delta
		finish.Duration = time.Since(started)
		finish.Err = err
		e.hooks.OnActionFinish(ctx, &finish)
	}

	if err != nil {
		logger.Debug("action failed", "index", index, "action", action.Name(), "error", err)
		return nil, err
	}

	params.Merge(delta)
	logger.Debug("action finished",
		"index", index,
		"action", action.Name(),
		"results", len(records),
		"delta_keys", len(delta),
		"duration", time.Since(started),
	)
	return records, nil
}

// invoke validates declared params, calls the brick and splits its outcome.
func (e *Engine) invoke(ctx context.Context, action domain.Action, params domain.Params) ([]domain.Record, map[string]any, error) {
	if decl, ok := action.(domain.ParamDeclarer); ok {
		if err := domain.ApplyParamSpecs(decl.Params(), params); err != nil {
			return nil, nil, &domain.ParamValidationError{Action: action.Name(), Err: err}
		}
	}

	out, err := action.Call(ctx, params)
	if err != nil {
		return nil, nil, err
	}

	records, delta, err := out.Split()
	if err != nil {
		if m, ok := err.(*domain.MalformedOutcomeError); ok {
			m.Action = action.Name()
		}
		return nil, nil, err
	}
	return records, delta, nil
}
