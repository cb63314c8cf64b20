package logging

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/lcm/pkg/domain"
)

// New creates a configured application logger.
// It writes to Stderr (stdout carries reports and JSON output).
// It standardizes common keys (e.g., "error" -> "err").
func New(level slog.Level) *slog.Logger {
	return NewWithWriter(os.Stderr, level)
}

// NewWithWriter is like New but writes to w.
func NewWithWriter(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == "error" {
				a.Key = "err"
			}
			return a
		},
	}))
}

// NewNop returns a no-op logger.
func NewNop() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// Hooks returns lifecycle hooks that log every run and brick milestone at debug level.
func Hooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *domain.RunEvent) {
			logger.DebugContext(ctx, "run_start", "mode", e.Mode, "actions", len(e.Actions))
		},
		OnRunFinish: func(ctx context.Context, e *domain.RunEvent) {
			if e.Err != nil {
				logger.DebugContext(ctx, "run_finish", "mode", e.Mode, "duration", e.Duration, "error", e.Err)
				return
			}
			logger.DebugContext(ctx, "run_finish", "mode", e.Mode, "duration", e.Duration)
		},
		OnActionStart: func(ctx context.Context, e *domain.ActionEvent) {
			logger.DebugContext(ctx, "action_start", "mode", e.Mode, "index", e.Index, "action", e.Action)
		},
		OnActionFinish: func(ctx context.Context, e *domain.ActionEvent) {
			attrs := []any{"mode", e.Mode, "index", e.Index, "action", e.Action, "results", e.Results, "duration", e.Duration}
			if len(e.Delta) > 0 {
				keys := make([]string, 0, len(e.Delta))
				for k := range e.Delta {
					keys = append(keys, k)
				}
				attrs = append(attrs, "delta", keys)
			}
			if e.Err != nil {
				attrs = append(attrs, "error", e.Err)
			}
			logger.DebugContext(ctx, "action_finish", attrs...)
		},
	}
}
