package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventRunStart     EventType = "run_start"
	EventRunFinish    EventType = "run_finish"
	EventActionStart  EventType = "action_start"
	EventActionFinish EventType = "action_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	Mode      string    `json:"mode"`
}

// RunEvent marks the start or end of a pipeline run.
type RunEvent struct {
	EventBase
	Actions  []string      `json:"actions,omitempty"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ActionEvent marks the start or end of one brick invocation.
type ActionEvent struct {
	EventBase
	Index    int            `json:"index"`
	Action   string         `json:"action"`
	Results  int            `json:"results,omitempty"`
	Delta    map[string]any `json:"delta,omitempty"`
	Duration time.Duration  `json:"duration,omitempty"`
	Err      error          `json:"-"`
}

// LifecycleHooks defines callbacks for engine observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnRunStart     func(context.Context, *RunEvent)
	OnRunFinish    func(context.Context, *RunEvent)
	OnActionStart  func(context.Context, *ActionEvent)
	OnActionFinish func(context.Context, *ActionEvent)
}

// CombineHooks fans every callback out to all given hook sets, in order.
func CombineHooks(hooks ...LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnRunStart: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunStart != nil {
					h.OnRunStart(ctx, e)
				}
			}
		},
		OnRunFinish: func(ctx context.Context, e *RunEvent) {
			for _, h := range hooks {
				if h.OnRunFinish != nil {
					h.OnRunFinish(ctx, e)
				}
			}
		},
		OnActionStart: func(ctx context.Context, e *ActionEvent) {
			for _, h := range hooks {
				if h.OnActionStart != nil {
					h.OnActionStart(ctx, e)
				}
			}
		},
		OnActionFinish: func(ctx context.Context, e *ActionEvent) {
			for _, h := range hooks {
				if h.OnActionFinish != nil {
					h.OnActionFinish(ctx, e)
				}
			}
		},
	}
}
