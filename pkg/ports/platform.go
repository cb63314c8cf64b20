package ports

import (
	"context"

	"github.com/aretw0/lcm/pkg/domain"
)

// Platform performs the side effects of platform-bound bricks.
// The engine never talks to the platform directly: each brick asks the
// Platform to run it and classifies the raw reply as an outcome.
type Platform interface {
	// Invoke runs the named brick against the current parameters and returns
	// its raw outcome: a sequence of mappings, or a mapping with "results"
	// and/or "params". Unbound bricks fail with domain.ErrNotImplemented.
	Invoke(ctx context.Context, brick string, params domain.Params) (any, error)
}

// PlatformFunc adapts a plain function into a Platform.
type PlatformFunc func(ctx context.Context, brick string, params domain.Params) (any, error)

func (f PlatformFunc) Invoke(ctx context.Context, brick string, params domain.Params) (any, error) {
	return f(ctx, brick, params)
}
