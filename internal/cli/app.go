package cli

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/lcm"
	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/adapters/file"
	"github.com/aretw0/lcm/pkg/adapters/memory"
	"github.com/aretw0/lcm/pkg/adapters/process"
	"github.com/aretw0/lcm/pkg/adapters/redis"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/locking"
	"github.com/aretw0/lcm/pkg/persistence/middleware"
	"github.com/aretw0/lcm/pkg/ports"
	"github.com/aretw0/lcm/pkg/report"
)

// App bundles the engine and the resources the CLI must release.
type App struct {
	Engine *lcm.Engine
	Store  ports.RunStore
	Logger *slog.Logger

	closers []io.Closer
}

// Close releases the store connections.
func (a *App) Close() error {
	var first error
	for _, c := range a.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// NewApp builds an engine from the CLI options. Reports go to out.
// Extra hooks are combined with the debug logging hooks.
func NewApp(opts Options, out io.Writer, hooks ...domain.LifecycleHooks) (*App, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	logger := createLogger(opts.Debug)
	app := &App{Logger: logger}

	bricks, err := process.LoadBricks(opts.BricksPath)
	if err != nil {
		return nil, err
	}
	platform := process.New(
		process.WithBricks(bricks),
		process.WithBaseDir(filepath.Dir(opts.BricksPath)),
		process.WithLogger(logger),
	)
	logger.Debug("platform bricks loaded", "path", opts.BricksPath, "bricks", platform.Bricks())

	engineOpts := []lcm.Option{
		lcm.WithPlatform(platform),
		lcm.WithLogger(logger),
		lcm.WithReporter(createReporter(opts.JSON, out)),
	}

	store, locker, err := app.createStore(opts)
	if err != nil {
		return nil, err
	}
	store, err = wrapStore(store, opts)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Store = store
	engineOpts = append(engineOpts, lcm.WithStore(store))
	if locker != nil || opts.Serialize {
		var lockOpts []locking.Option
		if locker != nil {
			lockOpts = append(lockOpts, locking.WithLocker(locker))
		}
		lockOpts = append(lockOpts, locking.WithLogger(logger))
		engineOpts = append(engineOpts, lcm.WithLocker(locking.NewManager(lockOpts...)))
	}
	if opts.Timeout > 0 {
		engineOpts = append(engineOpts, lcm.WithTimeout(opts.Timeout))
	}

	if opts.Debug {
		hooks = append([]domain.LifecycleHooks{logging.Hooks(logger)}, hooks...)
	}
	if len(hooks) > 0 {
		engineOpts = append(engineOpts, lcm.WithLifecycleHooks(domain.CombineHooks(hooks...)))
	}

	eng, err := lcm.New(engineOpts...)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Engine = eng
	return app, nil
}

func (a *App) createStore(opts Options) (ports.RunStore, ports.DistributedLocker, error) {
	switch opts.Store {
	case StoreMemory:
		return memory.NewStore(), nil, nil
	case StoreRedis:
		store, err := redis.New(opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
		}
		a.closers = append(a.closers, store)
		if opts.Lock {
			return store, redis.NewLocker(store.Client(), "lcm:"), nil
		}
		return store, nil, nil
	default:
		return file.New(opts.StorePath), nil, nil
	}
}

// wrapStore masks redacted params, then encrypts when a key is configured.
func wrapStore(store ports.RunStore, opts Options) (ports.RunStore, error) {
	var mws []middleware.Middleware
	if len(opts.Redact) > 0 {
		pii, err := middleware.NewPIIMiddleware(opts.Redact)
		if err != nil {
			return nil, fmt.Errorf("invalid --redact pattern: %w", err)
		}
		mws = append(mws, pii)
	}
	if opts.EncryptionKey != "" {
		key, err := middleware.ParseKey(opts.EncryptionKey)
		if err != nil {
			return nil, err
		}
		enc, err := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})
		if err != nil {
			return nil, err
		}
		mws = append(mws, enc)
	}
	return middleware.Chain(store, mws...), nil
}

func createReporter(jsonMode bool, out io.Writer) report.Reporter {
	if jsonMode {
		return report.NewJSON(out)
	}
	return report.NewTable(out)
}

// createLogger configures the application logger.
// In debug mode, it writes to Stderr (to keep stdout for reports).
func createLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(slog.LevelWarn)
}
