package process

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os/exec"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/schema"
)

// EnvPrefix prefixes every parameter exported to a brick command.
const EnvPrefix = "LCM_PARAM_"

var envKeyPattern = regexp.MustCompile(`[^A-Z0-9_]`)

// Platform implements ports.Platform by executing local processes.
// It follows a strict registry pattern (allow-listing): only bricks bound in
// the registry can run, and parameters never become command-line flags.
//
// The command receives the full parameter context as a JSON object on stdin
// and every top-level parameter as an LCM_PARAM_<KEY> environment variable.
// It must print its outcome as JSON on stdout.
type Platform struct {
	registry map[string]BrickConfig
	baseDir  string
	logger   *slog.Logger
}

// Option configures the platform.
type Option func(*Platform)

// WithBricks populates the allow-list from a loaded config.
func WithBricks(bricks map[string]BrickConfig) Option {
	return func(p *Platform) {
		for name, b := range bricks {
			b.Name = name
			p.registry[name] = b
		}
	}
}

// WithBaseDir sets the working directory for executed processes.
func WithBaseDir(dir string) Option {
	return func(p *Platform) {
		p.baseDir = dir
	}
}

// WithLogger sets the logger used for command diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Platform) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New creates a new process platform.
func New(opts ...Option) *Platform {
	p := &Platform{
		registry: make(map[string]BrickConfig),
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Register adds a trusted command for a brick to the allow-list.
func (p *Platform) Register(brick, command string, args ...string) {
	p.registry[brick] = BrickConfig{Name: brick, Command: command, Args: args}
}

// Bricks returns the bound brick names, sorted.
func (p *Platform) Bricks() []string {
	names := make([]string, 0, len(p.registry))
	for name := range p.registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Invoke runs the command bound to brick and decodes its JSON reply.
func (p *Platform) Invoke(ctx context.Context, brick string, params domain.Params) (any, error) {
	cfg, ok := p.registry[brick]
	if !ok {
		return nil, fmt.Errorf("no process bound to brick %s: %w", brick, domain.ErrNotImplemented)
	}

	plain := params.Map()
	if len(cfg.Params) > 0 {
		if err := schema.Validate(cfg.Params, plain); err != nil {
			return nil, &domain.ParamValidationError{Action: brick, Err: err}
		}
	}

	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil && d > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, d)
			defer cancel()
		}
	}

	input, err := json.Marshal(plain)
	if err != nil {
		return nil, fmt.Errorf("failed to encode params for %s: %w", brick, err)
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = p.baseDir
	cmd.Env = append(cmd.Environ(), environment(cfg.Environment, plain)...)
	cmd.Stdin = bytes.NewReader(input)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	started := time.Now()
	err = cmd.Run()
	p.logger.Debug("brick process finished",
		"brick", brick,
		"command", cfg.Command,
		"duration", time.Since(started),
		"stdout_bytes", stdout.Len(),
		"error", err,
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, fmt.Errorf("brick %s: %w", brick, ctxErr)
		}
		return nil, fmt.Errorf("brick %s: execution failed: %w: %s", brick, err, strings.TrimSpace(stderr.String()))
	}

	trimmed := bytes.TrimSpace(stdout.Bytes())
	if len(trimmed) == 0 {
		return []any{}, nil
	}

	var reply any
	if err := json.Unmarshal(trimmed, &reply); err != nil {
		return nil, &domain.MalformedOutcomeError{Action: brick, Got: string(trimmed), Reason: "stdout is not JSON"}
	}
	return reply, nil
}

// environment renders static env entries and parameters as KEY=value strings.
// Scalars are formatted as-is; mappings and sequences as JSON.
func environment(static map[string]string, params map[string]any) []string {
	env := make([]string, 0, len(static)+len(params))
	for k, v := range static {
		env = append(env, k+"="+v)
	}
	for k, v := range params {
		key := EnvPrefix + envKeyPattern.ReplaceAllString(strings.ToUpper(k), "_")

		var val string
		switch v.(type) {
		case nil:
		case string, int, int64, float64, bool:
			val = fmt.Sprintf("%v", v)
		default:
			if b, err := json.Marshal(v); err == nil {
				val = string(b)
			} else {
				val = fmt.Sprintf("%v", v)
			}
		}
		env = append(env, key+"="+val)
	}
	sort.Strings(env)
	return env
}
