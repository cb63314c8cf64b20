package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/aretw0/lcm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("brick fixtures are POSIX shell scripts")
	}
}

func TestPlatform_Invoke(t *testing.T) {
	requireShell(t)

	p := New()
	p.Register("collect_segments", "sh", "-c",
		`echo '{"results":[{"segment":"'"$LCM_PARAM_ORGANIZATION"'"}],"params":{"segments":["premium"]}}'`)
	p.Register("echo_stdin", "sh", "-c", `read line; echo "[$line]"`)
	p.Register("silent", "true")
	p.Register("fails", "sh", "-c", `echo "api down" >&2; exit 3`)
	p.Register("not_json", "echo", "done")

	ctx := context.Background()
	params := domain.NewParams(map[string]any{"Organization": "acme", "nested": map[string]any{"k": 1}})

	t.Run("Env Vars And Structured Reply", func(t *testing.T) {
		raw, err := p.Invoke(ctx, "collect_segments", params)
		require.NoError(t, err)

		out, err := domain.OutcomeFrom(raw)
		require.NoError(t, err)
		assert.Equal(t, "acme", out.Results[0].Get("segment"))
		assert.Equal(t, []any{"premium"}, out.Params["segments"])
	})

	t.Run("Params On Stdin", func(t *testing.T) {
		raw, err := p.Invoke(ctx, "echo_stdin", params)
		require.NoError(t, err)

		out, err := domain.OutcomeFrom(raw)
		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, "acme", out.Results[0].Get("organization"))
	})

	t.Run("Empty Stdout Is No Records", func(t *testing.T) {
		raw, err := p.Invoke(ctx, "silent", params)
		require.NoError(t, err)
		assert.Equal(t, []any{}, raw)
	})

	t.Run("Non-Zero Exit Includes Stderr", func(t *testing.T) {
		_, err := p.Invoke(ctx, "fails", params)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api down")
	})

	t.Run("Non-JSON Stdout Is Malformed", func(t *testing.T) {
		_, err := p.Invoke(ctx, "not_json", params)
		assert.ErrorIs(t, err, domain.ErrMalformedOutcome)
	})

	t.Run("Unbound Brick", func(t *testing.T) {
		_, err := p.Invoke(ctx, "hacker_script", params)
		assert.ErrorIs(t, err, domain.ErrNotImplemented)
	})
}

func TestPlatform_DeclaredParams(t *testing.T) {
	requireShell(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "bricks.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`
bricks:
  - name: update_release_table
    command: sh
    args: ["-c", "echo '[]'"]
    timeout: 5s
    params:
      release_table_name: string
`), 0644))

	bricks, err := LoadBricks(cfgPath)
	require.NoError(t, err)
	p := New(WithBricks(bricks), WithBaseDir(dir))
	assert.Equal(t, []string{"update_release_table"}, p.Bricks())

	_, err = p.Invoke(context.Background(), "update_release_table", domain.Params{})
	var pErr *domain.ParamValidationError
	require.ErrorAs(t, err, &pErr)

	raw, err := p.Invoke(context.Background(), "update_release_table", domain.Params{"release_table_name": "LCM_RELEASE"})
	require.NoError(t, err)
	assert.Equal(t, []any{}, raw)
}

func TestLoadBricks(t *testing.T) {
	dir := t.TempDir()

	t.Run("Missing File", func(t *testing.T) {
		bricks, err := LoadBricks(filepath.Join(dir, "absent.yaml"))
		require.NoError(t, err)
		assert.Empty(t, bricks)
	})

	t.Run("JSON", func(t *testing.T) {
		path := filepath.Join(dir, "bricks.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"bricks":[{"name":"ensure_titles","command":"./titles.sh","env":{"API":"x"}}]}`), 0644))

		bricks, err := LoadBricks(path)
		require.NoError(t, err)
		assert.Equal(t, "./titles.sh", bricks["ensure_titles"].Command)
		assert.Equal(t, "x", bricks["ensure_titles"].Environment["API"])
	})

	t.Run("Invalid Entries", func(t *testing.T) {
		path := filepath.Join(dir, "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("bricks:\n  - name: x\n"), 0644))
		_, err := LoadBricks(path)
		assert.ErrorContains(t, err, "command is required")

		require.NoError(t, os.WriteFile(path, []byte("bricks:\n  - name: x\n    command: y\n    timeout: soon\n"), 0644))
		_, err = LoadBricks(path)
		assert.ErrorContains(t, err, "invalid timeout")
	})
}

func TestEnvironment(t *testing.T) {
	env := environment(map[string]string{"STATIC": "1"}, map[string]any{
		"segment-id": "premium",
		"count":      2,
		"tags":       []any{"a"},
		"none":       nil,
	})

	assert.Equal(t, []string{
		"LCM_PARAM_COUNT=2",
		"LCM_PARAM_NONE=",
		"LCM_PARAM_SEGMENT_ID=premium",
		`LCM_PARAM_TAGS=["a"]`,
		"STATIC=1",
	}, env)
}
