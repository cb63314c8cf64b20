package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/internal/runtime"
	"github.com/aretw0/lcm/pkg/actions"
	"github.com/aretw0/lcm/pkg/adapters/memory"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/runner"
)

func newServer(t *testing.T) *Server {
	t.Helper()
	r := runner.New(runtime.NewEngine(actions.DefaultRegistry(nil)), runner.WithStore(memory.NewStore()))
	return NewServer(r, "test")
}

func TestListModes(t *testing.T) {
	s := newServer(t)

	out, err := s.handleListModes(context.Background(), mcp.CallToolRequest{}, nil)
	require.NoError(t, err)
	require.NotEmpty(t, out.Modes)

	var names []string
	for _, m := range out.Modes {
		names = append(names, m.Name)
	}
	assert.Contains(t, names, "release")
	assert.Contains(t, names, "hello")
}

func TestDescribeMode(t *testing.T) {
	s := newServer(t)

	info, err := s.handleDescribeMode(context.Background(), mcp.CallToolRequest{}, map[string]any{"mode": "users"})
	require.NoError(t, err)
	assert.Equal(t, "users", info.Name)
	require.Len(t, info.Actions, 2)
	assert.Equal(t, "ensure_users_domain", info.Actions[0].Name)

	_, err = s.handleDescribeMode(context.Background(), mcp.CallToolRequest{}, map[string]any{"mode": "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}

func TestPerform(t *testing.T) {
	s := newServer(t)
	ctx := context.Background()

	out, err := s.handlePerform(ctx, mcp.CallToolRequest{}, PerformArgs{Mode: "hello", Params: map[string]any{"MESSAGE": "hey"}})
	require.NoError(t, err)
	require.NotNil(t, out.Run)
	assert.Empty(t, out.Error)
	assert.Equal(t, "hey", out.Run.Steps[0].Results[0].Get("message"))

	// Platform bricks are unbound here: the run fails but the record comes back.
	out, err = s.handlePerform(ctx, mcp.CallToolRequest{}, PerformArgs{Mode: "users"})
	require.NoError(t, err)
	require.NotNil(t, out.Run)
	assert.Equal(t, domain.RunStatusFailed, out.Run.Status)
	assert.Contains(t, out.Error, "not implemented")

	_, err = s.handlePerform(ctx, mcp.CallToolRequest{}, PerformArgs{Mode: "bogus"})
	assert.ErrorIs(t, err, domain.ErrUnknownMode)
}

func TestReadModesResource(t *testing.T) {
	s := newServer(t)

	contents, err := s.readModes(context.Background(), mcp.ReadResourceRequest{})
	require.NoError(t, err)
	require.Len(t, contents, 1)

	text, ok := contents[0].(mcp.TextResourceContents)
	require.True(t, ok)
	assert.Equal(t, ModesURI, text.URI)

	var infos []dto.ModeInfo
	require.NoError(t, json.Unmarshal([]byte(text.Text), &infos))
	assert.Equal(t, "actions", infos[0].Name)
}
