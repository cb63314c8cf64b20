package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"golang.org/x/sync/errgroup"

	"github.com/aretw0/lcm/internal/dto"
	"github.com/aretw0/lcm/internal/logging"
	"github.com/aretw0/lcm/pkg/domain"
	"github.com/aretw0/lcm/pkg/runner"
)

// ModesURI is the resource listing every registered mode.
const ModesURI = "lcm://modes"

// ModesResponse is the output of list_modes.
type ModesResponse struct {
	Modes []dto.ModeSummary `json:"modes" jsonschema_description:"Registered modes in declaration order"`
}

// PerformArgs are the arguments of the perform tool.
type PerformArgs struct {
	Mode   string         `json:"mode"`
	Params map[string]any `json:"params,omitempty"`
}

// PerformResponse is the output of perform. A failed run still carries the
// record of the bricks that completed.
type PerformResponse struct {
	Run   *domain.RunRecord `json:"run,omitempty"`
	Error string            `json:"error,omitempty"`
}

// Server exposes modes and runs as MCP tools.
type Server struct {
	runner    *runner.Runner
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures the Server.
type Option func(*Server)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(r *runner.Runner, version string, opts ...Option) *Server {
	s := &Server{
		runner:    r,
		logger:    logging.NewNop(),
		mcpServer: server.NewMCPServer("lcm-mcp", version),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	})
	return g.Wait()
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("list_modes",
		mcp.WithDescription("List the registered modes and the actions each one runs."),
		mcp.WithOutputSchema[ModesResponse](),
	), mcp.NewStructuredToolHandler(s.handleListModes))

	s.mcpServer.AddTool(mcp.NewTool("describe_mode",
		mcp.WithDescription("Describe a mode: its actions in order and the parameters they read."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("Mode name")),
		mcp.WithOutputSchema[dto.ModeInfo](),
	), mcp.NewStructuredToolHandler(s.handleDescribeMode))

	s.mcpServer.AddTool(mcp.NewTool("perform",
		mcp.WithDescription("Run a mode to completion and return the run record."),
		mcp.WithString("mode", mcp.Required(), mcp.Description("Mode name")),
		mcp.WithObject("params", mcp.Description("Initial parameters (keys are case-insensitive)")),
	), mcp.NewStructuredToolHandler(s.handlePerform))
}

func (s *Server) handleListModes(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (ModesResponse, error) {
	modes := s.runner.Engine().Registry().Modes()
	out := ModesResponse{Modes: make([]dto.ModeSummary, len(modes))}
	for i, m := range modes {
		out.Modes[i] = dto.Summarize(m)
	}
	return out, nil
}

func (s *Server) handleDescribeMode(ctx context.Context, request mcp.CallToolRequest, args map[string]any) (dto.ModeInfo, error) {
	name, _ := args["mode"].(string)
	m, err := s.runner.Engine().Registry().Mode(name)
	if err != nil {
		return dto.ModeInfo{}, err
	}
	return dto.Describe(m), nil
}

func (s *Server) handlePerform(ctx context.Context, request mcp.CallToolRequest, args PerformArgs) (PerformResponse, error) {
	rec, err := s.runner.Run(ctx, args.Mode, args.Params)
	if err != nil {
		if rec == nil {
			return PerformResponse{}, err
		}
		s.logger.Info("MCP perform: run failed", "mode", args.Mode, "run_id", rec.ID, "error", err)
		return PerformResponse{Run: rec, Error: err.Error()}, nil
	}
	return PerformResponse{Run: rec}, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(ModesURI, "Registered Modes",
		mcp.WithMIMEType("application/json"),
	), s.readModes)
}

func (s *Server) readModes(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	modes := s.runner.Engine().Registry().Modes()
	infos := make([]dto.ModeInfo, len(modes))
	for i, m := range modes {
		infos[i] = dto.Describe(m)
	}
	data, err := json.Marshal(infos)
	if err != nil {
		return nil, fmt.Errorf("failed to encode modes: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      ModesURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}
