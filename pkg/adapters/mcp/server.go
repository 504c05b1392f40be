package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	contentmachine "github.com/Moosa-Imran/Content-Machine-sub001"
	"github.com/Moosa-Imran/Content-Machine-sub001/internal/logging"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/composer"
	"github.com/Moosa-Imran/Content-Machine-sub001/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// CategoriesURI is the resource listing category metadata.
const CategoriesURI = "framework://categories"

// FrameworkService is the part of framework.Service exposed as tools.
type FrameworkService interface {
	Get(ctx context.Context) (domain.Framework, error)
	Save(ctx context.Context, candidate any) (domain.Framework, error)
	Reset(ctx context.Context) (domain.Framework, error)
}

// ScriptComposer backs the compose_script tool.
type ScriptComposer interface {
	Compose(ctx context.Context, brief composer.Brief) (composer.Script, error)
}

// Server exposes the framework service as an MCP server.
type Server struct {
	service   FrameworkService
	composer  ScriptComposer
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// Option configures a Server.
type Option func(*Server)

// WithComposer registers the compose_script tool.
func WithComposer(c ScriptComposer) Option {
	return func(s *Server) {
		s.composer = c
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates a new MCP Server instance.
func NewServer(service FrameworkService, opts ...Option) *Server {
	s := &Server{
		service: service,
		logger:  logging.NewNop(),
		mcpServer: server.NewMCPServer("contentmachine-mcp", contentmachine.Version,
			server.WithToolCapabilities(true),
			server.WithResourceCapabilities(false, true),
			server.WithRecovery(),
		),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying mcp-go server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops when ctx is done.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("get_framework",
		mcp.WithDescription("Fetch the current template framework. Initializes it from the defaults on first use."),
	), s.handleGetFramework)

	s.mcpServer.AddTool(mcp.NewTool("save_framework",
		mcp.WithDescription("Replace the whole template framework. Omitted categories are cleared; unknown category keys are rejected."),
		mcp.WithObject("framework",
			mcp.Required(),
			mcp.Description("Object mapping category keys (hooks, buildUps, stories, psychologies, extraHooks) to lists of template strings"),
		),
	), s.handleSaveFramework)

	s.mcpServer.AddTool(mcp.NewTool("reset_framework",
		mcp.WithDescription("Restore the default template framework, discarding all edits."),
	), s.handleResetFramework)

	if s.composer != nil {
		s.mcpServer.AddTool(mcp.NewTool("compose_script",
			mcp.WithDescription("Compose a short-video script for a company from the current framework."),
			mcp.WithString("company", mcp.Required(), mcp.Description("Company the script is about")),
			mcp.WithString("tactic", mcp.Description("Business tactic or psychological principle to feature")),
			mcp.WithBoolean("use_extra_hooks", mcp.Description("Mix extra hooks into the hook selection")),
			mcp.WithNumber("variant", mcp.Description("Selection offset for an alternative script")),
		), s.handleComposeScript)
	}
}

func (s *Server) handleGetFramework(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fw, err := s.service.Get(ctx)
	return s.frameworkResult("get_framework", fw, err)
}

func (s *Server) handleSaveFramework(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	candidate, ok := request.GetArguments()["framework"]
	if !ok {
		return mcp.NewToolResultError("missing required argument: framework"), nil
	}
	// Some clients send objects as JSON text.
	if raw, isString := candidate.(string); isString {
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("framework is not valid JSON: %v", err)), nil
		}
		candidate = decoded
	}

	fw, err := s.service.Save(ctx, candidate)
	return s.frameworkResult("save_framework", fw, err)
}

func (s *Server) handleResetFramework(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	fw, err := s.service.Reset(ctx)
	return s.frameworkResult("reset_framework", fw, err)
}

func (s *Server) handleComposeScript(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	brief := composer.Brief{
		Company:       request.GetString("company", ""),
		Tactic:        request.GetString("tactic", ""),
		UseExtraHooks: request.GetBool("use_extra_hooks", false),
		Variant:       request.GetInt("variant", 0),
	}
	script, err := s.composer.Compose(ctx, brief)
	if err != nil {
		s.logger.Warn("MCP compose_script failed", "error", err)
		return mcp.NewToolResultError(fmt.Sprintf("compose failed: %v", err)), nil
	}
	return jsonResult(script)
}

// frameworkResult turns service errors into tool errors so the model can react to them.
func (s *Server) frameworkResult(tool string, fw domain.Framework, err error) (*mcp.CallToolResult, error) {
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			s.logger.Warn("MCP tool rejected input", "tool", tool, "error", err)
		} else {
			s.logger.Error("MCP tool failed", "tool", tool, "error", err)
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(fw)
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	jsonBytes, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(CategoriesURI, "Template Categories",
		mcp.WithResourceDescription("Category keys in enumeration order with titles, descriptions and editor nesting."),
		mcp.WithMIMEType("application/json"),
	), s.handleCategories)
}

func (s *Server) handleCategories(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	jsonBytes, err := json.Marshal(domain.AllInfo())
	if err != nil {
		return nil, fmt.Errorf("failed to encode categories: %w", err)
	}
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      CategoriesURI,
			MIMEType: "application/json",
			Text:     string(jsonBytes),
		},
	}, nil
}
