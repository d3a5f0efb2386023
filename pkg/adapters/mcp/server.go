// Package mcp exposes the guide to AI agents as a Model Context Protocol server.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/itnav/internal/logging"
	"github.com/aretw0/itnav/internal/presentation/graph"
	"github.com/aretw0/itnav/internal/validator"
	"github.com/aretw0/itnav/pkg/domain"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Resource URIs.
const (
	StateURI = "itnav://state"
	GraphURI = "itnav://graph"
)

// WalkResponse is the structured result of render_walk and choose.
type WalkResponse struct {
	Walk     domain.Walk `json:"walk" jsonschema_description:"The walk to send back with the next call"`
	View     domain.View `json:"view" jsonschema_description:"The rendered position and its legal actions"`
	Terminal bool        `json:"terminal" jsonschema_description:"Indicates if only a reset is left"`
}

// Guide is the part of itnav.Guide the MCP server needs.
type Guide interface {
	Categories() []domain.Category
	Select(ctx context.Context, categoryID string) (domain.Walk, error)
	Choose(ctx context.Context, w domain.Walk, action domain.Action) (domain.Walk, error)
	Render(ctx context.Context, w domain.Walk) domain.View
	Committed() domain.State
	Issues() []domain.Issue
}

// Server wraps the Guide and exposes it as an MCP Server.
type Server struct {
	guide     Guide
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(guide Guide, version string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Server{
		guide:     guide,
		logger:    logger,
		mcpServer: server.NewMCPServer("itnav-mcp", version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
// baseURL defaults to http://localhost:<port>.
func (s *Server) ServeSSE(ctx context.Context, port int, baseURL string) error {
	addr := fmt.Sprintf(":%d", port)
	if baseURL == "" {
		baseURL = fmt.Sprintf("http://localhost:%d", port)
	}

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	// Channel to listen for errors coming from the listener.
	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("Shutdown signal received, shutting down MCP server")
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
	s.mcpServer.AddTool(mcp.NewTool("list_categories",
		mcp.WithDescription("List the troubleshooting categories an end user can start from."),
	), s.handleListCategories)

	renderTool := mcp.NewTool("render_walk",
		mcp.WithDescription("Render a walk. With only category_id, starts at the category's first question."),
		mcp.WithString("category_id", mcp.Description("Category to start or continue")),
		mcp.WithString("history", mcp.Description("JSON array of visited node IDs, last one is current (optional)")),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(renderTool, mcp.NewStructuredToolHandler(s.handleRenderWalk))

	chooseTool := mcp.NewTool("choose",
		mcp.WithDescription("Answer the current node: yes, no, resolved, not_resolved, back or reset."),
		mcp.WithString("action", mcp.Required(), mcp.Description("One of the view's actions")),
		mcp.WithString("category_id", mcp.Description("Category of the walk")),
		mcp.WithString("history", mcp.Required(), mcp.Description("JSON array of visited node IDs")),
		mcp.WithOutputSchema[WalkResponse](),
	)
	s.mcpServer.AddTool(chooseTool, mcp.NewStructuredToolHandler(s.handleChoose))

	s.mcpServer.AddTool(mcp.NewTool("validate",
		mcp.WithDescription("Report structural issues of the published decision tree."),
	), s.handleValidate)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the decision tree as a Mermaid flowchart."),
		mcp.WithString("category_id", mcp.Description("Limit the graph to one category (optional)")),
	), s.handleGetGraph)
}

func (s *Server) handleListCategories(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jsonBytes, _ := json.Marshal(s.guide.Categories())
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) handleValidate(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	issues := s.guide.Issues()
	if len(issues) == 0 {
		return mcp.NewToolResultText("No issues."), nil
	}
	sum := validator.Summarize(issues)
	return mcp.NewToolResultText(fmt.Sprintf("%d error(s), %d warning(s)\n%s", sum.Errors, sum.Warnings, validator.Format(issues))), nil
}

func (s *Server) handleGetGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	categoryID := request.GetString("category_id", "")
	return mcp.NewToolResultText(graph.Mermaid(s.guide.Committed(), categoryID, nil)), nil
}

// walkFromArgs rebuilds a walk from tool arguments.
func walkFromArgs(args map[string]interface{}) (domain.Walk, error) {
	var w domain.Walk
	w.CategoryID, _ = args["category_id"].(string)
	if histStr, ok := args["history"].(string); ok && histStr != "" {
		if err := json.Unmarshal([]byte(histStr), &w.History); err != nil {
			return w, fmt.Errorf("history must be a JSON array of node IDs: %w", err)
		}
	}
	return w, nil
}

func (s *Server) respond(ctx context.Context, w domain.Walk) WalkResponse {
	view := s.guide.Render(ctx, w)
	return WalkResponse{Walk: w, View: view, Terminal: view.IsTerminal()}
}

func (s *Server) handleRenderWalk(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	w, err := walkFromArgs(args)
	if err != nil {
		return WalkResponse{}, err
	}
	if w.IsIdle() && w.CategoryID != "" {
		w, err = s.guide.Select(ctx, w.CategoryID)
		if err != nil {
			return WalkResponse{}, err
		}
	}
	return s.respond(ctx, w), nil
}

func (s *Server) handleChoose(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (WalkResponse, error) {
	w, err := walkFromArgs(args)
	if err != nil {
		return WalkResponse{}, err
	}
	action, _ := args["action"].(string)
	next, err := s.guide.Choose(ctx, w, domain.Action(action))
	if err != nil {
		if errors.Is(err, domain.ErrIllegalAction) {
			view := s.guide.Render(ctx, w)
			return WalkResponse{}, fmt.Errorf("%w: legal actions are %v", err, view.Actions)
		}
		return WalkResponse{}, err
	}
	s.logger.Debug("MCP Choose", "action", action, "node", next.Tip())
	return s.respond(ctx, next), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(StateURI, "Published Guide State",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.guide.Committed())
		if err != nil {
			return nil, fmt.Errorf("failed to encode state: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      StateURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})

	s.mcpServer.AddResource(mcp.NewResource(GraphURI, "Decision Tree Graph",
		mcp.WithMIMEType("text/plain"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      GraphURI,
				MIMEType: "text/plain",
				Text:     graph.Mermaid(s.guide.Committed(), "", nil),
			},
		}, nil
	})
}
