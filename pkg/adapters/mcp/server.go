// Package mcp exposes a definition-driven machine to MCP clients over stdio
// or SSE, letting agents drive dispatches and inspect the graph.
package mcp

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/pkg/def"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DispatchResponse is the structured output of the dispatch tool.
type DispatchResponse struct {
	Result    string   `json:"result" jsonschema_description:"Dispatch outcome: ok, no_transition or guard_rejected"`
	State     string   `json:"state" jsonschema_description:"State after the dispatch"`
	Available []string `json:"available" jsonschema_description:"Events with a transition from the new state"`
}

// StateResponse is the structured output of the get_state tool.
type StateResponse struct {
	State     string   `json:"state" jsonschema_description:"Current state name"`
	Available []string `json:"available" jsonschema_description:"Events with a transition from the current state"`
	Events    []string `json:"events" jsonschema_description:"All event names the machine knows"`
}

// Server wraps a compiled machine and exposes it as an MCP server. Tool
// handlers serialize dispatches with a mutex since the machine is not safe
// for concurrent use.
type Server struct {
	mu        sync.Mutex
	machine   *def.Machine
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP server for the machine.
func NewServer(machine *def.Machine) *Server {
	s := &Server{
		machine:   machine,
		mcpServer: server.NewMCPServer("lattice-mcp", strings.TrimSpace(lattice.Version)),
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
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)

	go func() {
		slog.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		fmt.Println("\nShutdown signal received, shutting down server...")
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

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	// TOOL: dispatch
	dispatchTool := mcp.NewTool("dispatch",
		mcp.WithDescription("Dispatch an event against the state machine and report the outcome."),
		mcp.WithString("event", mcp.Required(), mcp.Description("Event name to dispatch")),
		mcp.WithOutputSchema[DispatchResponse](),
	)
	s.mcpServer.AddTool(dispatchTool, mcp.NewStructuredToolHandler(s.handleDispatch))

	// TOOL: get_state
	stateTool := mcp.NewTool("get_state",
		mcp.WithDescription("Get the current state and the events available from it."),
		mcp.WithOutputSchema[StateResponse](),
	)
	s.mcpServer.AddTool(stateTool, mcp.NewStructuredToolHandler(s.handleGetState))

	// TOOL: get_graph
	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the transition graph in DOT or Mermaid format."),
		mcp.WithString("format", mcp.Description("Graph format: dot (default) or mermaid")),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		format := request.GetString("format", "dot")

		s.mu.Lock()
		defer s.mu.Unlock()

		switch format {
		case "dot":
			return mcp.NewToolResultText(s.machine.DOT()), nil
		case "mermaid":
			return mcp.NewToolResultText(s.machine.Mermaid()), nil
		default:
			return mcp.NewToolResultError(fmt.Sprintf("unknown format %q: expected dot or mermaid", format)), nil
		}
	})
}

func (s *Server) handleDispatch(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (DispatchResponse, error) {
	event, _ := args["event"].(string)

	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.machine.Dispatch(event)
	if err != nil {
		return DispatchResponse{}, fmt.Errorf("dispatch failed: %w", err)
	}

	slog.Debug("MCP Dispatch handled", "event", event, "result", result, "state", s.machine.State())

	return DispatchResponse{
		Result:    result.String(),
		State:     s.machine.State(),
		Available: s.machine.Available(),
	}, nil
}

func (s *Server) handleGetState(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StateResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return StateResponse{
		State:     s.machine.State(),
		Available: s.machine.Available(),
		Events:    s.machine.Events(),
	}, nil
}

func (s *Server) registerResources() {
	// EXPOSE: lattice://graph
	s.mcpServer.AddResource(mcp.NewResource("lattice://graph", "Transition Graph",
		mcp.WithMIMEType("text/vnd.graphviz"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		s.mu.Lock()
		defer s.mu.Unlock()

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "lattice://graph",
				MIMEType: "text/vnd.graphviz",
				Text:     s.machine.DOT(),
			},
		}, nil
	})
}
