package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/cadence"
	"github.com/aretw0/cadence/internal/control"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// DefinitionsURI is the resource listing registered definitions.
const DefinitionsURI = "cadence://definitions"

// DefinitionList aligns with the HTTP listing and gives the tool an object
// output schema.
type DefinitionList struct {
	Definitions []control.DefinitionInfo `json:"definitions" jsonschema_description:"Registered animations and triggers"`
}

// CommandResult reports the outcome of a player command.
type CommandResult struct {
	ID      string `json:"id"`
	Command string `json:"command"`
	Flushed int    `json:"flushed" jsonschema_description:"Player callbacks run after the command"`
}

type animationArgs struct {
	ID       string         `json:"id"`
	Selector string         `json:"selector"`
	Params   map[string]any `json:"params"`
}

type commandArgs struct {
	ID       string  `json:"id"`
	Command  string  `json:"command"`
	Position float64 `json:"position"`
}

type stateArgs struct {
	Trigger  string         `json:"trigger"`
	Selector string         `json:"selector"`
	State    string         `json:"state"`
	Params   map[string]any `json:"params"`
}

// Server exposes a Controller as MCP tools.
type Server struct {
	controller *control.Controller
	mcpServer  *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(c *control.Controller) *Server {
	s := &Server{
		controller: c,
		mcpServer:  server.NewMCPServer("cadence-mcp", cadence.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer { return s.mcpServer }

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE and stops it when
// ctx is done.
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
	s.mcpServer.AddTool(mcp.NewTool("list_definitions",
		mcp.WithDescription("List the registered animations and triggers with their declared params."),
		mcp.WithOutputSchema[DefinitionList](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, _ map[string]any) (DefinitionList, error) {
		return DefinitionList{Definitions: s.controller.Definitions()}, nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("compile_animation",
		mcp.WithDescription("Compile an animation for an element and return its timeline instructions without playing it."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Animation id")),
		mcp.WithString("selector", mcp.Description("CSS selector of the element (defaults to the body)")),
		mcp.WithObject("params", mcp.Description("Animation params")),
		mcp.WithOutputSchema[control.Timeline](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args animationArgs) (control.Timeline, error) {
		return s.controller.Compile(ctx, args.ID, args.Selector, args.Params)
	}))

	s.mcpServer.AddTool(mcp.NewTool("create_player",
		mcp.WithDescription("Create the player of an animation on an element. The player starts paused."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Animation id")),
		mcp.WithString("selector", mcp.Description("CSS selector of the element (defaults to the body)")),
		mcp.WithObject("params", mcp.Description("Animation params")),
		mcp.WithOutputSchema[control.PlayerInfo](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args animationArgs) (control.PlayerInfo, error) {
		return s.controller.Create(ctx, args.ID, args.Selector, args.Params)
	}))

	s.mcpServer.AddTool(mcp.NewTool("command_player",
		mcp.WithDescription("Send a timeline command to the player of an animation."),
		mcp.WithString("id", mcp.Required(), mcp.Description("Animation id")),
		mcp.WithString("command", mcp.Required(),
			mcp.Enum("play", "pause", "reset", "restart", "finish", "init", "setPosition", "destroy"),
			mcp.Description("Command name")),
		mcp.WithNumber("position", mcp.Description("Position in [0, 1] for setPosition")),
		mcp.WithOutputSchema[CommandResult](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args commandArgs) (CommandResult, error) {
		if err := s.controller.Command(ctx, args.ID, args.Command, args.Position); err != nil {
			return CommandResult{}, err
		}
		return CommandResult{ID: args.ID, Command: args.Command, Flushed: s.controller.Flush()}, nil
	}))

	s.mcpServer.AddTool(mcp.NewTool("set_state",
		mcp.WithDescription("Move a trigger to a new state on an element and play the matching transition."),
		mcp.WithString("trigger", mcp.Required(), mcp.Description("Trigger name")),
		mcp.WithString("state", mcp.Required(), mcp.Description("Target state")),
		mcp.WithString("selector", mcp.Description("CSS selector of the element (defaults to the body)")),
		mcp.WithObject("params", mcp.Description("Transition params")),
		mcp.WithOutputSchema[control.StateInfo](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args stateArgs) (control.StateInfo, error) {
		return s.controller.SetState(ctx, args.Trigger, args.Selector, args.State, args.Params)
	}))

	s.mcpServer.AddTool(mcp.NewTool("get_state",
		mcp.WithDescription("Read the current state and styles of a trigger on an element."),
		mcp.WithString("trigger", mcp.Required(), mcp.Description("Trigger name")),
		mcp.WithString("selector", mcp.Description("CSS selector of the element (defaults to the body)")),
		mcp.WithOutputSchema[control.StateInfo](),
	), mcp.NewStructuredToolHandler(func(ctx context.Context, _ mcp.CallToolRequest, args stateArgs) (control.StateInfo, error) {
		return s.controller.State(args.Trigger, args.Selector)
	}))
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(DefinitionsURI, "Registered definitions",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.controller.Definitions())
		if err != nil {
			return nil, err
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      DefinitionsURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
