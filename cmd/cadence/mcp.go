package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/cadence/internal/cli"
	"github.com/aretw0/cadence/internal/control"
	"github.com/aretw0/cadence/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Cadence engine as an MCP Server.
This allows agents to compile animations, drive players and move triggers as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		// logs go to stderr and never corrupt JSON-RPC on stdout
		s, err := loadedSession(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(s.Logger)
		srv := mcp.NewServer(control.New(s.Engine, s.Element))

		switch transport {
		case "stdio":
			s.Logger.Info("Starting Cadence MCP Server (Stdio)")
			return srv.ServeStdio()
		case "sse":
			s.Logger.Info("Starting Cadence MCP Server (SSE)", "port", port)
			sigCtx := cli.NewSignalContext(context.Background())
			defer sigCtx.Cancel()
			if err := srv.ServeSSE(sigCtx, port); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			s.Logger.Info("MCP Server stopped gracefully")
			return nil
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
}
