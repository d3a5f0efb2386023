package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/itnav"
	"github.com/aretw0/itnav/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Exposes the guide as an MCP Server so AI agents can walk the trees and
inspect validation results as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")

		a, err := bootstrap(context.Background(), cmd)
		if err != nil {
			return fmt.Errorf("failed to init guide: %w", err)
		}
		defer a.Close()

		srv := mcp.NewServer(a.guide, itnav.Version, a.logger)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			a.logger.Info("Starting IT Nav MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				a.logger.Error("MCP Server execution failed", "error", err)
				return err
			}
		case "sse":
			a.logger.Info("Starting IT Nav MCP Server (SSE)", "port", port)

			// Create a context that cancels on interrupt signal
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port, a.cfg.Server.MCPBaseURL); err != nil {
				// Ignore server closed error if it was caused by context cancellation
				if !errors.Is(err, http.ErrServerClosed) {
					a.logger.Error("MCP Server execution failed", "error", err)
					return err
				}
			}
			a.logger.Info("MCP Server stopped gracefully")
		default:
			return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", transport)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().Int("port", 8081, "Port to listen on (only for SSE)")
}
