package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vijay-prabhu/roomfinder-mcp/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server (stdio transport)",
	Long: `Start the MCP (Model Context Protocol) server using stdio transport.

This lets AI assistants moderate reviews and search listings.

Add to your MCP client config:

{
  "mcpServers": {
    "roomfinder": {
      "command": "/path/to/roomfinder",
      "args": ["mcp"]
    }
  }
}`,
	RunE: runMCP,
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	a, err := loadApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	// Check if MCP is enabled
	if !a.cfg.MCP.Enabled {
		return fmt.Errorf("MCP server is disabled in config")
	}

	// Handle interrupt
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt)
	go func() {
		<-sigCh
		cancel()
	}()

	server := mcp.New(a.db, a.reviewService(), a.searchService(ctx), a.logger.Named("mcp"))
	a.logger.Info("mcp server started", zap.String("database", a.cfg.Database.Path))

	return server.Start(ctx)
}
