package main

import (
	"context"

	"github.com/spf13/cobra"

	"triz/internal/logging"
	mcpserver "triz/internal/mcp"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server over stdio for agent integration",
	Long: `Starts an MCP server over stdin/stdout. An MCP client (Cursor, Claude
Desktop, or any agent framework) connects via its server config and calls
the triz_* tools directly.

The server monitors for parent process death. When the client disconnects
or restarts, the server self-terminates to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	tk, err := newToolkit(cmd.Context())
	if err != nil {
		return err
	}
	defer tk.Close()

	srv := mcpserver.NewServer(tk.engine, tk.catalog, tk.matrix, tk.synth, tk.searcher)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	mcpserver.WatchStdin(ctx, cancel)

	logging.New("mcp").Info("starting triz MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}
