package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/mcpserver"
)

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve the spreadsheet tools over MCP stdio",
		Long:  "Serve the spreadsheet tools to an MCP client over stdin/stdout.\nConfiguration problems are reported per tool call, so the server starts even when SPREADSHEET_ID is not set yet.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			slog.Debug("serving MCP over stdio", "spreadsheet_id", cfg.SpreadsheetID)
			return mcpserver.New(*cfg, Version).Run(cmd.Context())
		},
	}
}
