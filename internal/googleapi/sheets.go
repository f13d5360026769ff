package googleapi

import (
	"context"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/googleauth"
)

// NewSheets authenticates with the configured service account and returns a
// Sheets API handle.
func NewSheets(ctx context.Context, cfg config.Config) (*sheets.Service, error) {
	client, err := googleauth.Client(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return sheets.NewService(ctx, option.WithHTTPClient(client))
}
