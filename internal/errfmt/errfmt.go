// Package errfmt renders typed errors as actionable one-line strings. It is
// the single place error-to-text translation happens; core packages return
// typed errors only.
package errfmt

import (
	"errors"
	"fmt"
	"os"

	"github.com/99designs/keyring"
	ggoogleapi "google.golang.org/api/googleapi"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/sheetops"
)

func Format(err error) string {
	if err == nil {
		return ""
	}

	var missingID *config.MissingSpreadsheetIDError
	if errors.As(err, &missingID) {
		return "SPREADSHEET_ID environment variable is not set."
	}

	var missingCreds *config.MissingCredentialsError
	if errors.As(err, &missingCreds) {
		return "SERVICE_ACCOUNT_FILE environment variable is not set. Point it at a service account key file, or import one with: sheets-mcp auth import <key.json>"
	}

	var credsNotFound *config.CredentialsNotFoundError
	if errors.As(err, &credsNotFound) {
		return fmt.Sprintf("Service account file not found: %s", credsNotFound.Path)
	}

	var noSheet *sheetops.SheetNotFoundError
	if errors.As(err, &noSheet) {
		return fmt.Sprintf("Sheet %q not found in spreadsheet. Use list_sheets to see the available sheets.", noSheet.Title)
	}

	if errors.Is(err, keyring.ErrKeyNotFound) {
		return "Credential not found in keyring. Run: sheets-mcp auth import <key.json>"
	}

	if errors.Is(err, os.ErrNotExist) {
		return err.Error()
	}

	var gerr *ggoogleapi.Error
	if errors.As(err, &gerr) {
		reason := ""
		if len(gerr.Errors) > 0 && gerr.Errors[0].Reason != "" {
			reason = gerr.Errors[0].Reason
		}

		if reason != "" {
			return fmt.Sprintf("Google API error (%d %s): %s", gerr.Code, reason, gerr.Message)
		}

		return fmt.Sprintf("Google API error (%d): %s", gerr.Code, gerr.Message)
	}

	return err.Error()
}
