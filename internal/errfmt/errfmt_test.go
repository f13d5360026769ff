package errfmt

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/99designs/keyring"
	ggoogleapi "google.golang.org/api/googleapi"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/sheetops"
)

var errNope = errors.New("nope")

func TestFormat_Nil(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_Passthrough(t *testing.T) {
	if got := Format(errNope); got != "nope" {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_MissingSpreadsheetID(t *testing.T) {
	got := Format(&config.MissingSpreadsheetIDError{})
	if !strings.Contains(got, "SPREADSHEET_ID") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_MissingCredentials(t *testing.T) {
	got := Format(&config.MissingCredentialsError{})
	if !strings.Contains(got, "SERVICE_ACCOUNT_FILE") || !strings.Contains(got, "auth import") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_CredentialsNotFound(t *testing.T) {
	got := Format(&config.CredentialsNotFoundError{Path: "/tmp/sa.json"})
	if !strings.Contains(got, "/tmp/sa.json") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_SheetNotFound(t *testing.T) {
	got := Format(fmt.Errorf("read: %w", &sheetops.SheetNotFoundError{Title: "Sales"}))
	if !strings.Contains(got, `"Sales"`) || !strings.Contains(got, "list_sheets") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_KeyringKeyNotFound(t *testing.T) {
	got := Format(fmt.Errorf("wrap: %w", keyring.ErrKeyNotFound))
	if !strings.Contains(got, "auth import") {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_GoogleAPIError(t *testing.T) {
	err := &ggoogleapi.Error{
		Code:    403,
		Message: "The caller does not have permission",
		Errors:  []ggoogleapi.ErrorItem{{Reason: "forbidden"}},
	}

	got := Format(fmt.Errorf("get values: %w", err))
	want := "Google API error (403 forbidden): The caller does not have permission"
	if got != want {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestFormat_GoogleAPIError_NoReason(t *testing.T) {
	err := &ggoogleapi.Error{Code: 404, Message: "Requested entity was not found"}

	got := Format(err)
	want := "Google API error (404): Requested entity was not found"
	if got != want {
		t.Fatalf("unexpected: %q", got)
	}
}
