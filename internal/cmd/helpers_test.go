package cmd

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/sheetkit/sheets-mcp/internal/config"
)

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stdout, fn)
}

func captureStderr(t *testing.T, fn func()) string {
	t.Helper()
	return captureFile(t, &os.Stderr, fn)
}

func captureFile(t *testing.T, target **os.File, fn func()) string {
	t.Helper()

	orig := *target
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	*target = w

	done := make(chan string, 1)
	go func() {
		var buf bytes.Buffer
		_, _ = io.Copy(&buf, r)
		done <- buf.String()
	}()

	defer func() {
		*target = orig
	}()
	fn()
	_ = w.Close()
	return <-done
}

// setTestEnv gives Execute a fully configured environment that never touches
// the user's real config dir or spreadsheet.
func setTestEnv(t *testing.T) {
	t.Helper()

	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(config.EnvSpreadsheetID, "s1")
	t.Setenv(config.EnvServiceAccountFile, "/tmp/sa.json")
	t.Setenv("SHEETS_OUTPUT", "")
	t.Setenv("SHEETS_COLOR", "never")
}

func fakeSheetsService(t *testing.T, handler http.HandlerFunc) *sheets.Service {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	svc, err := sheets.NewService(context.Background(),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
		option.WithEndpoint(srv.URL+"/"),
	)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func swapService(t *testing.T, svc *sheets.Service) {
	t.Helper()

	orig := newSheetsService
	t.Cleanup(func() { newSheetsService = orig })
	newSheetsService = func(context.Context, config.Config) (*sheets.Service, error) {
		return svc, nil
	}
}
