package googleauth

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"

	"github.com/sheetkit/sheets-mcp/internal/config"
	"github.com/sheetkit/sheets-mcp/internal/secrets"
)

// Scope covers reads, value writes and structural batch updates.
const Scope = sheets.SpreadsheetsScope

// openStore is swapped out in tests.
var openStore = secrets.OpenDefault

// CredentialJSON resolves the service-account key bytes from the configured
// source: a file path, or a named keyring entry ("keyring:<name>").
func CredentialJSON(cfg config.Config) ([]byte, error) {
	if err := cfg.RequireCredentials(); err != nil {
		return nil, err
	}

	src := strings.TrimSpace(cfg.ServiceAccountFile)
	if name, ok := strings.CutPrefix(src, config.KeyringPrefix); ok {
		store, err := openStore(cfg.KeyringBackend)
		if err != nil {
			return nil, err
		}
		cred, err := store.Get(name)
		if err != nil {
			return nil, fmt.Errorf("read credential %q from keyring: %w", name, err)
		}
		return cred.JSON, nil
	}

	data, err := os.ReadFile(src)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &config.CredentialsNotFoundError{Path: src}
		}
		return nil, err
	}
	return data, nil
}

// Client authenticates with the service-account JWT flow and returns an
// authorized HTTP client.
func Client(ctx context.Context, cfg config.Config) (*http.Client, error) {
	data, err := CredentialJSON(cfg)
	if err != nil {
		return nil, err
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, Scope)
	if err != nil {
		return nil, fmt.Errorf("parse service account key: %w", err)
	}
	return jwtConfig.Client(ctx), nil
}
