package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const AppName = "sheets-mcp"

// Environment variables. Names match the original deployment convention so
// existing .env files keep working.
const (
	EnvServiceAccountFile = "SERVICE_ACCOUNT_FILE"
	EnvSpreadsheetID      = "SPREADSHEET_ID"
)

// KeyringPrefix marks a SERVICE_ACCOUNT_FILE value that names a credential
// stored in the OS keyring instead of a file path ("keyring:<name>").
const KeyringPrefix = "keyring:"

// Config is constructed once at process start and passed down to every
// operation; nothing else reads the environment.
type Config struct {
	ServiceAccountFile string `json:"service_account_file"`
	SpreadsheetID      string `json:"spreadsheet_id"`
	KeyringBackend     string `json:"keyring_backend"`
}

type MissingSpreadsheetIDError struct{}

func (*MissingSpreadsheetIDError) Error() string {
	return "SPREADSHEET_ID environment variable is not set"
}

type MissingCredentialsError struct{}

func (*MissingCredentialsError) Error() string {
	return "SERVICE_ACCOUNT_FILE environment variable is not set"
}

type CredentialsNotFoundError struct {
	Path string
}

func (e *CredentialsNotFoundError) Error() string {
	return fmt.Sprintf("service account file not found: %s", e.Path)
}

// Load builds the effective configuration: config-file defaults, then a .env
// file if present, then the process environment. Later sources win.
func Load() (Config, error) {
	cfg, err := ReadConfig()
	if err != nil {
		return Config{}, err
	}

	// .env is optional; the process environment still takes precedence
	// because godotenv never overwrites existing variables.
	_ = godotenv.Load()

	if v := os.Getenv(EnvServiceAccountFile); v != "" {
		cfg.ServiceAccountFile = v
	}
	if v := os.Getenv(EnvSpreadsheetID); v != "" {
		cfg.SpreadsheetID = v
	}
	return cfg, nil
}

// RequireSpreadsheetID gates every tool: no remote call may be attempted
// without a configured spreadsheet.
func (c Config) RequireSpreadsheetID() error {
	if strings.TrimSpace(c.SpreadsheetID) == "" {
		return &MissingSpreadsheetIDError{}
	}
	return nil
}

func (c Config) RequireCredentials() error {
	if strings.TrimSpace(c.ServiceAccountFile) == "" {
		return &MissingCredentialsError{}
	}
	return nil
}

// ConfigPath returns the location of the optional config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, AppName, "config.json"), nil
}

// ReadConfig loads the optional config file. A missing file yields a zero
// Config without error.
func ReadConfig() (Config, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, nil
		}
		return Config{}, err
	}

	var cfg Config
	if err := json.Unmarshal(stripJSONComments(data), &cfg); err != nil {
		return Config{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// EnsureKeyringDir creates (if needed) the directory backing the keyring
// "file" fallback used where no OS keychain is available.
func EnsureKeyringDir() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	keyringDir := filepath.Join(dir, AppName, "keyring")
	if err := os.MkdirAll(keyringDir, 0o700); err != nil {
		return "", err
	}
	return keyringDir, nil
}

func configDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg, nil
	}
	return os.UserConfigDir()
}

// stripJSONComments removes //-comments and trailing commas so the config
// file tolerates hand edits.
func stripJSONComments(data []byte) []byte {
	out := make([]byte, 0, len(data))
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		ch := data[i]
		if inString {
			out = append(out, ch)
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch {
		case ch == '"':
			inString = true
			out = append(out, ch)
		case ch == '/' && i+1 < len(data) && data[i+1] == '/':
			for i < len(data) && data[i] != '\n' {
				i++
			}
			if i < len(data) {
				out = append(out, '\n')
			}
		case ch == ',':
			j := i + 1
			for j < len(data) && (data[j] == ' ' || data[j] == '\t' || data[j] == '\n' || data[j] == '\r') {
				j++
			}
			if j < len(data) && (data[j] == '}' || data[j] == ']') {
				continue // trailing comma
			}
			out = append(out, ch)
		default:
			out = append(out, ch)
		}
	}
	return out
}
