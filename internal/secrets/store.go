package secrets

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/99designs/keyring"

	"github.com/sheetkit/sheets-mcp/internal/config"
)

// Store holds service-account credentials so the JSON key never has to sit
// in a world-readable file. Entries are addressed by a short name; the
// "keyring:<name>" form of SERVICE_ACCOUNT_FILE resolves through here.
type Store interface {
	Names() ([]string, error)
	Set(name string, cred Credential) error
	Get(name string) (Credential, error)
	Delete(name string) error
}

type Credential struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	// JSON is the raw service-account key document.
	JSON []byte `json:"-"`
}

type KeyringStore struct {
	ring keyring.Keyring
}

// NewKeyringStore wraps an already-open keyring.
func NewKeyringStore(ring keyring.Keyring) *KeyringStore {
	return &KeyringStore{ring: ring}
}

// OpenDefault opens the platform keyring. On Linux/WSL/containers, OS
// keychains (secret-service/kwallet) may be unavailable; keyring then falls
// back to the "file" backend, which requires a directory and a password
// prompt function.
func OpenDefault(backend string) (Store, error) {
	keyringDir, err := config.EnsureKeyringDir()
	if err != nil {
		return nil, err
	}

	kc := keyring.Config{
		ServiceName:      config.AppName,
		FileDir:          keyringDir,
		FilePasswordFunc: keyring.TerminalPrompt,
	}
	if backend != "" {
		kc.AllowedBackends = []keyring.BackendType{keyring.BackendType(backend)}
	}

	ring, err := keyring.Open(kc)
	if err != nil {
		return nil, err
	}
	return &KeyringStore{ring: ring}, nil
}

type storedCredential struct {
	JSON      []byte    `json:"json"`
	CreatedAt time.Time `json:"created_at,omitempty"`
}

func (s *KeyringStore) Set(name string, cred Credential) error {
	name = normalize(name)
	if name == "" {
		return fmt.Errorf("missing credential name")
	}
	if len(cred.JSON) == 0 {
		return fmt.Errorf("missing credential data")
	}
	if cred.CreatedAt.IsZero() {
		cred.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(storedCredential{
		JSON:      cred.JSON,
		CreatedAt: cred.CreatedAt,
	})
	if err != nil {
		return err
	}

	return s.ring.Set(keyring.Item{
		Key:  credentialKey(name),
		Data: payload,
	})
}

func (s *KeyringStore) Get(name string) (Credential, error) {
	name = normalize(name)
	if name == "" {
		return Credential{}, fmt.Errorf("missing credential name")
	}
	it, err := s.ring.Get(credentialKey(name))
	if err != nil {
		return Credential{}, err
	}
	var sc storedCredential
	if err := json.Unmarshal(it.Data, &sc); err != nil {
		return Credential{}, err
	}
	return Credential{
		Name:      name,
		CreatedAt: sc.CreatedAt,
		JSON:      sc.JSON,
	}, nil
}

func (s *KeyringStore) Delete(name string) error {
	name = normalize(name)
	if name == "" {
		return fmt.Errorf("missing credential name")
	}
	return s.ring.Remove(credentialKey(name))
}

func (s *KeyringStore) Names() ([]string, error) {
	keys, err := s.ring.Keys()
	if err != nil {
		return nil, err
	}
	out := make([]string, 0)
	for _, k := range keys {
		name, ok := ParseCredentialKey(k)
		if !ok {
			continue
		}
		out = append(out, name)
	}
	return out, nil
}

func ParseCredentialKey(k string) (name string, ok bool) {
	const prefix = "sa:"
	if !strings.HasPrefix(k, prefix) {
		return "", false
	}
	rest := strings.TrimPrefix(k, prefix)
	if strings.TrimSpace(rest) == "" {
		return "", false
	}
	return rest, true
}

func credentialKey(name string) string {
	return fmt.Sprintf("sa:%s", name)
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
