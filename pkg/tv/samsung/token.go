package samsung

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cgddrd/samsung-frame-art/util/log"
	"github.com/zalando/go-keyring"
)

// TokenStore persists the pairing token the TV hands out on the first accepted connection.
type TokenStore interface {
	Load(host string) (string, error)
	Save(host, token string) error
}

// FileTokenStore keeps a single token in a plain file.
type FileTokenStore struct {
	Path string
}

// Load returns the stored token, or "" when the file does not exist yet.
func (f FileTokenStore) Load(string) (string, error) {
	if f.Path == "" {
		return "", nil
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading token file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

// Save writes the token, readable by the owner only.
func (f FileTokenStore) Save(_ string, token string) error {
	if f.Path == "" {
		return nil
	}
	if dir := filepath.Dir(f.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating token directory: %w", err)
		}
	}
	if err := os.WriteFile(f.Path, []byte(token), 0600); err != nil {
		return fmt.Errorf("writing token file: %w", err)
	}
	return nil
}

// KeyringTokenStore stores tokens in the OS keyring, one entry per TV host.
// Hosts without a keyring service (cron on a headless box) fall back to the file store.
type KeyringTokenStore struct {
	Service  string
	Fallback TokenStore
}

// NewKeyringTokenStore creates a keyring backed store that falls back to tokenFile.
func NewKeyringTokenStore(tokenFile string) *KeyringTokenStore {
	return &KeyringTokenStore{
		Service:  TokenService,
		Fallback: FileTokenStore{Path: tokenFile},
	}
}

// Load reads the token for host.
func (k *KeyringTokenStore) Load(host string) (string, error) {
	token, err := keyring.Get(k.Service, host)
	if err == nil {
		return token, nil
	}
	if !errors.Is(err, keyring.ErrNotFound) {
		log.Debugf("keyring unavailable, using token file: %v", err)
	}
	if k.Fallback == nil {
		return "", nil
	}
	return k.Fallback.Load(host)
}

// Save stores the token for host.
func (k *KeyringTokenStore) Save(host, token string) error {
	err := keyring.Set(k.Service, host, token)
	if err == nil {
		return nil
	}
	log.Debugf("failed to save TV token to keyring: %v", err)
	if k.Fallback == nil {
		return err
	}
	return k.Fallback.Save(host, token)
}
