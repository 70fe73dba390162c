// Package store persists the one durable artifact the application owns: the
// cached OAuth credential. The token is serialized to JSON, sealed with
// nacl/secretbox, and written to a single file. Deleting the file is a
// logout.
package store

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"golang.org/x/crypto/nacl/secretbox"
	"golang.org/x/oauth2"
)

// ErrNotFound indicates no credential has been cached yet.
var ErrNotFound = errors.New("credential not found")

// CredentialStore seals OAuth tokens to a file on disk.
type CredentialStore struct {
	path string
	key  [32]byte
}

// NewCredentialStore derives the sealing key from the configured secret.
func NewCredentialStore(path, secret string) *CredentialStore {
	return &CredentialStore{path: path, key: sha256.Sum256([]byte(secret))}
}

// Save seals the token and writes it atomically with 0600 permissions.
func (s *CredentialStore) Save(token *oauth2.Token) error {
	if token == nil {
		return errors.New("token is nil")
	}

	plain, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to encode token: %w", err)
	}

	var nonce [24]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return fmt.Errorf("failed to generate nonce: %w", err)
	}
	sealed := secretbox.Seal(nonce[:], plain, &nonce, &s.key)

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".calassist-token-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(sealed); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}
	return os.Rename(tmpName, s.path)
}

// Load opens the sealed blob and returns the cached token. Returns
// ErrNotFound when no credential file exists.
func (s *CredentialStore) Load() (*oauth2.Token, error) {
	sealed, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(sealed) < 24 {
		return nil, errors.New("credential file is truncated")
	}

	var nonce [24]byte
	copy(nonce[:], sealed[:24])
	plain, ok := secretbox.Open(nil, sealed[24:], &nonce, &s.key)
	if !ok {
		return nil, errors.New("failed to open credential file: wrong key or corrupt data")
	}

	token := &oauth2.Token{}
	if err := json.Unmarshal(plain, token); err != nil {
		return nil, fmt.Errorf("failed to decode token: %w", err)
	}
	return token, nil
}

// Delete removes the credential file. Missing files are not an error.
func (s *CredentialStore) Delete() error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Exists reports whether a credential is cached.
func (s *CredentialStore) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// HealthCheck verifies the credential directory is reachable.
func (s *CredentialStore) HealthCheck() error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}
	return nil
}
