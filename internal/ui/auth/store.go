// Package auth manages the admin bearer token.
//
// The token is persisted in a small JSON file under the fixed key ADMIN_API_TOKEN and held in memory by
// Credentials, which is passed explicitly to the API client. Changes are propagated to subscribers
// instead of requiring a restart.
package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	leadadmin "github.com/leadroute/leadadmin"
)

// Store persists the admin token on disk
type Store struct {
	path string
}

func NewStore(path string) *Store {
	return &Store{path: path}
}

// DefaultStorePath returns <user config dir>/leadadmin/credentials.json
func DefaultStorePath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("could not determine user config directory: %w", err)
	}
	return filepath.Join(dir, leadadmin.ConfigDirName, leadadmin.CredentialsFileName), nil
}

func (s *Store) Path() string {
	return s.path
}

// Load returns the stored token. A missing file is not an error and returns "".
func (s *Store) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading credentials file: %w", err)
	}
	if len(data) == 0 {
		return "", nil
	}

	var values map[string]string
	if err := json.Unmarshal(data, &values); err != nil {
		return "", fmt.Errorf("credentials file %s is not valid JSON: %w", s.path, err)
	}
	return values[leadadmin.TokenStorageKey], nil
}

// Save writes the token, creating the config directory when needed.
// The file is written to a temporary name and renamed so watchers never see a partial file.
func (s *Store) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("creating credentials directory: %w", err)
	}

	data, err := json.MarshalIndent(map[string]string{leadadmin.TokenStorageKey: token}, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".credentials-*")
	if err != nil {
		return fmt.Errorf("creating credentials file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := tmp.Chmod(0o600); err != nil {
		tmp.Close()
		return fmt.Errorf("setting credentials file mode: %w", err)
	}
	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing credentials file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing credentials file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replacing credentials file: %w", err)
	}
	return nil
}

// Clear removes the stored token. Clearing when nothing is stored is not an error.
func (s *Store) Clear() error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials file: %w", err)
	}
	return nil
}
