// ABOUTME: On-disk credential store for the console session
// ABOUTME: Holds the access/refresh tokens and cached profile in credentials.json

package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/TennysonKnoxLove/Venue-Tracker/internal/client"
)

// CredentialsFile is the file name inside the config directory
const CredentialsFile = "credentials.json"

// Credential is what survives between console runs
type Credential struct {
	Access  string       `json:"access"`
	Refresh string       `json:"refresh,omitempty"`
	User    *client.User `json:"user,omitempty"`
	SavedAt time.Time    `json:"saved_at,omitzero"`
}

// Empty reports whether no access token is stored
func (c Credential) Empty() bool { return c.Access == "" }

// Store reads and writes credentials.json in a config directory
type Store struct {
	dir string
	mu  sync.Mutex
}

// New creates a Store rooted at dir. The directory is created on first Save.
func New(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the config directory
func (s *Store) Dir() string { return s.dir }

// Path returns the credentials file location
func (s *Store) Path() string {
	return filepath.Join(s.dir, CredentialsFile)
}

// Load returns the stored credential. A missing or unreadable-as-JSON file
// yields an empty credential and no error.
func (s *Store) Load() (Credential, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return Credential{}, nil
	}
	if err != nil {
		return Credential{}, fmt.Errorf("reading credentials: %w", err)
	}

	var cred Credential
	if err := json.Unmarshal(data, &cred); err != nil {
		slog.Warn("Ignoring corrupt credentials file", "path", s.Path(), "error", err)
		return Credential{}, nil
	}
	return cred, nil
}

// Save atomically replaces the credentials file with mode 0600.
func (s *Store) Save(cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if cred.SavedAt.IsZero() {
		cred.SavedAt = time.Now().UTC()
	}

	data, err := json.MarshalIndent(cred, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding credentials: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, ".credentials-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if err := tmp.Chmod(0600); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.Path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp to credentials: %w", err)
	}
	return nil
}

// Clear removes the credentials file. A missing file is not an error.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing credentials: %w", err)
	}
	return nil
}
