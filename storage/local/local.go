// Package local persists the session blob on disk for the terminal client.
package local

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/session"
)

// Storage keeps the session blob in a single file under dir, named after
// session.StorageKey. The file is private to the user running the client.
type Storage struct {
	dir string
}

var _ session.Storage = (*Storage)(nil) // interface compliance check

// NewStorage returns a Storage writing under dir, creating it if needed.
// An empty dir defaults to "chuo" under the OS user config directory.
func NewStorage(dir string) (*Storage, error) {
	if dir == "" {
		confDir, err := os.UserConfigDir()
		if err != nil {
			return nil, errors.Wrap(err, "resolving user config dir")
		}
		dir = filepath.Join(confDir, "chuo")
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, errors.Wrap(err, "creating session dir")
	}
	return &Storage{dir: dir}, nil
}

func (s *Storage) path() string {
	return filepath.Join(s.dir, session.StorageKey)
}

func (s *Storage) Load(_ context.Context) ([]byte, error) {
	blob, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, session.ErrNoSession
		}
		return nil, errors.Wrap(err, "reading session file")
	}
	return blob, nil
}

func (s *Storage) Save(_ context.Context, blob []byte) error {
	if err := os.WriteFile(s.path(), blob, 0o600); err != nil {
		return errors.Wrap(err, "writing session file")
	}
	return nil
}

func (s *Storage) Delete(_ context.Context) error {
	if err := os.Remove(s.path()); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "deleting session file")
	}
	return nil
}
