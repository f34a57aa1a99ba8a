package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/dmitrijs2005/taskkeeper/internal/client/models"
	"github.com/dmitrijs2005/taskkeeper/internal/filex"
)

const sessionFileName = "session.json"

type SessionStore interface {
	Load() (*models.Session, error)
	Save(s *models.Session) error
	Clear() error
}

// FileSessionStore keeps the session as JSON inside a private directory.
type FileSessionStore struct {
	path string
}

func NewFileSessionStore(dir string) (*FileSessionStore, error) {
	full, err := filex.EnsureSubdDir(dir)
	if err != nil {
		return nil, err
	}
	return &FileSessionStore{path: filepath.Join(full, sessionFileName)}, nil
}

func (f *FileSessionStore) Load() (*models.Session, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotLoggedIn
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var s models.Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	if s.AccessToken == "" {
		return nil, ErrNotLoggedIn
	}
	return &s, nil
}

func (f *FileSessionStore) Save(s *models.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return filex.WriteFileAtomic(f.path, data, 0o600)
}

func (f *FileSessionStore) Clear() error {
	if err := os.Remove(f.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
