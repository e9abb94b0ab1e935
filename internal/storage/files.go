package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore accepts a byte stream plus a suggested filename and answers with
// the stored path. Only the path string is persisted on the product.
type FileStore interface {
	Save(reader io.Reader, suggestedName string) (string, error)
}

type localFileStore struct {
	dir string
}

func NewLocalFileStore(dir string) (FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localFileStore{dir: dir}, nil
}

// Save keeps the suggested extension but replaces the name with a fresh uuid
// so uploads can never collide or traverse out of the upload dir.
func (s *localFileStore) Save(reader io.Reader, suggestedName string) (string, error) {
	ext := filepath.Ext(filepath.Base(suggestedName))
	name := uuid.NewString() + ext
	path := filepath.Join(s.dir, name)

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, reader); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("write upload file: %w", err)
	}

	return path, nil
}
