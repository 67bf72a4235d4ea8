package imagestore

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dmitrijs2005/visionaq/internal/filex"
)

// LocalStore copies images into a directory under the data dir.
type LocalStore struct {
	dir string
	now func() time.Time
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir, now: time.Now}
}

// Put writes data below dir and returns the absolute file path.
func (s *LocalStore) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, filepath.FromSlash(objectKey(s.now(), name)))
	dir, err := filex.EnsureDir(filepath.Dir(path))
	if err != nil {
		return "", fmt.Errorf("archive image: %w", err)
	}
	path = filepath.Join(dir, filepath.Base(path))

	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		return "", fmt.Errorf("archive image: %w", err)
	}
	return path, nil
}

var _ Store = (*LocalStore)(nil)
