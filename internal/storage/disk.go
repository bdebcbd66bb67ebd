package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DiskStore writes images below a local directory that the HTTP server
// exposes under /uploads.
type DiskStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

func (s *DiskStore) Save(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", storageError("save", err)
	}

	key := ObjectKey(s.now().UTC(), filepath.Ext(filename))
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", storageError("mkdir", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", storageError("write", err)
	}
	return s.baseURL + "/uploads/" + key, nil
}

// Dir is the directory served under /uploads.
func (s *DiskStore) Dir() string {
	return s.dir
}
