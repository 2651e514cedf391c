package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"syscall"

	"github.com/amishk599/jobwatch/internal/model"
)

// JSONFileStore keeps the seen set as a JSON array of identifiers in a single file.
type JSONFileStore struct {
	path string
}

var _ model.SeenStore = (*JSONFileStore)(nil)

// NewJSONFileStore returns a store backed by the file at path. The file does
// not need to exist yet.
func NewJSONFileStore(path string) *JSONFileStore {
	return &JSONFileStore{path: path}
}

// Path returns the backing file path.
func (s *JSONFileStore) Path() string { return s.path }

// Load reads the seen set. A missing file yields an empty set. Content that is
// not a JSON array of strings yields an empty set and an error wrapping
// model.ErrStoreCorrupt.
func (s *JSONFileStore) Load() (model.SeenSet, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.NewSeenSet(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading seen store %s: %w", s.path, err)
	}

	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return model.NewSeenSet(), fmt.Errorf("%w: %s: %v", model.ErrStoreCorrupt, s.path, err)
	}
	return model.NewSeenSet(ids...), nil
}

// Save overwrites the file with seen, sorted. The content is written to a
// temporary file in the same directory and renamed into place, so a crash
// leaves either the old or the new file behind.
func (s *JSONFileStore) Save(seen model.SeenSet) error {
	data, err := json.MarshalIndent(seen.Sorted(), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding seen store: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating seen store dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op once renamed

	if _, err := tmp.Write(append(data, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("writing seen store: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing seen store: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing seen store: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		return fmt.Errorf("replacing seen store: %w", err)
	}
	return syncDir(dir)
}

// syncDir makes the rename durable. Platforms that cannot fsync a directory
// are tolerated.
func syncDir(dir string) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	d, err := os.Open(dir)
	if err != nil {
		return nil
	}
	defer d.Close()
	if err := d.Sync(); err != nil && !errors.Is(err, syscall.ENOTSUP) && !errors.Is(err, syscall.EINVAL) {
		return fmt.Errorf("syncing seen store dir: %w", err)
	}
	return nil
}
