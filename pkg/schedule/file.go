package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// FileRepository stores the schedule as a single JSON document
type FileRepository struct {
	fs   afero.Fs
	path string
}

// NewFileRepository creates a repository for path on fs. A nil fs means the
// host filesystem.
func NewFileRepository(fs afero.Fs, path string) *FileRepository {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &FileRepository{fs: fs, path: path}
}

// Path returns the backing file path
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the schedule file. A missing file is an empty schedule.
func (r *FileRepository) Load(_ context.Context) (*Schedule, error) {
	data, err := afero.ReadFile(r.fs, r.path)
	if err != nil {
		if os.IsNotExist(err) {
			return New(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrPersistence, r.path, err)
	}

	s := New()
	if err := json.Unmarshal(data, s); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrPersistence, r.path, err)
	}
	return s, nil
}

// Save writes the schedule to a temp file and renames it over the target
func (r *FileRepository) Save(_ context.Context, s *Schedule) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("%w: encode: %v", ErrPersistence, err)
	}

	if dir := filepath.Dir(r.path); dir != "." {
		if err := r.fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: create directory %s: %v", ErrPersistence, dir, err)
		}
	}

	tmp := r.path + ".tmp"
	if err := afero.WriteFile(r.fs, tmp, data, 0o644); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrPersistence, tmp, err)
	}
	if err := r.fs.Rename(tmp, r.path); err != nil {
		_ = r.fs.Remove(tmp)
		return fmt.Errorf("%w: replace %s: %v", ErrPersistence, r.path, err)
	}
	return nil
}
