package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"datatrust/internal/datasource"
)

// Target is a filesystem sink for one trusted file. Output is staged in a
// temporary file in the same directory and renamed over the target on Close,
// so readers never see a partially written file and a failed run leaves the
// previous output untouched.
type Target struct{ path string }

// NewTarget returns a Target writing to path.
func NewTarget(path string) *Target { return &Target{path: path} }

// Create makes the parent directory if needed and opens a staging file.
func (t *Target) Create(ctx context.Context) (datasource.Writer, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	dir := filepath.Dir(t.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create dir %s: %w", dir, err)
	}
	f, err := os.CreateTemp(dir, "."+filepath.Base(t.path)+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", t.path, err)
	}
	return &stagedFile{File: f, path: t.path}, nil
}

type stagedFile struct {
	*os.File
	path string
	done bool
}

// Close flushes the staging file and renames it over the target.
func (s *stagedFile) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	tmp := s.File.Name()
	if err := s.File.Sync(); err != nil {
		_ = s.File.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("sync %s: %w", s.path, err)
	}
	if err := s.File.Close(); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("close %s: %w", s.path, err)
	}
	if err := os.Chmod(tmp, 0o644); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod %s: %w", s.path, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", s.path, err)
	}
	return nil
}

// Abort removes the staging file.
func (s *stagedFile) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	_ = s.File.Close()
	return os.Remove(s.File.Name())
}
