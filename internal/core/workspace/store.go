// Package workspace reads and writes the local script directories.
package workspace

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/viant/afs"
	"github.com/viant/afs/file"
	"github.com/viant/afs/url"
)

// Store is a local file store. Paths are plain OS paths (relative or
// absolute); they are resolved against the working directory.
type Store struct {
	fs afs.Service
}

// New creates a Store backed by the local filesystem.
func New() *Store {
	return &Store{fs: afs.New()}
}

func location(path string) string {
	return url.Normalize(path, file.Scheme)
}

// EnsureDir creates dir and any missing parents.
func (s *Store) EnsureDir(ctx context.Context, dir string) error {
	loc := location(dir)
	exists, err := s.fs.Exists(ctx, loc)
	if err != nil {
		return fmt.Errorf("checking %s: %w", dir, err)
	}
	if exists {
		return nil
	}
	if err := s.fs.Create(ctx, loc, file.DefaultDirOsMode, true); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	return nil
}

// Access returns an error wrapping fs.ErrNotExist when path does not exist.
func (s *Store) Access(ctx context.Context, path string) error {
	exists, err := s.fs.Exists(ctx, location(path))
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("no such file or directory: %w", fs.ErrNotExist)
	}
	return nil
}

// ListFiles returns the names of the regular files directly inside dir whose
// name ends with suffix, sorted by name.
func (s *Store) ListFiles(ctx context.Context, dir, suffix string) ([]string, error) {
	objects, err := s.fs.List(ctx, location(dir))
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}

	var names []string
	for _, obj := range objects {
		if obj.IsDir() {
			continue
		}
		if !strings.HasSuffix(obj.Name(), suffix) {
			continue
		}
		names = append(names, obj.Name())
	}
	sort.Strings(names)
	return names, nil
}

// ReadFile returns the contents of path.
func (s *Store) ReadFile(ctx context.Context, path string) ([]byte, error) {
	loc := location(path)
	exists, err := s.fs.Exists(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if !exists {
		return nil, &fs.PathError{Op: "open", Path: path, Err: fs.ErrNotExist}
	}
	data, err := s.fs.DownloadWithURL(ctx, loc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// WriteFile writes data to path, creating the parent directory if needed.
func (s *Store) WriteFile(ctx context.Context, path string, data []byte) error {
	if err := s.EnsureDir(ctx, filepath.Dir(path)); err != nil {
		return err
	}
	if err := s.fs.Upload(ctx, location(path), file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// IsNotExist reports whether err says a file or directory is missing.
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
