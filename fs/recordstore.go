// Package fs provides file-based storage for stored record documents.
package fs

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/cabinet"
)

// DefaultDirs are the data directories searched when none are given.
var DefaultDirs = []string{
	filepath.Join("src", "data", "sources"),
	filepath.Join("src", "data", "exhibitions"),
}

// Ensure RecordStore implements cabinet.RecordFileStore at compile time.
var _ cabinet.RecordFileStore = (*RecordStore)(nil)

// RecordStore implements cabinet.RecordFileStore over JSON files found
// recursively under a set of directories.
type RecordStore struct {
	dirs []string

	mu      sync.Mutex
	digests map[string]digest
}

// digest identifies the content of a file as last read or written by the
// store. It is trusted only while the file's size and mtime still match.
type digest struct {
	sum     uint64
	size    int64
	modTime time.Time
}

// NewRecordStore creates a RecordStore over dirs.
// Directories that do not exist are skipped when listing.
func NewRecordStore(dirs ...string) *RecordStore {
	return &RecordStore{dirs: dirs, digests: make(map[string]digest)}
}

// List returns the paths of all *.json files under the store's
// directories, sorted.
func (s *RecordStore) List(ctx context.Context) ([]string, error) {
	var paths []string
	for _, dir := range s.dirs {
		if _, err := os.Stat(dir); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if err := ctx.Err(); err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".json") {
				paths = append(paths, path)
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// Read returns the content of the document at path.
func (s *RecordStore) Read(_ context.Context, path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, cabinet.Errorf(cabinet.ENOTFOUND, "stored record not found: %s", path)
	} else if err != nil {
		return nil, err
	}
	if info, err := os.Stat(path); err == nil {
		s.remember(path, data, info)
	}
	return data, nil
}

// Write replaces the document at path unless its content is unchanged.
// A file read or written earlier is compared by hash without reading it
// again; any other file is read and compared byte for byte. The new
// content is written to a temporary file in the same directory and
// renamed over the original.
func (s *RecordStore) Write(_ context.Context, path string, data []byte) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case err == nil:
		if unchanged, err := s.unchanged(path, data, info); err != nil {
			return false, err
		} else if unchanged {
			return false, nil
		}
	case !errors.Is(err, fs.ErrNotExist):
		return false, err
	}

	mode := fs.FileMode(0644)
	if info != nil {
		mode = info.Mode().Perm()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return false, err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return false, err
	}
	if err := tmp.Close(); err != nil {
		return false, err
	}
	if err := os.Chmod(tmp.Name(), mode); err != nil {
		return false, err
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return false, err
	}
	if info, err := os.Stat(path); err == nil {
		s.remember(path, data, info)
	}
	return true, nil
}

// unchanged reports whether the file at path already holds data.
func (s *RecordStore) unchanged(path string, data []byte, info fs.FileInfo) (bool, error) {
	s.mu.Lock()
	d, ok := s.digests[path]
	s.mu.Unlock()
	if ok && d.size == info.Size() && d.modTime.Equal(info.ModTime()) {
		return d.size == int64(len(data)) && d.sum == xxhash.Sum64(data), nil
	}

	current, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}
	return bytes.Equal(current, data), nil
}

func (s *RecordStore) remember(path string, data []byte, info fs.FileInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.digests == nil {
		s.digests = make(map[string]digest)
	}
	s.digests[path] = digest{
		sum:     xxhash.Sum64(data),
		size:    info.Size(),
		modTime: info.ModTime(),
	}
}
