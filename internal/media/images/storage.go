// Package images stores order photos and computes their BlurHash placeholders.
package images

import (
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/secretmenu/secretmenu-server/internal/id"
)

// DefaultSubdir is the directory under the data path that holds photos.
const DefaultSubdir = "photos"

// ErrInvalidFilename is returned for names that are not generated photo names.
var ErrInvalidFilename = errors.New("invalid photo filename")

// ErrPhotoNotFound is returned when no file exists for a name.
var ErrPhotoNotFound = errors.New("photo not found")

// Storage manages photo files in a single directory.
// Thread-safe for concurrent operations.
type Storage struct {
	basePath string
	mu       sync.RWMutex
}

// NewStorage creates photo storage in {basePath}/photos.
func NewStorage(basePath string) (*Storage, error) {
	return NewStorageWithSubdir(basePath, DefaultSubdir)
}

// NewStorageWithSubdir creates storage in {basePath}/{subdir}, creating the
// directory if needed.
func NewStorageWithSubdir(basePath, subdir string) (*Storage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("base path cannot be empty")
	}
	if subdir == "" {
		return nil, fmt.Errorf("subdirectory cannot be empty")
	}

	storagePath := filepath.Join(basePath, subdir)
	if err := os.MkdirAll(storagePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create %s directory: %w", subdir, err)
	}

	return &Storage{basePath: storagePath}, nil
}

// Dir returns the directory photos are written to.
func (s *Storage) Dir() string { return s.basePath }

// Save writes data under filename. filename must be a generated photo name
// (see id.PhotoFilename) so callers cannot escape the directory.
func (s *Storage) Save(filename string, data []byte) error {
	if !id.IsPhotoFilename(filename) {
		return ErrInvalidFilename
	}
	if len(data) == 0 {
		return fmt.Errorf("image data cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.WriteFile(s.Path(filename), data, 0o644); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

// Get reads a photo.
func (s *Storage) Get(filename string) ([]byte, error) {
	if !id.IsPhotoFilename(filename) {
		return nil, ErrInvalidFilename
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	data, err := os.ReadFile(s.Path(filename))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrPhotoNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read image file: %w", err)
	}
	return data, nil
}

// Exists checks if a photo file is present.
func (s *Storage) Exists(filename string) bool {
	if !id.IsPhotoFilename(filename) {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := os.Stat(s.Path(filename))
	return err == nil
}

// Delete removes a photo. Missing files are not an error.
func (s *Storage) Delete(filename string) error {
	if !id.IsPhotoFilename(filename) {
		return ErrInvalidFilename
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.Path(filename)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete image file: %w", err)
	}
	return nil
}

// DeleteAll removes every stored photo.
func (s *Storage) DeleteAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return fmt.Errorf("read photo directory: %w", err)
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || !id.IsPhotoFilename(e.Name()) {
			continue
		}
		if err := os.Remove(filepath.Join(s.basePath, e.Name())); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// StaleFiles lists photo names last modified before cutoff.
func (s *Storage) StaleFiles(cutoff time.Time) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, fmt.Errorf("read photo directory: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() || !id.IsPhotoFilename(e.Name()) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			names = append(names, e.Name())
		}
	}
	return names, nil
}

// Hash computes the SHA256 of a photo, hex-encoded, for ETag validation.
func (s *Storage) Hash(filename string) (string, error) {
	data, err := s.Get(filename)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%x", sha256.Sum256(data)), nil
}

// Path resolves a photo name against the storage directory. Stored orders
// keep only the name, so the directory may move between runs.
func (s *Storage) Path(filename string) string {
	return filepath.Join(s.basePath, filename)
}
