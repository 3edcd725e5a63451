package imagestore

import (
	"AutosValle-Backend/pkg/random"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
)

// allowedExtensions is the upload content allow-list.
var allowedExtensions = map[string]struct{}{
	"png":  {},
	"jpg":  {},
	"jpeg": {},
	"gif":  {},
	"webp": {},
}

const refPrefix = "uploads/"

// Store persists uploaded listing images on disk and hands out stable
// relative references. Only references are ever stored in the database.
type Store struct {
	dir string
	log *zap.Logger
}

// New creates an image store rooted at dir, creating it if needed.
func New(dir string, log *zap.Logger) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &Store{dir: dir, log: log}, nil
}

// Allowed reports whether the file name carries an accepted image extension.
func Allowed(filename string) bool {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
	_, ok := allowedExtensions[ext]
	return ok
}

// Save writes an upload to disk under a unique name and returns its stable
// relative reference. Files with a disallowed extension are rejected.
func (s *Store) Save(prefix, filename string, r io.Reader) (string, error) {
	if !Allowed(filename) {
		return "", fmt.Errorf("file type not allowed: %s", filename)
	}

	suffix, err := random.NewRandomString(6)
	if err != nil {
		return "", fmt.Errorf("failed to generate file name: %w", err)
	}

	base := sanitize(filepath.Base(filename))
	name := fmt.Sprintf("%s%s_%s_%s", prefix, time.Now().UTC().Format("20060102_150405"), suffix, base)

	path := filepath.Join(s.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write image file: %w", err)
	}

	s.log.Debug("stored uploaded image", zap.String("reference", refPrefix+name))
	return refPrefix + name, nil
}

// Delete removes the file behind a reference. Best effort: a missing file or
// an unrecognized reference is not an error.
func (s *Store) Delete(ref string) {
	if !strings.HasPrefix(ref, refPrefix) {
		return
	}

	path := filepath.Join(s.dir, strings.TrimPrefix(ref, refPrefix))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		s.log.Warn("failed to delete image file", zap.String("reference", ref), zap.Error(err))
	}
}

// DeleteAll removes every referenced file, best effort.
func (s *Store) DeleteAll(refs []string) {
	for _, ref := range refs {
		s.Delete(ref)
	}
}

// sanitize strips path separators and whitespace from an uploaded file name.
func sanitize(name string) string {
	replacer := strings.NewReplacer("/", "_", "\\", "_", " ", "_", "..", "_")
	return replacer.Replace(name)
}
