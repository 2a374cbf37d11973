package upload

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"dorm-rental-backend/internal/apperr"
)

// DefaultMaxBytes is the per-file upload ceiling.
const DefaultMaxBytes = 5 << 20

var allowedImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"}

// Storage writes uploaded images under a directory and hands back public paths.
type Storage struct {
	dir       string
	urlPrefix string
	maxBytes  int64
}

// NewStorage creates the upload directory if needed.
func NewStorage(dir, urlPrefix string, maxBytes int64) (*Storage, error) {
	if maxBytes <= 0 || maxBytes > DefaultMaxBytes {
		maxBytes = DefaultMaxBytes
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir %q: %w", dir, err)
	}
	return &Storage{dir: dir, urlPrefix: strings.TrimSuffix(urlPrefix, "/"), maxBytes: maxBytes}, nil
}

// Dir returns the directory images are written to.
func (s *Storage) Dir() string { return s.dir }

// SaveImage validates and stores one image. The content is sniffed; the client's
// filename and declared content type are not trusted.
func (s *Storage) SaveImage(r io.Reader, size int64) (string, error) {
	if size > s.maxBytes {
		return "", apperr.Validation("image exceeds the %d byte limit", s.maxBytes)
	}

	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > s.maxBytes {
		return "", apperr.Validation("image exceeds the %d byte limit", s.maxBytes)
	}

	mtype := mimetype.Detect(data)
	if !mimetype.EqualsAny(mtype.String(), allowedImageTypes...) {
		return "", apperr.Validation("unsupported file type %s; only images are allowed", mtype.String())
	}

	name := uuid.NewString() + mtype.Extension()
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to store image: %w", err)
	}
	return path.Join(s.urlPrefix, name), nil
}

// Remove deletes a stored image by its public path. Missing files are ignored.
func (s *Storage) Remove(publicPath string) {
	name := path.Base(publicPath)
	if name == "." || name == "/" {
		return
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		log.Printf("failed to remove image %s: %v", publicPath, err)
	}
}

// RemoveAll deletes several stored images.
func (s *Storage) RemoveAll(paths []string) {
	for _, p := range paths {
		s.Remove(p)
	}
}
