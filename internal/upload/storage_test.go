package upload

import (
	"bytes"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dorm-rental-backend/internal/apperr"
)

// tinyPNG is a 1x1 transparent PNG.
var tinyPNG = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x01, 0x00, 0x00, 0x00, 0x01,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0x15, 0xc4, 0x89, 0x00, 0x00, 0x00,
	0x0d, 0x49, 0x44, 0x41, 0x54, 0x78, 0x9c, 0x63, 0x00, 0x01, 0x00, 0x00,
	0x05, 0x00, 0x01, 0x0d, 0x0a, 0x2d, 0xb4, 0x00, 0x00, 0x00, 0x00, 0x49,
	0x45, 0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

func newStorage(t *testing.T, max int64) *Storage {
	t.Helper()
	s, err := NewStorage(t.TempDir(), "/uploads", max)
	require.NoError(t, err)
	return s
}

func TestSaveImage(t *testing.T) {
	s := newStorage(t, 0)

	p, err := s.SaveImage(bytes.NewReader(tinyPNG), int64(len(tinyPNG)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(p, "/uploads/"))
	assert.Equal(t, ".png", path.Ext(p))

	_, err = os.Stat(filepath.Join(s.Dir(), path.Base(p)))
	assert.NoError(t, err)

	s.Remove(p)
	_, err = os.Stat(filepath.Join(s.Dir(), path.Base(p)))
	assert.True(t, os.IsNotExist(err))
}

func TestSaveImage_RejectsNonImage(t *testing.T) {
	s := newStorage(t, 0)

	body := []byte("%PDF-1.4\n1 0 obj\n")
	_, err := s.SaveImage(bytes.NewReader(body), int64(len(body)))
	assert.True(t, apperr.IsValidation(err))

	entries, err := os.ReadDir(s.Dir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveImage_SizeLimit(t *testing.T) {
	s := newStorage(t, 32)

	_, err := s.SaveImage(bytes.NewReader(tinyPNG), int64(len(tinyPNG)))
	assert.True(t, apperr.IsValidation(err), "declared size over limit")

	_, err = s.SaveImage(bytes.NewReader(tinyPNG), 10)
	assert.True(t, apperr.IsValidation(err), "actual size over limit")
}

func TestNewStorage_CapsLimit(t *testing.T) {
	s := newStorage(t, 100<<20)
	assert.Equal(t, int64(DefaultMaxBytes), s.maxBytes)
}

func TestRemove_MissingIsIgnored(t *testing.T) {
	s := newStorage(t, 0)
	s.RemoveAll([]string{"/uploads/missing.png", ""})
}
