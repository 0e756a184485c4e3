package storage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avolkov/filedrop/internal/server/models"
)

func newTestStore(t *testing.T, versions map[string]models.Version) *Store {
	t.Helper()
	s, err := New(t.TempDir(), false, versions, "gif|jpg|jpeg|png", "gif|jpg|jpeg|png|pdf")
	require.NoError(t, err)
	return s
}

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o770))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o660))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain name untouched", "photo.png", "photo.png"},
		{"directory components stripped", "/var/tmp/photo.png", "photo.png"},
		{"windows separators stripped", `C:\tmp\photo.png`, "photo.png"},
		{"traversal collapses to last segment", "../../etc/passwd", "passwd"},
		{"leading dots stripped", "..hidden.png", "hidden.png"},
		{"leading and trailing spaces stripped", "  a.png  ", "a.png"},
		{"control characters stripped", "\x00\x1fa.png", "a.png"},
		{"dot-only name becomes empty", "...", ""},
		{"empty stays empty", "", ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Normalize(tc.in))
		})
	}
}

func TestUniqueName_NumericSuffix(t *testing.T) {
	s := newTestStore(t, nil)

	// Free name comes back unchanged.
	assert.Equal(t, "a.png", s.UniqueName("a.png"))

	touch(t, filepath.Join(s.Dir(), "a.png"))
	assert.Equal(t, "a1.png", s.UniqueName("a.png"))

	touch(t, filepath.Join(s.Dir(), "a1.png"))
	assert.Equal(t, "a2.png", s.UniqueName("a.png"))

	// An existing trailing integer is incremented, not appended to.
	touch(t, filepath.Join(s.Dir(), "img9.jpg"))
	assert.Equal(t, "img10.jpg", s.UniqueName("img9.jpg"))
}

func TestUniqueName_NoExtension(t *testing.T) {
	s := newTestStore(t, nil)

	touch(t, filepath.Join(s.Dir(), "notes"))
	assert.Equal(t, "notes1", s.UniqueName("notes"))
}

func TestUniqueName_EmptyNameGetsRandomStem(t *testing.T) {
	s := newTestStore(t, nil)

	got := s.UniqueName("")
	assert.NotEmpty(t, got)

	other := s.UniqueName("")
	assert.NotEqual(t, got, other)
}

func TestPath_VersionSubdirectory(t *testing.T) {
	s := newTestStore(t, map[string]models.Version{
		"":      {},
		"thumb": {Width: 120, Height: 120},
	})

	assert.Equal(t, filepath.Join(s.Dir(), "a.png"), s.Path("a.png", ""))
	assert.Equal(t, filepath.Join(s.Dir(), "thumb", "a.png"), s.Path("a.png", "thumb"))
}

func TestPath_VersionOwnDirectory(t *testing.T) {
	own := t.TempDir()
	s := newTestStore(t, map[string]models.Version{
		"thumb": {Width: 120, Height: 120, Dir: own},
	})

	// Distinct directory keeps the filename unmodified.
	assert.Equal(t, filepath.Join(own, "a.png"), s.Path("a.png", "thumb"))
}

func TestPath_VersionSharingBaseDirectoryGetsSuffix(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, false, map[string]models.Version{
		"thumb": {Width: 120, Height: 120, Dir: dir},
	}, "png", "png")
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "a-thumb.png"), s.Path("a.png", "thumb"))
}

func TestPath_RejectsTraversal(t *testing.T) {
	s := newTestStore(t, nil)

	got := s.Path("../../etc/passwd", "")
	assert.Equal(t, filepath.Join(s.Dir(), "passwd"), got)
}
