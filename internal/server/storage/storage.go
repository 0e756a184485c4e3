// Package storage owns the upload directory: naming, placement, scanning,
// sorting and deletion of stored files and their derivatives. File metadata
// is read from the filesystem on demand and never cached across requests.
package storage

import (
	"fmt"
	"image"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/filex"
	"github.com/avolkov/filedrop/internal/server/models"
)

// Listing sort codes. The codes are part of the wire contract (the client
// sends them in the ?sort= query parameter).
const (
	SortTimeAsc  = 1
	SortTimeDesc = 2
	SortSizeAsc  = 3
	SortSizeDesc = 4
	SortNameAsc  = 5
	SortNameDesc = 6
)

type Store struct {
	dir       string
	overwrite bool
	versions  map[string]models.Version
	imageRe   *regexp.Regexp
	inlineRe  *regexp.Regexp
}

// New creates the upload directory if needed and returns a Store over it.
// imageTypes and inlineTypes are pipe-separated extension alternations.
func New(dir string, overwrite bool, versions map[string]models.Version, imageTypes, inlineTypes string) (*Store, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("storage init: %w", err)
	}

	s := &Store{dir: abs, overwrite: overwrite, versions: versions}

	if s.imageRe, err = extPattern(imageTypes); err != nil {
		return nil, fmt.Errorf("image_file_types: %w", err)
	}
	if s.inlineRe, err = extPattern(inlineTypes); err != nil {
		return nil, fmt.Errorf("inline_file_types: %w", err)
	}

	return s, nil
}

func extPattern(types string) (*regexp.Regexp, error) {
	if types == "" {
		return nil, nil
	}
	return regexp.Compile(`(?i)\.(` + types + `)$`)
}

func (s *Store) Dir() string { return s.dir }

// IsImage reports whether the name matches the configured image extensions.
func (s *Store) IsImage(name string) bool {
	return s.imageRe != nil && s.imageRe.MatchString(name)
}

// IsInline reports whether the file should be served inline on download.
func (s *Store) IsInline(name string) bool {
	return s.inlineRe != nil && s.inlineRe.MatchString(name)
}

func (s *Store) exists(name string) bool {
	return filex.Exists(filepath.Join(s.dir, name))
}

// Stat resolves a file (optionally a derivative) and returns its metadata,
// or common.ErrorNotFound when it does not exist.
func (s *Store) Stat(name, version string) (fs.FileInfo, error) {
	fi, err := os.Stat(s.Path(name, version))
	if err != nil || !fi.Mode().IsRegular() {
		return nil, fmt.Errorf("%s: %w", name, common.ErrorNotFound)
	}
	return fi, nil
}

// Save writes the contents of r into the storage directory. When fixed is
// false the destination name follows the store's naming policy: overwrite
// mode keeps the normalized client name, otherwise a collision-free name is
// chosen. The stored name is returned.
func (s *Store) Save(r io.Reader, name string, fixed bool) (string, error) {
	switch {
	case fixed && name != "":
		name = Normalize(name)
	case s.overwrite && Normalize(name) != "":
		name = Normalize(name)
	default:
		name = s.UniqueName(name)
	}

	f, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		return "", fmt.Errorf("store %s: %w", name, err)
	}

	return name, nil
}

// Move renames a stored file, creating the destination name's directory as
// needed. Both names are interpreted relative to the base directory.
func (s *Store) Move(oldName, newName string) error {
	return filex.Move(s.Path(oldName, ""), s.Path(newName, ""))
}

// Delete unlinks a stored file together with every existing derivative of
// it. It reports whether the base file was removed.
func (s *Store) Delete(name string) bool {
	if err := os.Remove(s.Path(name, "")); err != nil {
		return false
	}

	if s.IsImage(name) {
		s.DeleteVersions(name)
	}

	return true
}

// DeleteVersions removes every existing derivative of name. Missing
// derivatives are skipped silently.
func (s *Store) DeleteVersions(name string) {
	for version := range s.versions {
		if version == "" {
			continue
		}
		_ = os.Remove(s.Path(name, version))
	}
}

// Versions returns the existing derivatives of a stored image, keyed by
// version name. Raw versions and derivatives that were never generated are
// omitted.
func (s *Store) Versions(name string) map[string]fs.FileInfo {
	out := make(map[string]fs.FileInfo)

	for version := range s.versions {
		if version == "" {
			continue
		}
		if fi, err := s.Stat(name, version); err == nil {
			out[version] = fi
		}
	}

	return out
}

// Scan lists the base directory's files sorted by the given sort code.
// Unknown codes fall back to newest-first.
func (s *Store) Scan(sortCode int) ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", s.dir, err)
	}

	type entry struct {
		name string
		fi   fs.FileInfo
	}

	files := make([]entry, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, entry{name: e.Name(), fi: fi})
	}

	sort.SliceStable(files, func(i, j int) bool {
		a, b := files[i], files[j]
		switch sortCode {
		case SortTimeAsc:
			return a.fi.ModTime().Before(b.fi.ModTime())
		case SortSizeAsc:
			return a.fi.Size() < b.fi.Size()
		case SortSizeDesc:
			return a.fi.Size() > b.fi.Size()
		case SortNameAsc:
			return a.name < b.name
		case SortNameDesc:
			return a.name > b.name
		default: // SortTimeDesc
			return a.fi.ModTime().After(b.fi.ModTime())
		}
	})

	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.name
	}

	return names, nil
}

// Total returns the number of stored files in the base directory.
func (s *Store) Total() int {
	names, err := s.Scan(SortNameAsc)
	if err != nil {
		return 0
	}
	return len(names)
}

// MimeType guesses the content type of a stored name from its extension.
func MimeType(name string) string {
	t := mime.TypeByExtension(filepath.Ext(name))
	if t == "" {
		return "application/octet-stream"
	}
	// Strip charset parameters; the wire format carries the bare type.
	if i := strings.Index(t, ";"); i >= 0 {
		t = t[:i]
	}
	return t
}

// Dimensions reads the pixel size of a stored image (optionally one of its
// derivatives) without decoding the full pixel data.
func (s *Store) Dimensions(name, version string) (int, int, error) {
	f, err := os.Open(s.Path(name, version))
	if err != nil {
		return 0, 0, fmt.Errorf("%s: %w", name, common.ErrorNotFound)
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("decode %s: %w", name, err)
	}

	return cfg.Width, cfg.Height, nil
}
