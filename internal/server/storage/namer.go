package storage

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// Characters stripped from both ends of a client-supplied name: dots plus
// ASCII control characters and space. Combined with the basename step this
// is the security boundary against path traversal.
const trimSet = ".\x00\x01\x02\x03\x04\x05\x06\x07\x08\t\n\x0b\x0c\r\x0e\x0f" +
	"\x10\x11\x12\x13\x14\x15\x16\x17\x18\x19\x1a\x1b\x1c\x1d\x1e\x1f "

// Normalize reduces a client-supplied filename to a bare name safe to join
// under the storage directory. Directory components (either separator style)
// are dropped and leading/trailing dot, space and control characters are
// stripped, so sequences like "../../etc/passwd" cannot survive.
func Normalize(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = path.Base(name)
	name = strings.Trim(name, trimSet)

	if name == "/" || strings.Contains(name, "/") {
		return ""
	}

	return name
}

// UniqueName returns name unchanged if it is free in the storage directory,
// otherwise it bumps a trailing integer placed just before the extension
// until a free name is found: a.png -> a1.png -> a2.png. An empty name gets
// a random stem.
func (s *Store) UniqueName(name string) string {
	name = Normalize(name)
	if stem(name) == "" {
		name = uuid.NewString() + filepath.Ext(name)
	}

	for s.exists(name) {
		name = bump(name)
	}

	return name
}

func stem(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

func bump(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(name, ext)

	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}

	n := 1
	if i < len(base) {
		v, _ := strconv.Atoi(base[i:])
		n = v + 1
	}

	return base[:i] + strconv.Itoa(n) + ext
}

// Filename maps a stored filename to the name a derivative of it uses. When
// the version stores into the same directory as the base file, a -{version}
// suffix goes before the extension so the derivative cannot overwrite the
// original.
func (s *Store) Filename(name, version string) string {
	if version == "" {
		return name
	}

	v, ok := s.versions[version]
	if !ok || v.Dir == "" {
		return name
	}

	if filepath.Clean(v.Dir) == filepath.Clean(s.dir) {
		ext := filepath.Ext(name)
		return strings.TrimSuffix(name, ext) + "-" + version + ext
	}

	return name
}

// Path resolves the filesystem path of a file, or of one of its derivatives
// when version is non-empty. A version with its own directory lives there
// under the unmodified filename; otherwise the derivative lives in a
// subdirectory named after the version.
func (s *Store) Path(name, version string) string {
	dir := s.dir
	sub := ""

	if version != "" {
		if v, ok := s.versions[version]; ok && v.Dir != "" {
			dir = v.Dir
		} else {
			sub = version
		}
	}

	name = s.Filename(Normalize(name), version)

	return filepath.Join(dir, sub, name)
}
