package httpapi

import (
	"net/url"
	"path/filepath"
	"strings"

	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/server/models"
	"github.com/avolkov/filedrop/internal/server/storage"
)

// fileInfo builds the wire representation of a stored file: URL, size, mtime
// and mime type for every file, plus dimensions and existing derivatives for
// images.
func (h *Handler) fileInfo(name string) models.FileInfo {
	fi, err := h.store.Stat(name, "")
	if err != nil {
		return models.FileInfo{Name: name, Error: common.MsgNotFound}
	}

	info := models.FileInfo{
		Name:      name,
		URL:       h.fileURL(name, ""),
		Size:      fi.Size(),
		Time:      fi.ModTime().Unix(),
		Type:      storage.MimeType(name),
		Extension: extension(name),
	}

	if h.store.IsImage(name) {
		if w, ht, err := h.store.Dimensions(name, ""); err == nil {
			info.Width, info.Height = w, ht
		}
		info.Versions = h.versionInfos(name)
	}

	return info
}

func (h *Handler) versionInfos(name string) map[string]models.VersionInfo {
	existing := h.store.Versions(name)
	if len(existing) == 0 {
		return nil
	}

	out := make(map[string]models.VersionInfo, len(existing))
	for version, fi := range existing {
		vi := models.VersionInfo{
			Name: h.store.Filename(name, version),
			URL:  h.fileURL(name, version),
			Size: fi.Size(),
		}
		if w, ht, err := h.store.Dimensions(name, version); err == nil {
			vi.Width, vi.Height = w, ht
		}
		out[version] = vi
	}

	return out
}

// fileURL builds the public URL of a file or derivative. A version with its
// own URL is served from there; otherwise derivatives live under a version
// subpath of the upload URL.
func (h *Handler) fileURL(name, version string) string {
	fn := url.PathEscape(h.store.Filename(name, version))

	if version != "" {
		if v, ok := h.cfg.Versions[version]; ok && v.URL != "" {
			return strings.TrimRight(v.URL, "/") + "/" + fn
		}
		return h.cfg.UploadURL + "/" + version + "/" + fn
	}

	return h.cfg.UploadURL + "/" + fn
}

func extension(name string) string {
	return strings.TrimPrefix(filepath.Ext(name), ".")
}
