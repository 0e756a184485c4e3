package httpapi

import (
	"fmt"
	"net/http"

	"github.com/cespare/xxhash/v2"

	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/storage"
)

// download streams a stored file or one of its derivatives. Image and PDF
// types configured as inline render in the browser; everything else is sent
// as an attachment.
func (h *Handler) download(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()
	name := q.Get(paramFile)
	version := q.Get("version")

	fi, err := h.store.Stat(name, version)
	if err != nil {
		return err
	}

	if res := h.events.Fire(hooks.FileDownload, &hooks.Context{Name: name, Version: version}); !res.Continued() {
		if err := res.Err(); err != nil {
			return err
		}
		h.writeJSON(w, http.StatusForbidden, errorBody("download refused"))
		return nil
	}

	disposition := "attachment"
	if h.store.IsInline(name) {
		disposition = "inline"
	}

	filename := h.store.Filename(name, version)

	w.Header().Set("Content-Type", storage.MimeType(name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, filename))
	w.Header().Set("ETag", etag(filename, fi.Size(), fi.ModTime().UnixNano()))

	http.ServeFile(w, r, h.store.Path(name, version))
	return nil
}

// etag derives a cheap validator from name, size and mtime so unchanged
// files answer conditional requests with 304.
func etag(name string, size, mtime int64) string {
	return fmt.Sprintf(`"%x"`, xxhash.Sum64String(fmt.Sprintf("%s|%d|%d", name, size, mtime)))
}
