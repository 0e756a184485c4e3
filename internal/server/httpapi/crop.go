package httpapi

import (
	"net/http"
	"path/filepath"

	"github.com/avolkov/filedrop/internal/server/derive"
	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/storage"
)

// crop applies a crop request to a stored image and regenerates its
// derivatives from the result. A crop.before listener may rename the file
// first; when keep_original_image is set the stored base file is left
// untouched and only the derivatives change.
func (h *Handler) crop(w http.ResponseWriter, r *http.Request) error {
	name := h.filename(r)

	if _, err := h.store.Stat(name, ""); err != nil {
		return err
	}

	hc := &hooks.Context{Name: name}
	if res := h.events.Fire(hooks.CropBefore, hc); res.Aborted() || res.Skipped() {
		if err := res.Err(); err != nil {
			return err
		}
		h.writeJSON(w, http.StatusOK, h.fileInfo(name))
		return nil
	}

	p := derive.TransformParams{
		X:      formInt(r, "x"),
		Y:      formInt(r, "y"),
		Width:  formInt(r, "width"),
		Height: formInt(r, "height"),
		Rotate: formInt(r, "rotate"),
		ScaleX: formInt(r, "scaleX"),
		ScaleY: formInt(r, "scaleY"),
	}

	if p.Width > 0 && p.Height > 0 {
		// Decode before touching storage so a failed decode leaves the
		// file, its name and its derivatives exactly as they were.
		img, err := h.engine.Load(name)
		if err != nil {
			return err
		}

		if renamed := renameTarget(hc, name); renamed != "" && renamed != name {
			// Derivatives of the old name would be orphaned after the move.
			h.store.DeleteVersions(name)
			if err := h.store.Move(name, renamed); err != nil {
				return err
			}
			name = renamed
		}

		cropped := derive.Transform(img, p)

		if !h.cfg.KeepOriginalImage {
			if err := h.engine.SaveBase(name, cropped); err != nil {
				return err
			}
		}

		if err := h.engine.GenerateFrom(r.Context(), cropped, name, true); err != nil {
			return err
		}
	}

	h.events.Fire(hooks.CropAfter, &hooks.Context{Name: name, Data: hc.Data})

	info := h.fileInfo(name)
	info.Data = hc.Data
	h.writeJSON(w, http.StatusOK, info)
	return nil
}

// renameTarget resolves a crop.before rename request into a full filename,
// defaulting the extension to the current one.
func renameTarget(hc *hooks.Context, current string) string {
	if hc.RenameFull != "" {
		return storage.Normalize(hc.RenameFull)
	}
	if hc.Rename != "" {
		return storage.Normalize(hc.Rename + filepath.Ext(current))
	}
	return ""
}
