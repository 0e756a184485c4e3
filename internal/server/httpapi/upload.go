package httpapi

import (
	"context"
	"fmt"
	"image"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/models"
	"github.com/avolkov/filedrop/internal/server/storage"
)

const maxMultipartMemory = 32 << 20

// upload stores every file of a multipart request. Each file succeeds or
// fails on its own; the response is the per-file outcome array and the
// status is 201 regardless of individual failures.
func (h *Handler) upload(w http.ResponseWriter, r *http.Request) error {
	if r.MultipartForm == nil {
		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			return common.Abort("invalid multipart request")
		}
	}

	headers := h.fileHeaders(r)
	results := make([]models.FileInfo, 0, len(headers))

	for _, fh := range headers {
		results = append(results, h.uploadOne(r.Context(), fh))
	}

	h.writeJSON(w, http.StatusCreated, results)
	return nil
}

func (h *Handler) fileHeaders(r *http.Request) []*multipart.FileHeader {
	if r.MultipartForm == nil {
		return nil
	}

	fhs := r.MultipartForm.File[paramFiles]
	if len(fhs) == 0 {
		fhs = r.MultipartForm.File[paramFilesBare]
	}
	if len(fhs) == 0 {
		fhs = r.MultipartForm.File[paramFile]
	}

	return fhs
}

func (h *Handler) uploadOne(ctx context.Context, fh *multipart.FileHeader) models.FileInfo {
	name := storage.Normalize(fh.Filename)

	hc := &hooks.Context{Name: name, Size: fh.Size}
	if res := h.events.Fire(hooks.UploadBefore, hc); !res.Continued() {
		msg := common.MsgAborted
		if res.Aborted() {
			msg = res.Err().Error()
		}
		return h.failUpload(fh, msg)
	}

	if h.cfg.MaxFiles > 0 && h.store.Total() >= h.cfg.MaxFiles {
		return h.failUpload(fh, fmt.Sprintf("Maximum number of %d files exceeded.", h.cfg.MaxFiles))
	}

	if err := h.check.Check(name, fh.Size); err != nil {
		return h.failUpload(fh, err.Error())
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.Error(ctx, "open upload part failed", "file", name, "error", err.Error())
		return h.failUpload(fh, common.MsgError)
	}
	defer f.Close()

	if h.check.NeedsDimensions(name) {
		cfg, _, err := image.DecodeConfig(f)
		if err != nil {
			return h.failUpload(fh, "The file type is not accepted.")
		}
		if err := h.check.CheckBounds(cfg.Width, cfg.Height); err != nil {
			return h.failUpload(fh, err.Error())
		}
		if _, err := f.Seek(0, io.SeekStart); err != nil {
			h.logger.Error(ctx, "rewind upload part failed", "file", name, "error", err.Error())
			return h.failUpload(fh, common.MsgError)
		}
	}

	// A listener rename fixes the destination; the original extension is
	// kept unless the listener supplied a full name.
	fixed := hc.RenameFull
	if fixed == "" && hc.Rename != "" {
		fixed = hc.Rename + filepath.Ext(name)
	}

	stored, err := h.store.Save(f, pick(fixed, name), fixed != "")
	if err != nil {
		h.logger.Error(ctx, "store upload failed", "file", name, "error", err.Error())
		return h.failUpload(fh, common.MsgError)
	}

	if h.store.IsImage(stored) {
		if err := h.engine.Generate(ctx, stored); err != nil {
			h.logger.Error(ctx, "derivative generation failed", "file", stored, "error", err.Error())
		}
	}

	h.events.Fire(hooks.UploadSuccess, &hooks.Context{Name: stored, Size: fh.Size, Data: hc.Data})

	info := h.fileInfo(stored)
	info.Data = hc.Data
	return info
}

// failUpload builds the outcome of a rejected file from the client's own
// view of it and notifies upload.error listeners.
func (h *Handler) failUpload(fh *multipart.FileHeader, message string) models.FileInfo {
	info := models.FileInfo{
		Name:      fh.Filename,
		Size:      fh.Size,
		Type:      fh.Header.Get("Content-Type"),
		Extension: extension(fh.Filename),
		Error:     message,
	}

	h.events.Fire(hooks.UploadError, &hooks.Context{Name: fh.Filename, Size: fh.Size})

	return info
}

func pick(first, fallback string) string {
	if first != "" {
		return first
	}
	return fallback
}
