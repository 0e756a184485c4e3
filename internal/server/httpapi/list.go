package httpapi

import (
	"net/http"
	"strconv"

	"github.com/avolkov/filedrop/internal/pagex"
	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/models"
)

type listResponse struct {
	Files []models.FileInfo `json:"files"`
	Total int               `json:"total"`
}

// list returns a page of stored files. A files.fetch listener may supply the
// result set instead of a directory scan; files.filter may trim it after.
func (h *Handler) list(w http.ResponseWriter, r *http.Request) error {
	q := r.URL.Query()

	limit := queryInt(q.Get("limit"))
	offset := queryInt(q.Get("offset"))
	sortCode := queryInt(q.Get("sort"))
	if sortCode == 0 {
		sortCode = h.cfg.Sort
	}

	fetch := &hooks.Context{}
	h.events.Fire(hooks.FilesFetch, fetch)

	var names []string
	var total int

	if fetch.Supplied {
		names = fetch.Files
		total = fetch.Total
		if total == 0 {
			total = len(names)
		}
	} else {
		all, err := h.store.Scan(sortCode)
		if err != nil {
			return err
		}
		total = len(all)
		lo, hi := pagex.Bounds(len(all), offset, limit)
		names = all[lo:hi]
	}

	filter := &hooks.Context{Files: names, Total: total}
	h.events.Fire(hooks.FilesFilter, filter)

	files := make([]models.FileInfo, 0, len(filter.Files))
	for _, n := range filter.Files {
		files = append(files, h.fileInfo(n))
	}

	h.writeJSON(w, http.StatusOK, listResponse{Files: files, Total: filter.Total})
	return nil
}

func queryInt(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
