package httpapi

import (
	"net/http"

	"github.com/avolkov/filedrop/internal/server/hooks"
)

// remove deletes the named files and their derivatives. The response maps
// each filename to whether it was removed; a file whose deletion a listener
// skipped is omitted from the map entirely.
func (h *Handler) remove(w http.ResponseWriter, r *http.Request) error {
	result := make(map[string]bool)

	for _, name := range h.filenames(r) {
		if _, err := h.store.Stat(name, ""); err != nil {
			result[name] = false
			continue
		}

		res := h.events.Fire(hooks.FileDelete, &hooks.Context{Name: name})
		if res.Aborted() {
			return res.Err()
		}
		if res.Skipped() {
			continue
		}

		result[name] = h.store.Delete(name)
	}

	h.writeJSON(w, http.StatusOK, result)
	return nil
}
