// Package httpapi implements the HTTP surface of the server: one endpoint
// dispatched by effective method into list, download, upload, crop and
// delete actions. Action failures are translated into JSON error responses
// at a single boundary.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/logging"
	"github.com/avolkov/filedrop/internal/server/config"
	"github.com/avolkov/filedrop/internal/server/derive"
	"github.com/avolkov/filedrop/internal/server/hooks"
	"github.com/avolkov/filedrop/internal/server/storage"
	"github.com/avolkov/filedrop/internal/server/validate"
)

// Multipart field names of the upload contract. The plural form is what the
// stock client sends; the singular form is accepted for hand-rolled callers.
const (
	paramFiles          = "files[]"
	paramFilesBare      = "files"
	paramFile           = "file"
	paramMethodOverride = "_method"
)

type Handler struct {
	cfg    *config.Config
	logger logging.Logger
	store  *storage.Store
	check  *validate.Validator
	engine *derive.Engine
	events *hooks.Registry
}

func New(cfg *config.Config, logger logging.Logger, store *storage.Store, check *validate.Validator, engine *derive.Engine, events *hooks.Registry) *Handler {
	return &Handler{
		cfg:    cfg,
		logger: logger.With("module", "httpapi"),
		store:  store,
		check:  check,
		engine: engine,
		events: events,
	}
}

// Hooks exposes the listener registry so embedding deployments can register
// their extension points.
func (h *Handler) Hooks() *hooks.Registry { return h.events }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.events.Fire(hooks.Init, &hooks.Context{})

	var err error

	switch h.effectiveMethod(r) {
	case http.MethodGet:
		if r.URL.Query().Get(paramFile) != "" {
			err = h.download(w, r)
		} else {
			err = h.list(w, r)
		}
	case http.MethodPost:
		err = h.upload(w, r)
	case http.MethodPatch:
		err = h.crop(w, r)
	case http.MethodDelete:
		err = h.remove(w, r)
	default:
		h.writeJSON(w, http.StatusMethodNotAllowed, errorBody("method not allowed"))
		return
	}

	if err != nil {
		h.writeError(w, r, err)
	}
}

// effectiveMethod resolves the method override used by environments that
// cannot issue native PATCH/DELETE requests. Only POST may be overridden.
func (h *Handler) effectiveMethod(r *http.Request) string {
	if r.Method == http.MethodPost {
		if m := r.FormValue(paramMethodOverride); m != "" {
			return strings.ToUpper(m)
		}
	}
	return r.Method
}

// writeError maps an action failure onto the wire: explicit aborts are 400
// with their message, missing files are 404, anything else is a masked 500
// unless debug mode surfaces the underlying error.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var ab *common.AbortError

	switch {
	case errors.As(err, &ab):
		h.writeJSON(w, http.StatusBadRequest, errorBody(ab.Error()))
	case errors.Is(err, common.ErrorNotFound):
		h.writeJSON(w, http.StatusNotFound, errorBody(common.MsgNotFound))
	default:
		h.logger.Error(r.Context(), "request failed", "method", r.Method, "error", err.Error())
		msg := common.MsgError
		if h.cfg.Debug {
			msg = err.Error()
		}
		h.writeJSON(w, http.StatusInternalServerError, errorBody(msg))
	}
}

func errorBody(message string) map[string]string {
	return map[string]string{"message": message}
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error(context.Background(), "response encoding failed", "error", err.Error())
	}
}

// filenames extracts the requested filenames from query or form parameters,
// accepting the plural field first and the singular as a fallback.
func (h *Handler) filenames(r *http.Request) []string {
	_ = r.ParseForm()

	names := r.Form[paramFiles]
	if len(names) == 0 {
		names = r.Form[paramFilesBare]
	}
	if len(names) == 0 {
		if v := r.Form.Get(paramFile); v != "" {
			names = []string{v}
		}
	}

	return names
}

func (h *Handler) filename(r *http.Request) string {
	if names := h.filenames(r); len(names) > 0 {
		return names[0]
	}
	return ""
}

func formInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.FormValue(key))
	return n
}
