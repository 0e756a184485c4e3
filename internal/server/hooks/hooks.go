// Package hooks implements the named extension points fired by the request
// router. Listeners are invoked synchronously in registration order; a
// listener result can veto the surrounding action either silently (Skip) or
// with an error message (Abort).
package hooks

import "github.com/avolkov/filedrop/internal/common"

// Event names fired by the router.
type Event string

const (
	Init          Event = "init"
	FilesFetch    Event = "files.fetch"
	FilesFilter   Event = "files.filter"
	UploadBefore  Event = "upload.before"
	UploadSuccess Event = "upload.success"
	UploadError   Event = "upload.error"
	CropBefore    Event = "crop.before"
	CropAfter     Event = "crop.after"
	FileDownload  Event = "file.download"
	FileDelete    Event = "file.delete"
)

// Context carries the mutable payload of one event. Which fields are
// meaningful depends on the event: upload.before sees Name/Size and may set
// Rename; files.fetch may supply Files/Total; every event may attach Data,
// which is echoed back on the wire.
type Context struct {
	// Name is the filename the action operates on; Version the requested
	// derivative, when any.
	Name    string
	Version string
	Size    int64

	// Rename, when set by a listener, redirects the destination to this
	// stem; the original extension is preserved. RenameFull takes the new
	// name verbatim and wins over Rename.
	Rename     string
	RenameFull string

	// Files/Total let a files.fetch listener supply the result set instead
	// of a directory scan, and let files.filter trim it afterwards.
	Files    []string
	Total    int
	Supplied bool

	// Data is attached to the response object for this file.
	Data any
}

const (
	kindContinue = iota
	kindSkip
	kindAbort
)

// Result is the discriminated outcome of a listener: continue, skip the
// action silently, or abort it with a message.
type Result struct {
	kind    int
	message string
}

func Continue() Result { return Result{} }

func Skip() Result { return Result{kind: kindSkip} }

func Abort(message string) Result { return Result{kind: kindAbort, message: message} }

func (r Result) Continued() bool { return r.kind == kindContinue }
func (r Result) Skipped() bool   { return r.kind == kindSkip }
func (r Result) Aborted() bool   { return r.kind == kindAbort }

// Err converts an abort result into its error form; any other result is nil.
func (r Result) Err() error {
	if r.kind != kindAbort {
		return nil
	}
	return common.Abort(r.message)
}

// Func is a single listener.
type Func func(c *Context) Result

// Registry maps event names to ordered listener lists.
type Registry struct {
	handlers map[Event][]Func
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[Event][]Func)}
}

// On registers a listener for one or more events.
func (r *Registry) On(event Event, fn Func, more ...Event) {
	r.handlers[event] = append(r.handlers[event], fn)
	for _, e := range more {
		r.handlers[e] = append(r.handlers[e], fn)
	}
}

// Fire invokes the event's listeners in registration order and returns the
// first non-continue result; remaining listeners are not run after a skip
// or abort.
func (r *Registry) Fire(event Event, c *Context) Result {
	for _, fn := range r.handlers[event] {
		if res := fn(c); !res.Continued() {
			return res
		}
	}
	return Continue()
}
