package scheduler

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/avolkov/filedrop/internal/client/models"
	"github.com/avolkov/filedrop/internal/common"
)

// State is the lifecycle position of a batch. Transitions are monotonic:
// pending -> sending -> sent or failed.
type State int

const (
	StatePending State = iota
	StateSending
	StateSent
	StateFailed
)

func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateSending:
		return "sending"
	case StateSent:
		return "sent"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress is the byte-level transfer position of a sending batch.
type Progress struct {
	Loaded int64
	Total  int64
}

type Batch struct {
	ID    string
	Files []models.PendingFile

	sched *Scheduler

	// inQueue is guarded by the scheduler mutex, not the batch mutex.
	inQueue bool

	mu       sync.Mutex
	state    State
	progress Progress
	results  []models.UploadResult
	err      error
	cancel   context.CancelFunc
	done     chan struct{}

	onProgress func(Progress)
	onDone     func([]models.UploadResult)
	onFail     func(error)
	onAlways   func()
}

func newBatch(s *Scheduler, files []models.PendingFile) *Batch {
	return &Batch{
		ID:    uuid.NewString(),
		Files: files,
		sched: s,
		done:  make(chan struct{}),
	}
}

// OnProgress registers a transfer progress callback. Callbacks must be set
// before Send.
func (b *Batch) OnProgress(fn func(Progress)) *Batch {
	b.onProgress = fn
	return b
}

// OnDone registers a success callback receiving the per-file results.
func (b *Batch) OnDone(fn func([]models.UploadResult)) *Batch {
	b.onDone = fn
	return b
}

// OnFail registers a failure callback.
func (b *Batch) OnFail(fn func(error)) *Batch {
	b.onFail = fn
	return b
}

// OnAlways registers a callback run after either outcome.
func (b *Batch) OnAlways(fn func()) *Batch {
	b.onAlways = fn
	return b
}

func (b *Batch) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func (b *Batch) Progress() Progress {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.progress
}

// Results returns the per-file server results of a sent batch.
func (b *Batch) Results() []models.UploadResult {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.results
}

// Err returns the terminal error of a failed batch.
func (b *Batch) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.err
}

// Send submits the batch. It returns immediately; the transfer runs in the
// background, or waits in the FIFO queue while the parallel cap is reached.
// Sending an already submitted batch is a no-op.
func (b *Batch) Send(ctx context.Context) {
	b.sched.submit(ctx, b)
}

// Wait blocks until the batch reaches a terminal state.
func (b *Batch) Wait() {
	<-b.done
}

// Abort cancels the batch: a queued batch leaves the queue and fails with
// the abort message, a sending batch has its transfer cancelled, a batch
// never submitted fails directly. Abort is idempotent.
func (b *Batch) Abort() {
	if b.sched.dequeue(b) {
		b.finish(nil, common.Abort(""))
		return
	}

	b.mu.Lock()
	cancel := b.cancel
	pending := b.state == StatePending
	b.mu.Unlock()

	if cancel != nil {
		cancel()
		return
	}

	if pending {
		b.finish(nil, common.Abort(""))
	}
}

// payload returns the files that go into the request body.
func (b *Batch) payload() []models.PendingFile {
	out := make([]models.PendingFile, 0, len(b.Files))
	for _, f := range b.Files {
		if f.Sendable() {
			out = append(out, f)
		}
	}
	return out
}

// toSending performs the pending -> sending transition. It fails when the
// batch already left the pending state (e.g. aborted before being started).
func (b *Batch) toSending(cancel context.CancelFunc) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state != StatePending {
		return false
	}

	b.state = StateSending
	b.cancel = cancel
	return true
}

func (b *Batch) report(loaded, total int64) {
	b.mu.Lock()
	b.progress = Progress{Loaded: loaded, Total: total}
	fn := b.onProgress
	b.mu.Unlock()

	if fn != nil {
		fn(Progress{Loaded: loaded, Total: total})
	}
}

// finish moves the batch to its terminal state exactly once. Context
// cancellation is reported as an abort.
func (b *Batch) finish(results []models.UploadResult, err error) {
	if err != nil && errors.Is(err, context.Canceled) {
		err = common.Abort("")
	}

	b.mu.Lock()
	if b.state == StateSent || b.state == StateFailed {
		b.mu.Unlock()
		return
	}

	if err != nil {
		b.state = StateFailed
		b.err = err
	} else {
		b.state = StateSent
		b.results = results
	}

	onDone, onFail, onAlways := b.onDone, b.onFail, b.onAlways
	b.mu.Unlock()

	if err != nil {
		if onFail != nil {
			onFail(err)
		}
	} else if onDone != nil {
		onDone(results)
	}

	if onAlways != nil {
		onAlways()
	}

	close(b.done)
}
