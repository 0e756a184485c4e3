// Package scheduler groups a file selection into upload batches, enforces
// the parallel upload cap with a FIFO wait queue, and tracks per-batch
// state, progress and completion callbacks.
package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/avolkov/filedrop/internal/client/models"
	"github.com/avolkov/filedrop/internal/common"
	"github.com/avolkov/filedrop/internal/logging"
)

// FileOverhead is the per-file request overhead counted against LimitSize
// in size-capped batching (multipart boundaries and part headers).
const FileOverhead = 512

// Sender performs the network transfer of one batch payload. progress is
// called as request body bytes are consumed.
type Sender interface {
	Send(ctx context.Context, files []models.PendingFile, progress func(loaded, total int64)) ([]models.UploadResult, error)
}

// Options configure batching and client-side validation. Batching policy
// priority: Single, then Limit, then LimitSize; with none set the whole
// selection forms one batch.
type Options struct {
	// Single puts every file into its own one-item batch.
	Single bool

	// Limit chunks files into consecutive groups of at most Limit.
	Limit int

	// LimitSize caps the cumulative payload size of a batch, counting
	// FileOverhead per sendable file. A single file bigger than the cap
	// still gets its own batch rather than being dropped.
	LimitSize int64

	// ParallelUploads bounds the number of batches in the sending state.
	// Values below 1 are treated as 1.
	ParallelUploads int

	MinFileSize     int64
	MaxFileSize     int64
	AcceptFileTypes string

	// Messages overrides the default validation messages by key.
	Messages map[string]string
}

type queued struct {
	batch *Batch
	ctx   context.Context
}

type Scheduler struct {
	opts   Options
	sender Sender
	logger logging.Logger
	check  *checker

	mu      sync.Mutex
	sending int
	queue   []queued
}

func New(opts Options, sender Sender, logger logging.Logger) (*Scheduler, error) {
	if opts.ParallelUploads < 1 {
		opts.ParallelUploads = 1
	}

	check, err := newChecker(opts)
	if err != nil {
		return nil, fmt.Errorf("scheduler init: %w", err)
	}

	return &Scheduler{
		opts:   opts,
		sender: sender,
		logger: logger.With("module", "scheduler"),
		check:  check,
	}, nil
}

// Add validates the selection and groups it into batches per the configured
// policy. Returned batches are pending; nothing is sent until Send.
func (s *Scheduler) Add(files []models.PendingFile) []*Batch {
	for i := range files {
		s.check.validate(&files[i])
	}

	groups := s.split(files)

	batches := make([]*Batch, 0, len(groups))
	for _, g := range groups {
		batches = append(batches, newBatch(s, g))
	}

	return batches
}

func (s *Scheduler) split(files []models.PendingFile) [][]models.PendingFile {
	if len(files) == 0 {
		return nil
	}

	switch {
	case s.opts.Single:
		out := make([][]models.PendingFile, 0, len(files))
		for _, f := range files {
			out = append(out, []models.PendingFile{f})
		}
		return out

	case s.opts.Limit > 0:
		var out [][]models.PendingFile
		for len(files) > s.opts.Limit {
			out = append(out, files[:s.opts.Limit])
			files = files[s.opts.Limit:]
		}
		return append(out, files)

	case s.opts.LimitSize > 0:
		return s.splitBySize(files)

	default:
		return [][]models.PendingFile{files}
	}
}

// splitBySize accumulates files until adding the next sendable one would
// push the batch over LimitSize. Errored files cost nothing since they are
// excluded from the payload.
func (s *Scheduler) splitBySize(files []models.PendingFile) [][]models.PendingFile {
	var out [][]models.PendingFile
	var cur []models.PendingFile
	var curSize int64

	for _, f := range files {
		var cost int64
		if f.Sendable() {
			cost = f.Size + FileOverhead
		}

		if len(cur) > 0 && cost > 0 && curSize+cost > s.opts.LimitSize {
			out = append(out, cur)
			cur, curSize = nil, 0
		}

		cur = append(cur, f)
		curSize += cost
	}

	return append(out, cur)
}

// submit moves a pending batch toward sending, or parks it in the FIFO
// queue when the parallel cap is reached.
func (s *Scheduler) submit(ctx context.Context, b *Batch) {
	if b.State() != StatePending {
		return
	}

	s.mu.Lock()
	if s.sending >= s.opts.ParallelUploads {
		b.inQueue = true
		s.queue = append(s.queue, queued{batch: b, ctx: ctx})
		s.mu.Unlock()
		return
	}
	s.sending++
	s.mu.Unlock()

	s.start(ctx, b)
}

func (s *Scheduler) start(ctx context.Context, b *Batch) {
	sctx, cancel := context.WithCancel(ctx)

	if !b.toSending(cancel) {
		cancel()
		s.complete()
		return
	}

	go func() {
		defer s.complete()

		files := b.payload()
		if len(files) == 0 {
			b.finish(nil, common.ErrorNoSendableFiles)
			return
		}

		results, err := s.sender.Send(sctx, files, b.report)
		b.finish(results, err)
	}()
}

// complete releases one sending slot and services the wait queue at most
// once: the oldest queued batch is dequeued and started.
func (s *Scheduler) complete() {
	var next *queued

	s.mu.Lock()
	s.sending--
	if len(s.queue) > 0 && s.sending < s.opts.ParallelUploads {
		entry := s.queue[0]
		s.queue = s.queue[1:]
		entry.batch.inQueue = false
		s.sending++
		next = &entry
	}
	s.mu.Unlock()

	if next != nil {
		s.start(next.ctx, next.batch)
	}
}

// dequeue removes an aborted batch from the wait queue. It reports whether
// the batch was actually queued.
func (s *Scheduler) dequeue(b *Batch) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !b.inQueue {
		return false
	}

	for i, entry := range s.queue {
		if entry.batch == b {
			s.queue = append(s.queue[:i], s.queue[i+1:]...)
			break
		}
	}
	b.inQueue = false

	return true
}
