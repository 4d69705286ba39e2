package audit

import (
	"context"
	"sync"
	"time"
)

// AsyncOptions tunes the buffering behavior of the async writer.
type AsyncOptions struct {
	BufferSize     int           // entries queued in memory before falling back to sync writes
	BatchSize      int           // target entries per storage write
	BatchTimeout   time.Duration // max time a partial batch waits before flushing
	StorageTimeout time.Duration // per-batch storage deadline
}

// BatchStorage stores many entries in one write. Implementations should make
// the batch atomic where the backend allows it.
type BatchStorage interface {
	StoreBatch(ctx context.Context, entries []Entry) error
}

// AsyncWriter decouples audit writes from the request path by batching
// entries through a background worker. When the buffer is full it degrades
// to a synchronous write rather than dropping the entry: audit completeness
// wins over latency.
type AsyncWriter struct {
	backend   BatchStorage
	entries   chan Entry
	done      chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
	opts      AsyncOptions
}

// NewAsyncWriter starts the background worker and returns the writer plus a
// close function that flushes remaining entries. Always invoke the close
// function on shutdown.
func NewAsyncWriter(backend BatchStorage, opts AsyncOptions) (*AsyncWriter, func(context.Context) error) {
	if backend == nil {
		panic("audit: batch storage cannot be nil")
	}

	if opts.BufferSize <= 0 {
		opts.BufferSize = 1000
	}
	if opts.BatchSize <= 0 {
		opts.BatchSize = 100
	}
	if opts.BatchTimeout <= 0 {
		opts.BatchTimeout = 100 * time.Millisecond
	}
	if opts.StorageTimeout <= 0 {
		opts.StorageTimeout = 5 * time.Second
	}

	aw := &AsyncWriter{
		backend: backend,
		entries: make(chan Entry, opts.BufferSize),
		done:    make(chan struct{}),
		opts:    opts,
	}

	aw.wg.Add(1)
	go aw.worker()

	return aw, aw.Close
}

// Store implements Storage. It enqueues without blocking; a full buffer
// falls back to a direct synchronous write.
func (aw *AsyncWriter) Store(ctx context.Context, entry Entry) error {
	select {
	case <-aw.done:
		return ErrStorageClosed
	default:
	}

	select {
	case aw.entries <- entry:
		return nil
	default:
		return aw.backend.StoreBatch(ctx, []Entry{entry})
	}
}

func (aw *AsyncWriter) worker() {
	defer aw.wg.Done()

	batch := make([]Entry, 0, aw.opts.BatchSize)
	ticker := time.NewTicker(aw.opts.BatchTimeout)
	defer ticker.Stop()

	// Flushes run on a background context so a slow store cannot inherit an
	// already-canceled request deadline.
	flush := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), aw.opts.StorageTimeout)
		_ = aw.backend.StoreBatch(ctx, batch)
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case entry := <-aw.entries:
			batch = append(batch, entry)
			if len(batch) >= aw.opts.BatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		case <-aw.done:
			// Drain whatever is still queued before exiting.
			for {
				select {
				case entry := <-aw.entries:
					batch = append(batch, entry)
				default:
					flush()
					return
				}
			}
		}
	}
}

// Close stops the worker and flushes buffered entries. The context bounds
// how long shutdown may take. Safe to call more than once.
func (aw *AsyncWriter) Close(ctx context.Context) error {
	aw.closeOnce.Do(func() { close(aw.done) })

	finished := make(chan struct{})
	go func() {
		aw.wg.Wait()
		close(finished)
	}()

	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
