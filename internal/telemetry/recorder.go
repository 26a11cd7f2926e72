package telemetry

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/eliseohh/splitonbot/internal/logctx"
	"github.com/eliseohh/splitonbot/internal/reply"
)

const queueSize = 256

// Recorder stores records in SQLite from a single writer goroutine.
// Emit never blocks: when the queue is full the record is dropped.
type Recorder struct {
	db     *DB
	logger *slog.Logger

	mu     sync.RWMutex
	closed bool
	queue  chan reply.Record
	done   chan struct{}

	dropped atomic.Int64
}

// Open creates the audit database at path and starts the writer. Insert
// failures are logged through the logger carried by ctx.
func Open(ctx context.Context, path string) (*Recorder, error) {
	db, err := NewDB(path)
	if err != nil {
		return nil, err
	}
	if err := db.InitSchema(); err != nil {
		db.Close()
		return nil, err
	}
	r := &Recorder{
		db:     db,
		logger: logctx.Logger(ctx),
		queue:  make(chan reply.Record, queueSize),
		done:   make(chan struct{}),
	}
	go r.writer()
	return r, nil
}

func (r *Recorder) Emit(rec reply.Record) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		r.dropped.Add(1)
		return
	}

	select {
	case r.queue <- rec:
	default:
		r.dropped.Add(1)
	}
}

// Dropped reports records lost to a full queue or a closed recorder.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Count returns the stored invocations of event.
func (r *Recorder) Count(event string) (int, error) {
	return r.db.Count(event)
}

// Close writes what is queued, stops the writer and closes the database.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.queue)
	r.mu.Unlock()

	<-r.done
	return r.db.Close()
}

func (r *Recorder) writer() {
	defer close(r.done)

	for rec := range r.queue {
		at := rec.At
		if at.IsZero() {
			at = time.Now()
		}
		_, err := r.db.Exec(
			"INSERT INTO invocations (event, user_id, display_name, at) VALUES (?, ?, ?, ?)",
			rec.Event, rec.UserID, rec.DisplayName, at.UTC().Format(time.RFC3339Nano),
		)
		if err != nil {
			r.logger.Warn("audit insert failed", "event", rec.Event, "error", err)
		}
	}
}
