package audit

import (
	"context"
	"log/slog"
)

// Worker drains records from a channel and persists them. Append failures are
// logged and the record dropped; the trail is best-effort by contract.
type Worker struct {
	store  Store
	inbox  <-chan Record
	logger *slog.Logger
}

// NewWorker constructs a worker draining the given inbox.
func NewWorker(store Store, inbox <-chan Record, logger *slog.Logger) *Worker {
	return &Worker{store: store, inbox: inbox, logger: logger}
}

// Run consumes the inbox until the context is cancelled. Records still queued
// at cancellation are flushed before returning.
func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			w.drain()
			return ctx.Err()
		case rec := <-w.inbox:
			w.append(rec)
		}
	}
}

func (w *Worker) drain() {
	for {
		select {
		case rec := <-w.inbox:
			w.append(rec)
		default:
			return
		}
	}
}

func (w *Worker) append(rec Record) {
	// Detached context: request contexts that produced the record may already
	// be cancelled.
	if err := w.store.Append(context.Background(), rec); err != nil {
		w.logger.Error("audit append failed",
			"error", err,
			"action", rec.Action,
			"resource_id", rec.ResourceID,
		)
	}
}
