package audit

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"docket/pkg/requestcontext"
)

// Publisher is the write side of the audit trail. Emission is fire-and-forget:
// a record that cannot be persisted is logged and dropped, never allowed to
// fail or block the operation that produced it.
type Publisher struct {
	store  Store
	logger *slog.Logger
	// inbox, when set, decouples emission from persistence; a Worker drains it.
	inbox chan<- Record
}

// Option configures a Publisher.
type Option func(*Publisher)

// WithInbox routes records through a bounded channel instead of writing
// synchronously. Pair with a Worker draining the same channel.
func WithInbox(inbox chan<- Record) Option {
	return func(p *Publisher) {
		p.inbox = inbox
	}
}

// NewPublisher constructs a synchronous best-effort publisher.
func NewPublisher(store Store, logger *slog.Logger, opts ...Option) *Publisher {
	p := &Publisher{store: store, logger: logger}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

// Emit records an audit event. Missing ID, timestamp, request ID and IP hash
// are filled from the context. Never returns an error.
func (p *Publisher) Emit(ctx context.Context, rec Record) {
	if rec.ID == uuid.Nil {
		rec.ID = NewID()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = requestcontext.Now(ctx)
	}
	if rec.RequestID == "" {
		rec.RequestID = requestcontext.RequestID(ctx)
	}
	if rec.ActorIPHash == "" {
		rec.ActorIPHash = HashIP(requestcontext.ClientIP(ctx))
	}

	if p.inbox != nil {
		select {
		case p.inbox <- rec:
		default:
			p.logger.Error("audit inbox full, dropping record",
				"action", rec.Action,
				"resource_id", rec.ResourceID,
				"request_id", rec.RequestID,
			)
		}
		return
	}

	if err := p.store.Append(ctx, rec); err != nil {
		p.logger.Error("audit append failed",
			"error", err,
			"action", rec.Action,
			"resource_id", rec.ResourceID,
			"request_id", rec.RequestID,
		)
	}
}
