package audit

import (
	"context"

	"github.com/google/uuid"
)

// Store persists audit records. Implementations expose creation and reads
// only; the audit trail is never mutated by the application.
type Store interface {
	Append(ctx context.Context, rec Record) error
	// ListByActor returns records for one actor, newest first, for diagnostics.
	ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]Record, error)
}
