package document

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store is the relational persistence boundary for document metadata.
//
// Error contract: GetByID returns sentinel.ErrNotFound (wrapped) when no row
// exists; the same applies to Update/SoftDelete/HardDelete when the target
// row is missing or not in the required state. Everything else is an
// infrastructure failure the service maps to CodeStorageUnavailable.
type Store interface {
	// Create inserts the metadata row and all jurisdiction links as one
	// atomic unit. Either everything lands or nothing does.
	Create(ctx context.Context, doc *Document, jurisdictionIDs []uuid.UUID) error

	// GetByID returns the row regardless of soft-delete state; visibility
	// rules belong to the service.
	GetByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// LinkIDs returns the jurisdiction IDs linked to a document, in the
	// order they were created.
	LinkIDs(ctx context.Context, docID uuid.UUID) ([]uuid.UUID, error)

	// Update persists title, description, tags, and updated_at.
	Update(ctx context.Context, doc *Document) error

	// SoftDelete stamps deleted_at on a live row. A row that is already
	// soft-deleted reports sentinel.ErrNotFound.
	SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error

	// ListByOwner returns the owner's live documents, newest first.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Document, error)

	// ListExpired returns soft-deleted documents whose deleted_at is at or
	// before cutoff, ready for the purge sweep.
	ListExpired(ctx context.Context, cutoff time.Time) ([]Document, error)

	// HardDelete removes the row and its links. It only touches rows that
	// are still soft-deleted, so a cleared delete timestamp is never purged;
	// a row in any other state reports sentinel.ErrNotFound.
	HardDelete(ctx context.Context, id uuid.UUID) error
}
