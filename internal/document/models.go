// Package document is the ingestion and lifecycle core: upload, metadata
// update, soft delete, download, and the retention-window purge sweep.
package document

import (
	"time"

	"github.com/google/uuid"

	"docket/internal/filevalidate"
)

const (
	// MaxTags caps the tag list per document.
	MaxTags = 20
	// MaxTagLen caps a single tag, in characters.
	MaxTagLen = 50
	// MaxJurisdictionRefs caps the jurisdiction links per document.
	MaxJurisdictionRefs = 50

	// DefaultRetention is how long a soft-deleted document's blob and row
	// survive before the purge sweep removes them.
	DefaultRetention = 30 * 24 * time.Hour
)

// Document is the metadata row for one stored file. The bytes themselves live
// in the blob store under BlobKey.
//
// A non-nil DeletedAt excludes the document from every normal read path; the
// blob stays in place until the retention window elapses and the purge sweep
// removes both.
type Document struct {
	ID          uuid.UUID         `json:"id"`
	OwnerID     uuid.UUID         `json:"owner_id"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Kind        filevalidate.Kind `json:"kind"`
	Size        int64             `json:"size"`
	// Filename is the sanitized original name, kept for display and the
	// download Content-Disposition header. Never used to locate the blob.
	Filename string `json:"filename"`
	// ContentText holds the decoded body for plain-text uploads. Nil for PDFs.
	ContentText *string `json:"content_text,omitempty"`
	BlobKey     string  `json:"-"`
	// JurisdictionIDs are the linked jurisdiction references, populated on
	// single-document reads.
	JurisdictionIDs []uuid.UUID `json:"jurisdiction_ids,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
	DeletedAt       *time.Time  `json:"-"`
}

// Deleted reports whether the document has been soft-deleted.
func (d *Document) Deleted() bool {
	return d.DeletedAt != nil
}
