package document

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docket/internal/audit"
	"docket/internal/blob"
	"docket/internal/filevalidate"
	"docket/internal/jurisdiction"
	dErrors "docket/pkg/domain-errors"
	"docket/pkg/platform/sentinel"
	pkgstrings "docket/pkg/platform/strings"
	"docket/pkg/requestcontext"
)

var (
	uploadsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docket_document_uploads_accepted_total",
		Help: "Document uploads that reached Stored",
	})
	uploadsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "docket_document_uploads_rejected_total",
		Help: "Document uploads rejected before storage, by reason",
	}, []string{"reason"})
	orphanBlobDeletes = promauto.NewCounter(prometheus.CounterOpts{
		Name: "docket_document_orphan_blob_deletes_total",
		Help: "Compensating blob deletes after a failed metadata write",
	})
)

// Resolver validates jurisdiction references. Satisfied by
// *jurisdiction.Service.
type Resolver interface {
	ResolveMany(ctx context.Context, ids []uuid.UUID) ([]jurisdiction.Node, error)
}

// Service orchestrates the document lifecycle:
// Uploading -> Stored -> (SoftDeleted -> Purged).
type Service struct {
	store    Store
	blobs    blob.Store
	resolver Resolver
	auditor  *audit.Publisher
	logger   *slog.Logger
	maxBytes int64
}

// NewService constructs the ingestion and lifecycle manager. maxBytes caps
// upload size.
func NewService(store Store, blobs blob.Store, resolver Resolver, auditor *audit.Publisher, logger *slog.Logger, maxBytes int64) *Service {
	return &Service{
		store:    store,
		blobs:    blobs,
		resolver: resolver,
		auditor:  auditor,
		logger:   logger,
		maxBytes: maxBytes,
	}
}

// UploadInput carries everything the caller declares about a new document.
// The owner comes from the request context, never from the payload.
type UploadInput struct {
	Title           string
	Description     string
	Tags            []string
	JurisdictionIDs []uuid.UUID
	Filename        string
	Raw             []byte
}

// Upload validates, stores, and records a new document. Ordering matters:
// nothing is written before validation passes, and a metadata failure after
// the blob write deletes the blob so no orphan survives.
func (s *Service) Upload(ctx context.Context, in UploadInput) (*Document, error) {
	ownerID := requestcontext.UserID(ctx)
	if ownerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	if int64(len(in.Raw)) > s.maxBytes {
		uploadsRejected.WithLabelValues("too_large").Inc()
		return nil, dErrors.Newf(dErrors.CodeFileTooLarge,
			"file exceeds the %d byte limit", s.maxBytes).
			WithMeta("max_bytes", s.maxBytes)
	}

	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "title is required")
	}
	tags, err := normalizeTags(in.Tags)
	if err != nil {
		return nil, err
	}
	if len(in.JurisdictionIDs) == 0 {
		return nil, dErrors.New(dErrors.CodeBadRequest, "at least one jurisdiction is required")
	}
	if len(in.JurisdictionIDs) > MaxJurisdictionRefs {
		return nil, dErrors.Newf(dErrors.CodeBadRequest,
			"at most %d jurisdictions per document", MaxJurisdictionRefs)
	}

	kind, _, err := filevalidate.Validate(in.Raw, in.Filename)
	if err != nil {
		uploadsRejected.WithLabelValues("unsupported_type").Inc()
		return nil, err
	}

	nodes, err := s.resolver.ResolveMany(ctx, in.JurisdictionIDs)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeInvalidJurisdiction) {
			uploadsRejected.WithLabelValues("invalid_jurisdiction").Inc()
		}
		return nil, err
	}
	linkIDs := make([]uuid.UUID, len(nodes))
	for i, n := range nodes {
		linkIDs[i] = n.ID
	}

	now := requestcontext.Now(ctx)
	doc := &Document{
		ID:              uuid.New(),
		OwnerID:         ownerID,
		Title:           title,
		Description:     strings.TrimSpace(in.Description),
		Tags:            tags,
		Kind:            kind,
		Size:            int64(len(in.Raw)),
		Filename:        filevalidate.SanitizeFilename(in.Filename),
		BlobKey:         uuid.New().String() + kind.Extension(),
		JurisdictionIDs: linkIDs,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if kind == filevalidate.KindText && utf8.Valid(in.Raw) {
		body := string(in.Raw)
		doc.ContentText = &body
	}

	if err := s.blobs.Put(ctx, doc.BlobKey, in.Raw, kind.ContentType()); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "blob store unavailable")
	}

	if err := s.store.Create(ctx, doc, linkIDs); err != nil {
		// The blob landed but the metadata did not. Delete the blob so it
		// can never be reached through normal queries.
		orphanBlobDeletes.Inc()
		if delErr := s.blobs.Delete(ctx, doc.BlobKey); delErr != nil {
			s.logger.Error("orphan blob cleanup failed",
				slog.String("blob_key", doc.BlobKey),
				slog.String("error", delErr.Error()))
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}

	uploadsAccepted.Inc()
	s.emit(ctx, audit.Record{
		ActorID:      &ownerID,
		Action:       audit.ActionDocumentUpload,
		ResourceType: "document",
		ResourceID:   doc.ID.String(),
		Outcome:      audit.OutcomeSuccess,
		Changes: []audit.Change{
			{Field: "title", New: doc.Title},
			{Field: "kind", New: string(doc.Kind)},
			{Field: "size", New: doc.Size},
			{Field: "jurisdiction_ids", New: uuidStrings(linkIDs)},
		},
	})
	return doc, nil
}

// Get returns one of the caller's live documents with its jurisdiction links.
// Soft-deleted and other owners' documents both come back as not found.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc, err := s.visibleOwned(ctx, id)
	if err != nil {
		return nil, err
	}
	links, err := s.store.LinkIDs(ctx, doc.ID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}
	doc.JurisdictionIDs = links
	return doc, nil
}

// List returns the caller's live documents, newest first.
func (s *Service) List(ctx context.Context, limit, offset int) ([]Document, error) {
	ownerID := requestcontext.UserID(ctx)
	if ownerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	docs, err := s.store.ListByOwner(ctx, ownerID, limit, offset)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}
	return docs, nil
}

// UpdateInput carries the mutable metadata fields. Nil means leave the field
// as it is.
type UpdateInput struct {
	Title       *string
	Description *string
	Tags        []string
}

// Update applies a metadata change under last-writer-wins semantics. A no-op
// update performs no write and emits no audit record.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (*Document, error) {
	doc, err := s.visibleOwned(ctx, id)
	if err != nil {
		return nil, err
	}

	var changes []audit.Change
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		if title == "" {
			return nil, dErrors.New(dErrors.CodeBadRequest, "title cannot be empty")
		}
		if title != doc.Title {
			changes = append(changes, audit.Change{Field: "title", Old: doc.Title, New: title})
			doc.Title = title
		}
	}
	if in.Description != nil {
		desc := strings.TrimSpace(*in.Description)
		if desc != doc.Description {
			changes = append(changes, audit.Change{Field: "description", Old: doc.Description, New: desc})
			doc.Description = desc
		}
	}
	if in.Tags != nil {
		tags, err := normalizeTags(in.Tags)
		if err != nil {
			return nil, err
		}
		if !slices.Equal(tags, doc.Tags) {
			changes = append(changes, audit.Change{Field: "tags", Old: doc.Tags, New: tags})
			doc.Tags = tags
		}
	}

	if len(changes) == 0 {
		return doc, nil
	}

	doc.UpdatedAt = requestcontext.Now(ctx)
	if err := s.store.Update(ctx, doc); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}

	ownerID := doc.OwnerID
	s.emit(ctx, audit.Record{
		ActorID:      &ownerID,
		Action:       audit.ActionDocumentUpdate,
		ResourceType: "document",
		ResourceID:   doc.ID.String(),
		Outcome:      audit.OutcomeSuccess,
		Changes:      changes,
	})
	return doc, nil
}

// SoftDelete marks a document deleted. The blob stays until the retention
// window elapses and the purge sweep removes both.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	doc, err := s.visibleOwned(ctx, id)
	if err != nil {
		return err
	}

	now := requestcontext.Now(ctx)
	if err := s.store.SoftDelete(ctx, doc.ID, now); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}

	ownerID := doc.OwnerID
	s.emit(ctx, audit.Record{
		ActorID:      &ownerID,
		Action:       audit.ActionDocumentDelete,
		ResourceType: "document",
		ResourceID:   doc.ID.String(),
		Outcome:      audit.OutcomeSuccess,
	})
	return nil
}

// Download opens the blob stream for one of the caller's documents. The
// served content type comes from the detected kind, never from what the
// client claimed at upload. The audit record covers authorization and
// initiation; a stream that fails mid-transfer is not re-audited.
func (s *Service) Download(ctx context.Context, id uuid.UUID) (io.ReadCloser, *Document, error) {
	doc, err := s.visibleOwned(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	ownerID := doc.OwnerID
	rc, err := s.blobs.Get(ctx, doc.BlobKey)
	if err != nil {
		s.emit(ctx, audit.Record{
			ActorID:       &ownerID,
			Action:        audit.ActionDocumentDownload,
			ResourceType:  "document",
			ResourceID:    doc.ID.String(),
			Outcome:       audit.OutcomeFailure,
			FailureReason: "blob unavailable",
		})
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document blob missing")
		}
		return nil, nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "blob store unavailable")
	}

	s.emit(ctx, audit.Record{
		ActorID:      &ownerID,
		Action:       audit.ActionDocumentDownload,
		ResourceType: "document",
		ResourceID:   doc.ID.String(),
		Outcome:      audit.OutcomeSuccess,
	})
	return rc, doc, nil
}

// visibleOwned loads a document and applies the visibility rules: missing,
// soft-deleted, and cross-owner all report not found, so a caller cannot
// probe for the existence of someone else's documents.
func (s *Service) visibleOwned(ctx context.Context, id uuid.UUID) (*Document, error) {
	ownerID := requestcontext.UserID(ctx)
	if ownerID == uuid.Nil {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "authentication required")
	}

	doc, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
		}
		return nil, dErrors.Wrap(err, dErrors.CodeStorageUnavailable, "document store unavailable")
	}
	if doc.Deleted() || doc.OwnerID != ownerID {
		return nil, dErrors.New(dErrors.CodeNotFound, "document not found")
	}
	return doc, nil
}

func (s *Service) emit(ctx context.Context, rec audit.Record) {
	if s.auditor != nil {
		s.auditor.Emit(ctx, rec)
	}
}

func normalizeTags(tags []string) ([]string, error) {
	tags = pkgstrings.DedupeAndTrim(tags)
	if len(tags) > MaxTags {
		return nil, dErrors.Newf(dErrors.CodeBadRequest, "at most %d tags per document", MaxTags)
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > MaxTagLen {
			return nil, dErrors.Newf(dErrors.CodeBadRequest,
				"tag %q exceeds %d characters", t, MaxTagLen)
		}
	}
	return tags, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
