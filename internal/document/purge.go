package document

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"docket/internal/audit"
	"docket/internal/blob"
	"docket/pkg/platform/sentinel"
	"docket/pkg/requestcontext"
)

var purgedDocuments = promauto.NewCounter(prometheus.CounterOpts{
	Name: "docket_documents_purged_total",
	Help: "Soft-deleted documents hard-removed by the purge sweep",
})

// DefaultSweepInterval is how often the sweeper looks for expired documents.
const DefaultSweepInterval = time.Hour

// Sweeper hard-removes documents whose retention window has elapsed: blob
// first, then metadata row and links. Each pass is idempotent; a blob that is
// already gone is not an error.
type Sweeper struct {
	store     Store
	blobs     blob.Store
	auditor   *audit.Publisher
	logger    *slog.Logger
	retention time.Duration
	interval  time.Duration
}

// NewSweeper constructs a purge sweeper. Zero retention and interval fall
// back to defaults.
func NewSweeper(store Store, blobs blob.Store, auditor *audit.Publisher, logger *slog.Logger, retention, interval time.Duration) *Sweeper {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Sweeper{
		store:     store,
		blobs:     blobs,
		auditor:   auditor,
		logger:    logger,
		retention: retention,
		interval:  interval,
	}
}

// Run sweeps on a fixed interval until the context is cancelled. One pass
// runs immediately on startup.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		if n, err := s.PurgeOnce(ctx); err != nil {
			s.logger.Error("purge sweep failed", slog.String("error", err.Error()))
		} else if n > 0 {
			s.logger.Info("purge sweep completed", slog.Int("purged", n))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// PurgeOnce removes every document whose delete timestamp is older than the
// retention window. A failure on one document does not stop the pass.
func (s *Sweeper) PurgeOnce(ctx context.Context) (int, error) {
	cutoff := requestcontext.Now(ctx).Add(-s.retention)
	expired, err := s.store.ListExpired(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	purged := 0
	for _, doc := range expired {
		if err := s.purgeOne(ctx, doc); err != nil {
			s.logger.Error("purge failed",
				slog.String("document_id", doc.ID.String()),
				slog.String("error", err.Error()))
			continue
		}
		purged++
	}
	return purged, nil
}

func (s *Sweeper) purgeOne(ctx context.Context, doc Document) error {
	if err := s.blobs.Delete(ctx, doc.BlobKey); err != nil {
		return err
	}
	if err := s.store.HardDelete(ctx, doc.ID); err != nil {
		// Gone already, or its delete timestamp was cleared after listing.
		// Either way there is nothing left to purge here.
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil
		}
		return err
	}

	purgedDocuments.Inc()
	if s.auditor != nil {
		s.auditor.Emit(ctx, audit.Record{
			Action:       audit.ActionDocumentPurge,
			ResourceType: "document",
			ResourceID:   doc.ID.String(),
			Outcome:      audit.OutcomeSuccess,
		})
	}
	return nil
}
