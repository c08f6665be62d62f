package document

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"docket/pkg/platform/sentinel"
)

// PostgresStore persists document metadata and jurisdiction links in
// PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed document store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const documentColumns = `
	id, owner_id, title, description, tags, kind, size, filename,
	content_text, blob_key, created_at, updated_at, deleted_at`

// Create writes the row and its links in one transaction so a stored
// document can never be seen with a partial link set.
func (s *PostgresStore) Create(ctx context.Context, doc *Document, jurisdictionIDs []uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin create document: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (`+documentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		doc.ID, doc.OwnerID, doc.Title, doc.Description, doc.Tags, doc.Kind,
		doc.Size, doc.Filename, doc.ContentText, doc.BlobKey,
		doc.CreatedAt, doc.UpdatedAt, doc.DeletedAt,
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}

	for i, jid := range jurisdictionIDs {
		_, err = tx.Exec(ctx, `
			INSERT INTO document_jurisdictions (document_id, jurisdiction_id, position)
			VALUES ($1, $2, $3)`,
			doc.ID, jid, i,
		)
		if err != nil {
			return fmt.Errorf("insert jurisdiction link: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit create document: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := s.pool.QueryRow(ctx, `
		SELECT `+documentColumns+`
		FROM documents WHERE id = $1`, id)
	doc, err := scanDocument(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

func (s *PostgresStore) LinkIDs(ctx context.Context, docID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT jurisdiction_id FROM document_jurisdictions
		WHERE document_id = $1 ORDER BY position`, docID)
	if err != nil {
		return nil, fmt.Errorf("list jurisdiction links: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan jurisdiction link: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *PostgresStore) Update(ctx context.Context, doc *Document) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents
		SET title = $2, description = $3, tags = $4, updated_at = $5
		WHERE id = $1 AND deleted_at IS NULL`,
		doc.ID, doc.Title, doc.Description, doc.Tags, doc.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) SoftDelete(ctx context.Context, id uuid.UUID, at time.Time) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE documents SET deleted_at = $2, updated_at = $2
		WHERE id = $1 AND deleted_at IS NULL`,
		id, at,
	)
	if err != nil {
		return fmt.Errorf("soft delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE owner_id = $1 AND deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`,
		ownerID, limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

func (s *PostgresStore) ListExpired(ctx context.Context, cutoff time.Time) ([]Document, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+documentColumns+`
		FROM documents
		WHERE deleted_at IS NOT NULL AND deleted_at <= $1
		ORDER BY deleted_at`,
		cutoff,
	)
	if err != nil {
		return nil, fmt.Errorf("list expired documents: %w", err)
	}
	defer rows.Close()
	return scanDocuments(rows)
}

// HardDelete removes links and row together. The deleted_at guard means a
// row whose delete timestamp was cleared in the meantime is left alone.
func (s *PostgresStore) HardDelete(ctx context.Context, id uuid.UUID) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin hard delete: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `
		DELETE FROM document_jurisdictions WHERE document_id = $1`, id); err != nil {
		return fmt.Errorf("delete jurisdiction links: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		DELETE FROM documents WHERE id = $1 AND deleted_at IS NOT NULL`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, sentinel.ErrNotFound)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit hard delete: %w", err)
	}
	return nil
}

func scanDocument(row pgx.Row) (*Document, error) {
	var d Document
	err := row.Scan(
		&d.ID, &d.OwnerID, &d.Title, &d.Description, &d.Tags, &d.Kind,
		&d.Size, &d.Filename, &d.ContentText, &d.BlobKey,
		&d.CreatedAt, &d.UpdatedAt, &d.DeletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func scanDocuments(rows pgx.Rows) ([]Document, error) {
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, *doc)
	}
	return out, rows.Err()
}
