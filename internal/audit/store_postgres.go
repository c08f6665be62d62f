package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore persists audit records in PostgreSQL. The table grants the
// application INSERT and SELECT only; retention is an operational concern.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed audit store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) Append(ctx context.Context, rec Record) error {
	var changes []byte
	if len(rec.Changes) > 0 {
		var err error
		changes, err = json.Marshal(rec.Changes)
		if err != nil {
			return fmt.Errorf("marshal audit changes: %w", err)
		}
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_records
			(id, ts, actor_id, actor_ip_hash, action, resource_type, resource_id,
			 changes, request_id, outcome, failure_reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.Timestamp, rec.ActorID, rec.ActorIPHash, string(rec.Action),
		rec.ResourceType, rec.ResourceID, changes, rec.RequestID,
		string(rec.Outcome), nullIfEmpty(rec.FailureReason),
	)
	if err != nil {
		return fmt.Errorf("append audit record: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListByActor(ctx context.Context, actorID uuid.UUID, limit int) ([]Record, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
		SELECT id, ts, actor_id, actor_ip_hash, action, resource_type, resource_id,
		       changes, request_id, outcome, COALESCE(failure_reason, '')
		FROM audit_records
		WHERE actor_id = $1
		ORDER BY id DESC
		LIMIT $2`,
		actorID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			rec     Record
			action  string
			outcome string
			changes []byte
		)
		if err := rows.Scan(&rec.ID, &rec.Timestamp, &rec.ActorID, &rec.ActorIPHash,
			&action, &rec.ResourceType, &rec.ResourceID, &changes,
			&rec.RequestID, &outcome, &rec.FailureReason); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		rec.Action = Action(action)
		rec.Outcome = Outcome(outcome)
		if len(changes) > 0 {
			if err := json.Unmarshal(changes, &rec.Changes); err != nil {
				return nil, fmt.Errorf("unmarshal audit changes: %w", err)
			}
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
