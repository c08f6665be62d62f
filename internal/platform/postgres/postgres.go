// Package postgres owns the connection pool and schema bootstrap.
package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// SchemaSQL defines the database structure. Idempotent; applied at startup.
const SchemaSQL = `
CREATE TABLE IF NOT EXISTS users (
    id            UUID PRIMARY KEY,
    email         TEXT NOT NULL UNIQUE,
    name          TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS jurisdictions (
    id           UUID PRIMARY KEY,
    code         TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL,
    level        TEXT NOT NULL,
    legal_system TEXT NOT NULL,
    parent_id    UUID REFERENCES jurisdictions(id)
);

CREATE TABLE IF NOT EXISTS documents (
    id           UUID PRIMARY KEY,
    owner_id     UUID NOT NULL REFERENCES users(id),
    title        TEXT NOT NULL,
    description  TEXT NOT NULL DEFAULT '',
    tags         TEXT[] NOT NULL DEFAULT '{}',
    kind         TEXT NOT NULL,
    size         BIGINT NOT NULL,
    filename     TEXT NOT NULL,
    content_text TEXT,
    blob_key     TEXT NOT NULL UNIQUE,
    created_at   TIMESTAMPTZ NOT NULL,
    updated_at   TIMESTAMPTZ NOT NULL,
    deleted_at   TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_documents_owner_live
    ON documents (owner_id, created_at DESC) WHERE deleted_at IS NULL;
CREATE INDEX IF NOT EXISTS idx_documents_deleted
    ON documents (deleted_at) WHERE deleted_at IS NOT NULL;

CREATE TABLE IF NOT EXISTS document_jurisdictions (
    document_id     UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    jurisdiction_id UUID NOT NULL REFERENCES jurisdictions(id),
    position        INT NOT NULL,
    PRIMARY KEY (document_id, jurisdiction_id)
);

CREATE TABLE IF NOT EXISTS audit_records (
    id            UUID PRIMARY KEY,
    ts            TIMESTAMPTZ NOT NULL,
    actor_id      UUID,
    actor_ip_hash TEXT NOT NULL DEFAULT '',
    action        TEXT NOT NULL,
    resource_type TEXT NOT NULL,
    resource_id   TEXT NOT NULL,
    changes       JSONB,
    request_id    TEXT NOT NULL DEFAULT '',
    outcome       TEXT NOT NULL,
    failure_reason TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_actor ON audit_records (actor_id, ts DESC);
`

// Connect opens the pool, verifies the connection, and applies the schema.
func Connect(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("postgres ping failed: %w", err)
	}
	if _, err := pool.Exec(ctx, SchemaSQL); err != nil {
		pool.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return pool, nil
}
