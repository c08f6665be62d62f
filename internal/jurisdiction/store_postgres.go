package jurisdiction

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore reads jurisdiction reference data from PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore constructs a PostgreSQL-backed jurisdiction store.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Node, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, code, name, level, legal_system, parent_id
		FROM jurisdictions
		ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list jurisdictions: %w", err)
	}
	defer rows.Close()

	var nodes []Node
	for rows.Next() {
		var (
			n      Node
			level  string
			system string
		)
		if err := rows.Scan(&n.ID, &n.Code, &n.Name, &level, &system, &n.ParentID); err != nil {
			return nil, fmt.Errorf("scan jurisdiction: %w", err)
		}
		n.Level = Level(level)
		n.LegalSystem = LegalSystem(system)
		nodes = append(nodes, n)
	}
	return nodes, rows.Err()
}

// Seed inserts the reference set in one transaction. Conflicting codes are
// left untouched so re-running the seed is safe.
func (s *PostgresStore) Seed(ctx context.Context, nodes []Node) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, n := range nodes {
		_, err := tx.Exec(ctx, `
			INSERT INTO jurisdictions (id, code, name, level, legal_system, parent_id)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (code) DO NOTHING`,
			n.ID, n.Code, n.Name, string(n.Level), string(n.LegalSystem), n.ParentID,
		)
		if err != nil {
			return fmt.Errorf("seed jurisdiction %s: %w", n.Code, err)
		}
	}
	return tx.Commit(ctx)
}
