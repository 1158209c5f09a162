package universe

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresUniverse implements hpss.Universe over a hash-partitioned
// `icons` table: stratum is a physical column populated by the same
// hpss.Stratum function the core uses, so EnumerateStratum is a plain
// indexed scan rather than a full-table filter. This mirrors the
// original system's fused sampler-over-partitioned-storage design
// (spec §9), decomposed here so the sampling engine never speaks SQL
// directly.
type PostgresUniverse struct {
	pool *pgxpool.Pool
}

// NewPostgresUniverse wraps an existing connection pool. The pool is
// owned by the caller (typically the same pool backing internal/db) —
// this type never closes it.
func NewPostgresUniverse(pool *pgxpool.Pool) *PostgresUniverse {
	return &PostgresUniverse{pool: pool}
}

// Size returns the total row count of the icons table.
func (u *PostgresUniverse) Size(ctx context.Context) (uint64, error) {
	var count uint64
	err := u.pool.QueryRow(ctx, `SELECT COUNT(*) FROM icons`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("universe: size query failed: %w", err)
	}
	return count, nil
}

// EnumerateStratum returns every icon id physically stored under
// stratum p. The caller consumes the result once per (s, p)
// selection; nothing here is cached across calls, so a universe
// ingested or rewritten mid-generation would violate the "stable for
// the duration of one call" contract the core assumes (spec §3).
func (u *PostgresUniverse) EnumerateStratum(ctx context.Context, p int) ([]int64, error) {
	rows, err := u.pool.Query(ctx, `SELECT id FROM icons WHERE stratum = $1`, p)
	if err != nil {
		return nil, fmt.Errorf("universe: enumerate stratum %d failed: %w", p, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("universe: scan failed for stratum %d: %w", p, err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("universe: row iteration failed for stratum %d: %w", p, err)
	}
	return ids, nil
}
