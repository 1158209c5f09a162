package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rawblock/icon-set-generator/internal/hpss"
)

// PostgresStore persists generation requests and their resulting
// output sets. It also exposes its pool so internal/universe can read
// the same icons table the sampler draws from.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// Connect initializes the connection pool to PostgreSQL using pgx
func Connect(connStr string) (*PostgresStore, error) {
	pool, err := pgxpool.New(context.Background(), connStr)
	if err != nil {
		return nil, fmt.Errorf("unable to connect to database: %v", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("ping failed: %v", err)
	}

	log.Println("Successfully connected to PostgreSQL for the icon-set generation engine")
	return &PostgresStore{pool: pool}, nil
}

// Close gracefully closes the connection pool
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

// InitSchema loads and executes the schema.sql file
func (s *PostgresStore) InitSchema() error {
	schemaBytes, err := os.ReadFile("internal/db/schema.sql")
	if err != nil {
		return fmt.Errorf("failed to read schema file: %v", err)
	}

	_, err = s.pool.Exec(context.Background(), string(schemaBytes))
	if err != nil {
		return fmt.Errorf("failed to execute schema migrations: %v", err)
	}

	log.Println("Icon-set generation schema initialized")
	return nil
}

// GetPool exposes the connection pool so internal/universe can read
// the icons table directly.
func (s *PostgresStore) GetPool() *pgxpool.Pool {
	return s.pool
}

// SaveGenerationResult persists a feasible generation request together
// with all of its output sets in a single transaction: (requestId,
// setIndex, itemIds[], createdAt) with uniqueness on
// (requestId, setIndex), as spec.md §6 requires of the persistence
// layer surrounding the core.
func (s *PostgresStore) SaveGenerationResult(ctx context.Context, requestID string, n, m int, t float64, verdict hpss.Verdict, executionTimeMs int64, sets []hpss.OutputSet) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	insertRequestSQL := `
		INSERT INTO generation_requests
		(request_id, num_sets, items_per_set, overlap_threshold, feasible, recommendation, execution_time_ms)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (request_id) DO NOTHING;
	`
	_, err = tx.Exec(ctx, insertRequestSQL, requestID, n, m, t, verdict.Feasible, verdict.Recommendation, executionTimeMs)
	if err != nil {
		return fmt.Errorf("failed to insert generation_requests: %v", err)
	}

	insertSetSQL := `
		INSERT INTO generation_sets (request_id, set_index, item_ids)
		VALUES ($1, $2, $3)
		ON CONFLICT (request_id, set_index) DO UPDATE
		SET item_ids = EXCLUDED.item_ids;
	`
	for _, set := range sets {
		_, err = tx.Exec(ctx, insertSetSQL, requestID, set.Index, set.Items)
		if err != nil {
			return fmt.Errorf("failed to insert generation_sets row for set %d: %v", set.Index, err)
		}
	}

	return tx.Commit(ctx)
}

// GeneratedSet mirrors one row of generation_sets for API responses.
type GeneratedSet struct {
	SetIndex int     `json:"setIndex"`
	ItemIDs  []int64 `json:"itemIds"`
}

// GetGenerationSets replays the persisted output sets for a prior
// request, ordered ascending by set index (spec §3 invariant I3/P5).
func (s *PostgresStore) GetGenerationSets(ctx context.Context, requestID string) ([]GeneratedSet, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT set_index, item_ids FROM generation_sets
		WHERE request_id = $1
		ORDER BY set_index ASC
	`, requestID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sets []GeneratedSet
	for rows.Next() {
		var gs GeneratedSet
		if err := rows.Scan(&gs.SetIndex, &gs.ItemIDs); err != nil {
			return nil, err
		}
		sets = append(sets, gs)
	}
	return sets, rows.Err()
}

// GenerationRequestInfo mirrors one row of generation_requests.
type GenerationRequestInfo struct {
	RequestID       string  `json:"requestId"`
	NumSets         int     `json:"numSets"`
	ItemsPerSet     int     `json:"itemsPerSet"`
	OverlapThresh   float64 `json:"overlapThreshold"`
	Feasible        bool    `json:"feasible"`
	Recommendation  string  `json:"recommendation"`
	ExecutionTimeMs int64   `json:"executionTimeMs"`
}

// GetGenerationRequest fetches the stored metadata for a prior request.
func (s *PostgresStore) GetGenerationRequest(ctx context.Context, requestID string) (*GenerationRequestInfo, error) {
	var info GenerationRequestInfo
	err := s.pool.QueryRow(ctx, `
		SELECT request_id, num_sets, items_per_set, overlap_threshold, feasible, recommendation, execution_time_ms
		FROM generation_requests WHERE request_id = $1
	`, requestID).Scan(&info.RequestID, &info.NumSets, &info.ItemsPerSet, &info.OverlapThresh,
		&info.Feasible, &info.Recommendation, &info.ExecutionTimeMs)
	if err != nil {
		return nil, err
	}
	return &info, nil
}

// SeedIcons inserts icon identifiers into the partitioned icons table,
// computing each row's stratum with hpss.Stratum so storage and the
// Partition Oracle never disagree. This is the external universe
// ingestion path the core itself does not implement (spec §1).
func (s *PostgresStore) SeedIcons(ctx context.Context, ids []int64) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, id := range ids {
		_, err := tx.Exec(ctx, `
			INSERT INTO icons (id, stratum) VALUES ($1, $2)
			ON CONFLICT (id) DO UPDATE SET stratum = EXCLUDED.stratum;
		`, id, hpss.Stratum(id))
		if err != nil {
			return fmt.Errorf("failed to seed icon %d: %v", id, err)
		}
	}

	return tx.Commit(ctx)
}
