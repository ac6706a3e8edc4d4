// Package database persists completed board results and move history
// to postgres.
package database

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"

	"github.com/akhtarshadab/bridge/internal/models"
)

// Store wraps a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
	log  *logrus.Entry
}

// New opens a connection pool and verifies connectivity.
func New(ctx context.Context, dsn string, logger *logrus.Logger) (*Store, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return &Store{pool: pool, log: logger.WithField("component", "database")}, nil
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	const schema = `
CREATE TABLE IF NOT EXISTS board_results (
	table_id     UUID        NOT NULL,
	board_number INT         NOT NULL,
	passed_out   BOOLEAN     NOT NULL,
	contract     TEXT        NOT NULL DEFAULT '',
	declarer     TEXT        NOT NULL DEFAULT '',
	tricks_won   INT         NOT NULL,
	score_ns     INT         NOT NULL,
	score_ew     INT         NOT NULL,
	completed_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (table_id, board_number)
);
CREATE TABLE IF NOT EXISTS board_actions (
	table_id     UUID        NOT NULL,
	board_number INT         NOT NULL,
	idx          INT         NOT NULL,
	seat         TEXT        NOT NULL,
	kind         TEXT        NOT NULL,
	value        TEXT        NOT NULL,
	at           TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (table_id, board_number, idx)
);`
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

// SaveBoardResult upserts one completed board's result.
func (s *Store) SaveBoardResult(ctx context.Context, r models.BoardResult) error {
	const q = `
INSERT INTO board_results
	(table_id, board_number, passed_out, contract, declarer, tricks_won, score_ns, score_ew, completed_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (table_id, board_number) DO UPDATE SET
	passed_out = EXCLUDED.passed_out,
	contract = EXCLUDED.contract,
	declarer = EXCLUDED.declarer,
	tricks_won = EXCLUDED.tricks_won,
	score_ns = EXCLUDED.score_ns,
	score_ew = EXCLUDED.score_ew,
	completed_at = EXCLUDED.completed_at`
	_, err := s.pool.Exec(ctx, q,
		r.TableID, int(r.BoardNumber), r.PassedOut, r.Contract, r.Declarer,
		int(r.TricksWon), r.ScoreNS, r.ScoreEW, r.CompletedAt)
	if err != nil {
		return fmt.Errorf("save board result %s/%d: %w", r.TableID, r.BoardNumber, err)
	}
	return nil
}

// SaveAction appends one move-history row.
func (s *Store) SaveAction(ctx context.Context, a models.ActionRecord) error {
	const q = `
INSERT INTO board_actions (table_id, board_number, idx, seat, kind, value, at)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT DO NOTHING`
	_, err := s.pool.Exec(ctx, q,
		a.TableID, int(a.BoardNumber), a.Index, a.Seat, a.Kind, a.Value, a.At)
	if err != nil {
		return fmt.Errorf("save action %s/%d/%d: %w", a.TableID, a.BoardNumber, a.Index, err)
	}
	return nil
}

// RecentResults returns the latest completed boards for a table.
func (s *Store) RecentResults(ctx context.Context, tableID uuid.UUID, limit int) ([]models.BoardResult, error) {
	const q = `
SELECT table_id, board_number, passed_out, contract, declarer, tricks_won, score_ns, score_ew, completed_at
FROM board_results
WHERE table_id = $1
ORDER BY board_number DESC
LIMIT $2`
	rows, err := s.pool.Query(ctx, q, tableID, limit)
	if err != nil {
		return nil, fmt.Errorf("query results for %s: %w", tableID, err)
	}
	defer rows.Close()

	var out []models.BoardResult
	for rows.Next() {
		var (
			r           models.BoardResult
			boardNumber int
			tricksWon   int
		)
		if err := rows.Scan(&r.TableID, &boardNumber, &r.PassedOut, &r.Contract,
			&r.Declarer, &tricksWon, &r.ScoreNS, &r.ScoreEW, &r.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		r.BoardNumber = uint16(boardNumber)
		r.TricksWon = uint8(tricksWon)
		out = append(out, r)
	}
	return out, rows.Err()
}

// Close releases the pool.
func (s *Store) Close() { s.pool.Close() }
