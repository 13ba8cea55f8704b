package repo

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"colorizer/internal/domain"
)

// HistoryRepositoryPG implements domain.HistoryRepository.
type HistoryRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewHistoryRepository creates a history repository backed by PostgreSQL.
func NewHistoryRepository(pool *pgxpool.Pool) *HistoryRepositoryPG {
	return &HistoryRepositoryPG{pool: pool}
}

// EnsureSchema creates the colorizations table when it does not exist yet.
func (r *HistoryRepositoryPG) EnsureSchema(ctx context.Context) error {
	query := `
CREATE TABLE IF NOT EXISTS colorizations (
	id UUID PRIMARY KEY,
	session_id UUID NOT NULL,
	provider TEXT NOT NULL,
	prompt TEXT NOT NULL,
	outcome TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	elapsed_ms BIGINT NOT NULL DEFAULT 0,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);
CREATE INDEX IF NOT EXISTS colorizations_created_at_idx ON colorizations (created_at DESC);
`
	_, err := r.pool.Exec(ctx, query)
	return err
}

// Record inserts one colorization attempt.
func (r *HistoryRepositoryPG) Record(ctx context.Context, attempt *domain.Colorization) error {
	if strings.TrimSpace(attempt.ID) == "" {
		attempt.ID = uuid.NewString()
	}
	query := `
INSERT INTO colorizations (id, session_id, provider, prompt, outcome, error_message, elapsed_ms)
VALUES ($1, $2, $3, $4, $5, $6, $7);
`
	_, err := r.pool.Exec(ctx, query,
		attempt.ID,
		attempt.SessionID,
		attempt.Provider,
		attempt.Prompt,
		attempt.Outcome,
		attempt.Error,
		attempt.ElapsedMS,
	)
	return err
}

// Recent lists the most recent colorization attempts.
func (r *HistoryRepositoryPG) Recent(ctx context.Context, limit int) ([]domain.Colorization, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `
SELECT id, session_id, provider, prompt, outcome, error_message, elapsed_ms, created_at
FROM colorizations
ORDER BY created_at DESC
LIMIT $1;
`
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []domain.Colorization
	for rows.Next() {
		var item domain.Colorization
		if err := rows.Scan(
			&item.ID,
			&item.SessionID,
			&item.Provider,
			&item.Prompt,
			&item.Outcome,
			&item.Error,
			&item.ElapsedMS,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

var _ domain.HistoryRepository = (*HistoryRepositoryPG)(nil)
