package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{
		db: db,
	}
}

func (r *pollResultRepository) SaveSnapshot(ctx context.Context, snapshot *domain.ResultsSnapshot) error {
	summary, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	query := `
		INSERT INTO poll_results (poll_id, summary, computed_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (poll_id) DO UPDATE
		SET summary = EXCLUDED.summary,
		    computed_at = EXCLUDED.computed_at;
	`
	_, err = r.db.ExecContext(ctx, query, snapshot.Summary.PollID, summary, snapshot.ComputedAt)
	if err != nil {
		return fmt.Errorf("failed to save results snapshot for poll %s: %w", snapshot.Summary.PollID, err)
	}

	return nil
}

func (r *pollResultRepository) GetSnapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error) {
	query := `
		SELECT summary, computed_at
		FROM poll_results
		WHERE poll_id = $1
	`

	var (
		snapshot domain.ResultsSnapshot
		summary  []byte
	)
	err := r.db.QueryRowContext(ctx, query, pollID).Scan(&summary, &snapshot.ComputedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultsNotFound
		}
		return nil, fmt.Errorf("failed to get results snapshot: %w", err)
	}

	if err := json.Unmarshal(summary, &snapshot.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &snapshot, nil
}
