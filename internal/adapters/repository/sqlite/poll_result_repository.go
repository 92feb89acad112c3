package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type pollResultRepository struct {
	db *sql.DB
}

func NewPollResultRepository(db *sql.DB) ports.PollResultRepository {
	return &pollResultRepository{db: db}
}

func (r *pollResultRepository) SaveSnapshot(ctx context.Context, snapshot *domain.ResultsSnapshot) error {
	summary, err := json.Marshal(snapshot.Summary)
	if err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO poll_results (poll_id, summary, computed_at) VALUES (?, ?, ?)
		ON CONFLICT (poll_id) DO UPDATE
		SET summary = excluded.summary, computed_at = excluded.computed_at`,
		snapshot.Summary.PollID, string(summary), snapshot.ComputedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to save results snapshot for poll %s: %w", snapshot.Summary.PollID, err)
	}
	return nil
}

func (r *pollResultRepository) GetSnapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error) {
	var (
		summary    string
		computedAt int64
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT summary, computed_at FROM poll_results WHERE poll_id = ?`, pollID,
	).Scan(&summary, &computedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrResultsNotFound
		}
		return nil, fmt.Errorf("failed to get results snapshot: %w", err)
	}

	snapshot := domain.ResultsSnapshot{ComputedAt: time.UnixMicro(computedAt).UTC()}
	if err := json.Unmarshal([]byte(summary), &snapshot.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode summary: %w", err)
	}
	return &snapshot, nil
}
