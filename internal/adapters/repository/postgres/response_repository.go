package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type responseRepository struct {
	db *sql.DB
}

func NewResponseRepository(db *sql.DB) ports.ResponseRepository {
	return &responseRepository{
		db: db,
	}
}

func (r *responseRepository) Save(ctx context.Context, response *domain.Response) error {
	answers, err := json.Marshal(response.Answers)
	if err != nil {
		return fmt.Errorf("failed to encode answers: %w", err)
	}

	query := `
		INSERT INTO responses (id, poll_id, respondent_name, answers, submitted_at)
		VALUES ($1, $2, $3, $4, $5);
	`
	_, err = r.db.ExecContext(ctx, query, response.ID, response.PollID, response.RespondentName, answers, response.SubmittedAt)
	if err != nil {
		return fmt.Errorf("failed to save response: %w", err)
	}
	return nil
}

func (r *responseRepository) ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error) {
	query := `
		SELECT id, poll_id, respondent_name, answers, submitted_at
		FROM responses
		WHERE poll_id = $1
		ORDER BY seq
	`
	rows, err := r.db.QueryContext(ctx, query, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses: %w", err)
	}
	defer rows.Close()

	responses := []domain.Response{}
	for rows.Next() {
		var (
			resp    domain.Response
			answers []byte
		)
		if err := rows.Scan(&resp.ID, &resp.PollID, &resp.RespondentName, &answers, &resp.SubmittedAt); err != nil {
			return nil, fmt.Errorf("failed to scan response: %w", err)
		}
		if err := json.Unmarshal(answers, &resp.Answers); err != nil {
			return nil, fmt.Errorf("failed to decode answers of response %s: %w", resp.ID, err)
		}
		responses = append(responses, resp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating responses: %w", err)
	}
	return responses, nil
}
