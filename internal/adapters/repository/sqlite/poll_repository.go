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

type pollRepository struct {
	db *sql.DB
}

func NewPollRepository(db *sql.DB) ports.PollRepository {
	return &pollRepository{db: db}
}

func (r *pollRepository) Save(ctx context.Context, poll *domain.Poll) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO polls (id, title, description, active, created_at) VALUES (?, ?, ?, ?, ?)`,
		poll.ID, poll.Title, poll.Description, poll.Active, poll.CreatedAt.UnixMicro(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert poll: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO poll_questions (poll_id, position, text, type, options) VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare question statement: %w", err)
	}
	defer stmt.Close()

	for i, q := range poll.Questions {
		options, err := json.Marshal(q.Options)
		if err != nil {
			return fmt.Errorf("failed to encode options of question %d: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, poll.ID, i, q.Text, string(q.Type), string(options)); err != nil {
			return fmt.Errorf("failed to insert question %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (r *pollRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT id, title, description, active, created_at FROM polls WHERE id = ?`, id,
	)
	poll, err := scanPoll(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPollNotFound
		}
		return nil, fmt.Errorf("failed to get poll: %w", err)
	}

	if poll.Questions, err = r.fetchQuestions(ctx, poll.ID); err != nil {
		return nil, err
	}
	return poll, nil
}

func (r *pollRepository) GetAll(ctx context.Context) ([]*domain.Poll, error) {
	return r.queryPolls(ctx,
		`SELECT id, title, description, active, created_at FROM polls ORDER BY created_at`,
	)
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	return r.queryPolls(ctx,
		`SELECT id, title, description, active, created_at FROM polls
		 ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
}

// Search matches titles case-insensitively; SQLite LIKE folds ASCII only.
func (r *pollRepository) Search(ctx context.Context, limit, offset int, q string) ([]*domain.Poll, error) {
	return r.queryPolls(ctx,
		`SELECT id, title, description, active, created_at FROM polls
		 WHERE title LIKE '%' || ? || '%'
		 ORDER BY created_at DESC, rowid DESC LIMIT ? OFFSET ?`,
		q, limit, offset,
	)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPoll(row rowScanner) (*domain.Poll, error) {
	var (
		poll      domain.Poll
		createdAt int64
	)
	if err := row.Scan(&poll.ID, &poll.Title, &poll.Description, &poll.Active, &createdAt); err != nil {
		return nil, err
	}
	poll.CreatedAt = time.UnixMicro(createdAt).UTC()
	return &poll, nil
}

func (r *pollRepository) queryPolls(ctx context.Context, query string, args ...any) ([]*domain.Poll, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query polls: %w", err)
	}

	polls := []*domain.Poll{}
	for rows.Next() {
		poll, err := scanPoll(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan poll: %w", err)
		}
		polls = append(polls, poll)
	}
	err = rows.Err()
	rows.Close()
	if err != nil {
		return nil, fmt.Errorf("error iterating polls: %w", err)
	}

	// the single connection is free again once rows is closed
	for _, poll := range polls {
		if poll.Questions, err = r.fetchQuestions(ctx, poll.ID); err != nil {
			return nil, err
		}
	}
	return polls, nil
}

func (r *pollRepository) fetchQuestions(ctx context.Context, pollID uuid.UUID) ([]domain.Question, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT text, type, options FROM poll_questions WHERE poll_id = ? ORDER BY position`, pollID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get poll questions: %w", err)
	}
	defer rows.Close()

	var questions []domain.Question
	for rows.Next() {
		var (
			q       domain.Question
			qType   string
			options string
		)
		if err := rows.Scan(&q.Text, &qType, &options); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		q.Type = domain.QuestionType(qType)
		if err := json.Unmarshal([]byte(options), &q.Options); err != nil {
			return nil, fmt.Errorf("failed to decode options: %w", err)
		}
		if len(q.Options) == 0 {
			q.Options = nil
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating questions: %w", err)
	}
	return questions, nil
}
