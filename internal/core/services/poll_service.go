package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type pollService struct {
	repo    ports.PollRepository
	metrics ports.Metrics
}

func NewPollService(repo ports.PollRepository, metrics ports.Metrics) ports.PollService {
	return &pollService{
		repo:    repo,
		metrics: metricsOrNop(metrics),
	}
}

func (s *pollService) Create(ctx context.Context, draft domain.PollDraft) (*domain.Poll, error) {
	poll, err := domain.NewPoll(draft)
	if err != nil {
		s.metrics.PollRejected(rejectionReason(err))
		return nil, err
	}

	if err := s.repo.Save(ctx, poll); err != nil {
		return nil, fmt.Errorf("failed to save poll: %w", err)
	}

	s.metrics.PollCreated()
	return poll, nil
}

func (s *pollService) GetPoll(ctx context.Context, id string) (*domain.Poll, error) {
	pollID, err := uuid.Parse(id)
	if err != nil {
		return nil, domain.ErrInvalidPollID
	}

	return s.repo.GetByID(ctx, pollID)
}

func (s *pollService) ListPolls(ctx context.Context, input ports.ListPollsInput) ([]*domain.Poll, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}
	if page > ports.MaxPollsPage {
		return []*domain.Poll{}, nil
	}
	offset := (page - 1) * ports.PollsPageSize

	if q := strings.TrimSpace(input.Query); q != "" {
		return s.repo.Search(ctx, ports.PollsPageSize, offset, q)
	}
	return s.repo.List(ctx, ports.PollsPageSize, offset)
}

// rejectionReason turns a validation error into a low-cardinality label.
func rejectionReason(err error) string {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		err = verr.Err
	}
	switch {
	case errors.Is(err, domain.ErrMissingTitle):
		return "missing_title"
	case errors.Is(err, domain.ErrNoQuestions):
		return "no_questions"
	case errors.Is(err, domain.ErrEmptyQuestionText):
		return "empty_question_text"
	case errors.Is(err, domain.ErrInsufficientOptions):
		return "insufficient_options"
	case errors.Is(err, domain.ErrUnknownQuestionType):
		return "unknown_question_type"
	case errors.Is(err, domain.ErrIncompleteResponse):
		return "incomplete_response"
	case errors.Is(err, domain.ErrInvalidAnswer):
		return "invalid_answer"
	default:
		return "other"
	}
}
