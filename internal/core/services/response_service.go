package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type responseService struct {
	pollRepo     ports.PollRepository
	responseRepo ports.ResponseRepository
	metrics      ports.Metrics
}

func NewResponseService(pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, metrics ports.Metrics) ports.ResponseService {
	return &responseService{
		pollRepo:     pollRepo,
		responseRepo: responseRepo,
		metrics:      metricsOrNop(metrics),
	}
}

func (s *responseService) Submit(ctx context.Context, input ports.SubmitResponseInput) (*domain.Response, error) {
	poll, err := s.pollRepo.GetByID(ctx, input.PollID)
	if err != nil {
		return nil, err
	}

	response, err := domain.NewResponse(poll, input.Submission)
	if err != nil {
		s.metrics.ResponseRejected(rejectionReason(err))
		return nil, err
	}

	response.ID = uuid.New()
	response.SubmittedAt = time.Now().UTC()

	if err := s.responseRepo.Save(ctx, response); err != nil {
		return nil, fmt.Errorf("failed to save response: %w", err)
	}

	s.metrics.ResponseAccepted()
	return response, nil
}

func (s *responseService) ListResponses(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}

	return s.responseRepo.ListByPoll(ctx, pollID)
}
