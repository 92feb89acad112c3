package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vncsmyrnk/pollkit/internal/core/aggregation"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type resultsService struct {
	pollRepo     ports.PollRepository
	responseRepo ports.ResponseRepository
	resultRepo   ports.PollResultRepository
	metrics      ports.Metrics
	tracer       trace.Tracer
}

func NewResultsService(pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, resultRepo ports.PollResultRepository, metrics ports.Metrics) ports.ResultsService {
	return &resultsService{
		pollRepo:     pollRepo,
		responseRepo: responseRepo,
		resultRepo:   resultRepo,
		metrics:      metricsOrNop(metrics),
		tracer:       otel.Tracer("results-service"),
	}
}

func (s *resultsService) GetResults(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSummary, error) {
	ctx, span := s.tracer.Start(ctx, "ResultsService.GetResults",
		trace.WithAttributes(attribute.String("poll.id", pollID.String())),
	)
	defer span.End()

	summary, err := computeSummary(ctx, s.pollRepo, s.responseRepo, pollID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("poll.total_responses", summary.TotalResponses))
	s.metrics.ResultsComputed("live", summary.TotalResponses, summary.elapsed)
	return &summary.ResultsSummary, nil
}

func (s *resultsService) GetLatestSnapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error) {
	if _, err := s.pollRepo.GetByID(ctx, pollID); err != nil {
		return nil, err
	}
	return s.resultRepo.GetSnapshot(ctx, pollID)
}

type timedSummary struct {
	domain.ResultsSummary
	elapsed time.Duration
}

// computeSummary reads the poll and one snapshot of its responses and folds
// them into a summary.
func computeSummary(ctx context.Context, pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, pollID uuid.UUID) (*timedSummary, error) {
	poll, err := pollRepo.GetByID(ctx, pollID)
	if err != nil {
		return nil, err
	}

	responses, err := responseRepo.ListByPoll(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("failed to list responses for poll %s: %w", pollID, err)
	}

	start := time.Now()
	summary := aggregation.Summarize(poll, responses)
	return &timedSummary{ResultsSummary: summary, elapsed: time.Since(start)}, nil
}
