package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

const defaultSummaryConcurrency = 4

type summaryService struct {
	pollRepo     ports.PollRepository
	responseRepo ports.ResponseRepository
	resultRepo   ports.PollResultRepository
	metrics      ports.Metrics
	concurrency  int
	tracer       trace.Tracer
}

func NewSummaryService(pollRepo ports.PollRepository, responseRepo ports.ResponseRepository, resultRepo ports.PollResultRepository, metrics ports.Metrics, concurrency int) ports.SummaryService {
	if concurrency < 1 {
		concurrency = defaultSummaryConcurrency
	}
	return &summaryService{
		pollRepo:     pollRepo,
		responseRepo: responseRepo,
		resultRepo:   resultRepo,
		metrics:      metricsOrNop(metrics),
		concurrency:  concurrency,
		tracer:       otel.Tracer("summary-service"),
	}
}

func (s *summaryService) SummarizeAll(ctx context.Context) error {
	ctx, span := s.tracer.Start(ctx, "SummaryService.SummarizeAll")
	defer span.End()

	polls, err := s.pollRepo.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch all polls: %w", err)
	}
	span.SetAttributes(attribute.Int("polls.count", len(polls)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)

	for _, poll := range polls {
		g.Go(func() error {
			if err := s.summarize(gctx, poll.ID); err != nil {
				return fmt.Errorf("failed to summarize poll %s: %w", poll.ID, err)
			}
			return nil
		})
	}

	return g.Wait()
}

func (s *summaryService) summarize(ctx context.Context, pollID uuid.UUID) error {
	summary, err := computeSummary(ctx, s.pollRepo, s.responseRepo, pollID)
	if err != nil {
		return err
	}
	s.metrics.ResultsComputed("snapshot", summary.TotalResponses, summary.elapsed)

	return s.resultRepo.SaveSnapshot(ctx, &domain.ResultsSnapshot{
		Summary:    summary.ResultsSummary,
		ComputedAt: time.Now().UTC(),
	})
}
