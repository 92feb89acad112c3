package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

type PollResultRepository interface {
	SaveSnapshot(ctx context.Context, snapshot *domain.ResultsSnapshot) error
	GetSnapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error)
}

type ResultsService interface {
	GetResults(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSummary, error)
	GetLatestSnapshot(ctx context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error)
}

type SummaryService interface {
	SummarizeAll(ctx context.Context) error
}
