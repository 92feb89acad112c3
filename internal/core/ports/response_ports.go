package ports

import (
	"context"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

type ResponseRepository interface {
	Save(ctx context.Context, response *domain.Response) error
	// ListByPoll returns every stored response of the poll in arrival order.
	// The slice is owned by the caller.
	ListByPoll(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error)
}

type SubmitResponseInput struct {
	PollID     uuid.UUID
	Submission domain.Submission
}

type ResponseService interface {
	Submit(ctx context.Context, input SubmitResponseInput) (*domain.Response, error)
	ListResponses(ctx context.Context, pollID uuid.UUID) ([]domain.Response, error)
}
