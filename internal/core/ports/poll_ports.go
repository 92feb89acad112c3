package ports

import (
	"context"
	"math"

	"github.com/google/uuid"
	"github.com/vncsmyrnk/pollkit/internal/core/domain"
)

type PollRepository interface {
	Save(ctx context.Context, poll *domain.Poll) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Poll, error)
	GetAll(ctx context.Context) ([]*domain.Poll, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Poll, error)
	Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error)
}

const (
	PollsPageSize = 10
	// MaxPollsPage is the last page whose offset still fits in an int.
	MaxPollsPage = math.MaxInt/PollsPageSize + 1
)

type ListPollsInput struct {
	Page  int
	Query string
}

type PollService interface {
	Create(ctx context.Context, draft domain.PollDraft) (*domain.Poll, error)
	GetPoll(ctx context.Context, id string) (*domain.Poll, error)
	ListPolls(ctx context.Context, input ListPollsInput) ([]*domain.Poll, error)
}
