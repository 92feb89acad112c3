package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type responseRepository struct {
	mu        sync.RWMutex
	responses map[uuid.UUID][]domain.Response
}

func NewResponseRepository() ports.ResponseRepository {
	return &responseRepository{responses: map[uuid.UUID][]domain.Response{}}
}

func (r *responseRepository) Save(_ context.Context, response *domain.Response) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *response
	stored.Answers = maps.Clone(response.Answers)
	r.responses[response.PollID] = append(r.responses[response.PollID], stored)
	return nil
}

func (r *responseRepository) ListByPoll(_ context.Context, pollID uuid.UUID) ([]domain.Response, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.responses[pollID]
	out := make([]domain.Response, len(stored))
	for i, resp := range stored {
		resp.Answers = maps.Clone(resp.Answers)
		out[i] = resp
	}
	return out, nil
}
