package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

type pollResultRepository struct {
	mu        sync.RWMutex
	snapshots map[uuid.UUID]domain.ResultsSnapshot
}

func NewPollResultRepository() ports.PollResultRepository {
	return &pollResultRepository{snapshots: map[uuid.UUID]domain.ResultsSnapshot{}}
}

// SaveSnapshot replaces the previous snapshot of the poll. Summaries are
// never mutated after they are built, so storing them by value is enough.
func (r *pollResultRepository) SaveSnapshot(_ context.Context, snapshot *domain.ResultsSnapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.snapshots[snapshot.Summary.PollID] = *snapshot
	return nil
}

func (r *pollResultRepository) GetSnapshot(_ context.Context, pollID uuid.UUID) (*domain.ResultsSnapshot, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot, ok := r.snapshots[pollID]
	if !ok {
		return nil, domain.ErrResultsNotFound
	}
	return &snapshot, nil
}
