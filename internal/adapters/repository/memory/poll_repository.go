// Package memory keeps polls, responses and result snapshots in process
// memory. Every read returns a copy so callers can aggregate a stable
// snapshot while new responses keep arriving.
package memory

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"

	"github.com/vncsmyrnk/pollkit/internal/core/domain"
	"github.com/vncsmyrnk/pollkit/internal/core/ports"
)

var foldCaser = cases.Fold()

type pollRepository struct {
	mu    sync.RWMutex
	polls map[uuid.UUID]*domain.Poll
	// order holds poll ids in insertion order
	order []uuid.UUID
}

func NewPollRepository() ports.PollRepository {
	return &pollRepository{polls: map[uuid.UUID]*domain.Poll{}}
}

func (r *pollRepository) Save(_ context.Context, poll *domain.Poll) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.polls[poll.ID]; !exists {
		r.order = append(r.order, poll.ID)
	}
	r.polls[poll.ID] = copyPoll(poll)
	return nil
}

func (r *pollRepository) GetByID(_ context.Context, id uuid.UUID) (*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	poll, ok := r.polls[id]
	if !ok {
		return nil, domain.ErrPollNotFound
	}
	return copyPoll(poll), nil
}

func (r *pollRepository) GetAll(_ context.Context) ([]*domain.Poll, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	polls := make([]*domain.Poll, 0, len(r.order))
	for _, id := range r.order {
		polls = append(polls, copyPoll(r.polls[id]))
	}
	return polls, nil
}

func (r *pollRepository) List(ctx context.Context, limit, offset int) ([]*domain.Poll, error) {
	return r.filter(limit, offset, func(*domain.Poll) bool { return true }), nil
}

func (r *pollRepository) Search(ctx context.Context, limit, offset int, query string) ([]*domain.Poll, error) {
	needle := foldCaser.String(query)
	return r.filter(limit, offset, func(p *domain.Poll) bool {
		return strings.Contains(foldCaser.String(p.Title), needle)
	}), nil
}

// filter walks polls newest first and returns one page of the matches.
func (r *pollRepository) filter(limit, offset int, match func(*domain.Poll) bool) []*domain.Poll {
	r.mu.RLock()
	defer r.mu.RUnlock()

	newest := slices.Clone(r.order)
	slices.Reverse(newest)
	slices.SortStableFunc(newest, func(a, b uuid.UUID) int {
		return r.polls[b].CreatedAt.Compare(r.polls[a].CreatedAt)
	})

	polls := []*domain.Poll{}
	skipped := 0
	for _, id := range newest {
		p := r.polls[id]
		if !match(p) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		if len(polls) == limit {
			break
		}
		polls = append(polls, copyPoll(p))
	}
	return polls
}

func copyPoll(p *domain.Poll) *domain.Poll {
	cp := *p
	cp.Questions = make([]domain.Question, len(p.Questions))
	for i, q := range p.Questions {
		q.Options = slices.Clone(q.Options)
		cp.Questions[i] = q
	}
	return &cp
}
