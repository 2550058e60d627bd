package repositories

import (
	"context"
	"sort"
	"sync"

	"cmcs-claims/internal/core/domain"

	"github.com/google/uuid"
)

// memoryClaimRepository keeps claims in process. Used for tests and STORE_DRIVER=memory.
type memoryClaimRepository struct {
	mu     sync.Mutex
	claims map[uuid.UUID]*domain.Claim
	seq    map[uuid.UUID]int
	next   int
}

// NewMemoryClaimRepository creates an empty in-memory claim repository
func NewMemoryClaimRepository() ClaimRepository {
	return &memoryClaimRepository{
		claims: make(map[uuid.UUID]*domain.Claim),
		seq:    make(map[uuid.UUID]int),
	}
}

func (r *memoryClaimRepository) Create(ctx context.Context, claim *domain.Claim) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.claims[claim.ID] = claim.Clone()
	r.seq[claim.ID] = r.next
	r.next++
	return nil
}

func (r *memoryClaimRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	c, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	return c.Clone(), nil
}

// Update holds the lock across load, mutate and store
func (r *memoryClaimRepository) Update(ctx context.Context, id uuid.UUID, mutate ClaimMutation) (*domain.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}

	working := stored.Clone()
	if err := mutate(working); err != nil {
		return nil, err
	}
	if len(working.Attachments) < len(stored.Attachments) || len(working.Feedback) < len(stored.Feedback) {
		return nil, errLedgerShrunk
	}

	r.claims[id] = working.Clone()
	return working, nil
}

func (r *memoryClaimRepository) Delete(ctx context.Context, id uuid.UUID, guard ClaimMutation) (*domain.Claim, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.claims[id]
	if !ok {
		return nil, domain.ErrClaimNotFound
	}
	snapshot := stored.Clone()
	if guard != nil {
		if err := guard(snapshot); err != nil {
			return nil, err
		}
	}

	delete(r.claims, id)
	delete(r.seq, id)
	return snapshot, nil
}

func (r *memoryClaimRepository) List(ctx context.Context, filter ClaimFilter, offset, limit int) ([]*domain.Claim, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	matched := make([]*domain.Claim, 0, len(r.claims))
	for _, c := range r.claims {
		if filter.Matches(c) {
			matched = append(matched, c)
		}
	}

	// newest submission first, later inserts first on ties
	sort.Slice(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.SubmissionDate.Equal(b.SubmissionDate) {
			return a.SubmissionDate.After(b.SubmissionDate)
		}
		return r.seq[a.ID] > r.seq[b.ID]
	})

	total := int64(len(matched))
	if offset < 0 {
		offset = 0
	}
	if offset > len(matched) {
		offset = len(matched)
	}
	end := len(matched)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}

	out := make([]*domain.Claim, 0, end-offset)
	for _, c := range matched[offset:end] {
		out = append(out, c.Clone())
	}
	return out, total, nil
}
