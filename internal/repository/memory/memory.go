// Package memory provides an in-memory voter roll store.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"voterroll/internal/domain"
)

// Repository keeps the roll in a slice sorted in default query order.
type Repository struct {
	mu     sync.RWMutex
	voters []domain.Voter
	byID   map[string]int
}

// New creates an empty in-memory repository
func New() *Repository {
	return &Repository{byID: make(map[string]int)}
}

// Query returns the voters matching filter in default order
func (r *Repository) Query(ctx context.Context, filter domain.FilterSpec) ([]domain.Voter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	voters := r.voters
	r.mu.RUnlock()

	// voters is never modified in place, only swapped, so it is safe to
	// read without the lock
	return domain.FilterVoters(voters, filter), nil
}

// GetVoter returns the voter with the given id, or nil if absent
func (r *Repository) GetVoter(ctx context.Context, id string) (*domain.Voter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	i, ok := r.byID[id]
	if !ok {
		return nil, nil
	}
	v := r.voters[i]
	return &v, nil
}

// Parties returns the sorted distinct non-empty party codes
func (r *Repository) Parties(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	parties := []string{}
	for _, v := range r.voters {
		if v.Party != "" && !seen[v.Party] {
			seen[v.Party] = true
			parties = append(parties, v.Party)
		}
	}
	sort.Strings(parties)
	return parties, nil
}

// Count returns the number of stored voters
func (r *Repository) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.voters), nil
}

// ReplaceAll swaps the stored roll for voters.
// It fails without changing anything if two voters share an id.
func (r *Repository) ReplaceAll(ctx context.Context, voters []domain.Voter) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sorted := make([]domain.Voter, len(voters))
	copy(sorted, voters)
	sort.SliceStable(sorted, func(i, j int) bool {
		return domain.Less(sorted[i], sorted[j])
	})

	byID := make(map[string]int, len(sorted))
	for i, v := range sorted {
		if _, dup := byID[v.ID]; dup {
			return fmt.Errorf("duplicate voter id %q", v.ID)
		}
		byID[v.ID] = i
	}

	r.mu.Lock()
	r.voters = sorted
	r.byID = byID
	r.mu.Unlock()
	return nil
}

// Close is a no-op
func (r *Repository) Close() error {
	return nil
}
