package repository

import (
	"context"

	"voterroll/internal/domain"
)

// Repository defines the interface for voter roll data access
type Repository interface {
	// Read operations
	Query(ctx context.Context, filter domain.FilterSpec) ([]domain.Voter, error)
	GetVoter(ctx context.Context, id string) (*domain.Voter, error) // nil, nil when absent
	Parties(ctx context.Context) ([]string, error)
	Count(ctx context.Context) (int, error)

	// Bulk replace; the previous roll is discarded
	ReplaceAll(ctx context.Context, voters []domain.Voter) error

	// Close releases resources
	Close() error
}
