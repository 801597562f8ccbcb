package repository

import (
	"context"

	"urbik/internal/domain"
)

// RiderRepository defines the persistence operations for riders.
type RiderRepository interface {
	// Create adds a new rider.
	Create(ctx context.Context, rider *domain.Rider) error

	// GetByID retrieves a rider by ID.
	GetByID(ctx context.Context, id string) (*domain.Rider, error)

	// GetByEmail retrieves a rider by email, including the password hash.
	GetByEmail(ctx context.Context, email string) (*domain.Rider, error)

	// UpdateSocketID records the rider's live connection id, overwriting
	// any prior value.
	UpdateSocketID(ctx context.Context, id, socketID string) error

	// ClearBySocketID clears the socket id of whichever rider currently
	// owns it. Returns the rider's id, or ErrNotFound if no rider does.
	ClearBySocketID(ctx context.Context, socketID string) (string, error)
}
