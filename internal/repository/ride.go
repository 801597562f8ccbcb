package repository

import (
	"context"

	"urbik/internal/domain"
)

// RideRepository defines the persistence operations for rides.
//
// Status transitions are conditional updates keyed on the current status, so
// a transition that lost a race reports ErrConflict instead of silently
// overwriting the winner.
type RideRepository interface {
	// Create persists a new ride.
	Create(ctx context.Context, ride *domain.Ride) error

	// GetByID retrieves a ride by ID. The OTP is not populated.
	GetByID(ctx context.Context, id string) (*domain.Ride, error)

	// GetByIDWithOTP retrieves a ride by ID including its OTP.
	GetByIDWithOTP(ctx context.Context, id string) (*domain.Ride, error)

	// AssignIfPending sets the captain and moves the ride to accepted,
	// only if the ride is still pending. Returns ErrConflict when the
	// ride exists but is no longer pending.
	AssignIfPending(ctx context.Context, rideID, captainID string) error

	// TransitionOwned moves the ride from one status to another, only if
	// the ride is currently in `from` and assigned to the given captain.
	// Returns ErrConflict when the guard fails on an existing ride.
	TransitionOwned(ctx context.Context, rideID, captainID string, from, to domain.RideStatus) error

	// CancelForRider moves the ride to cancelled, only if it belongs to
	// the rider and is still pending or accepted.
	CancelForRider(ctx context.Context, rideID, riderID string) error
}
