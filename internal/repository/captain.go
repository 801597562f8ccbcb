package repository

import (
	"context"

	"urbik/internal/domain"
)

// CaptainRepository defines the persistence operations for captains.
//
// The status/location/socket-id trio is a single aggregate: every mutating
// method below writes all affected fields in one statement so concurrent
// observers never see a partially updated captain.
type CaptainRepository interface {
	// Create adds a new captain.
	Create(ctx context.Context, captain *domain.Captain) error

	// GetByID retrieves a captain by ID.
	GetByID(ctx context.Context, id string) (*domain.Captain, error)

	// GetByEmail retrieves a captain by email, including the password hash.
	GetByEmail(ctx context.Context, email string) (*domain.Captain, error)

	// AttachSocket records the captain's live connection id and marks the
	// captain active in one write.
	AttachSocket(ctx context.Context, id, socketID string) error

	// SetActive upserts the captain's last known location and marks the
	// captain active in one write.
	SetActive(ctx context.Context, id string, lat, lng float64) error

	// SetInactive clears the socket id and marks the captain inactive.
	SetInactive(ctx context.Context, id string) error

	// DetachBySocket clears the live state of whichever captain currently
	// owns the socket id, marking it inactive. Returns the captain's id,
	// or ErrNotFound if no captain owns the socket.
	DetachBySocket(ctx context.Context, socketID string) (string, error)

	// ListActiveLocated returns every captain with status=active, a
	// non-empty socket id and a known location.
	ListActiveLocated(ctx context.Context) ([]*domain.Captain, error)

	// GetByIDs retrieves the captains for the given ids, skipping unknown ids.
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Captain, error)
}
