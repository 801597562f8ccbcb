package redis

import "context"

// LocationStoreInterface defines the interface for captain location operations.
type LocationStoreInterface interface {
	UpdateLocation(ctx context.Context, captainID string, lat, lng float64) error
	FindNearbyCaptains(ctx context.Context, lat, lng, radiusKm float64) ([]CaptainLocation, error)
	RemoveLocation(ctx context.Context, captainID string) error
}

// TokenStoreInterface defines the interface for the revoked-credential store.
type TokenStoreInterface interface {
	Revoke(ctx context.Context, token string) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// Ensure concrete types implement interfaces.
var (
	_ LocationStoreInterface = (*LocationStore)(nil)
	_ TokenStoreInterface    = (*TokenStore)(nil)
)
