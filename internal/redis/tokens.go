package redis

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	revokedTokenPrefix = "revoked:"

	// RevokedTokenTTL matches the credential lifetime: a token older than
	// this has expired on its own and no longer needs tracking.
	RevokedTokenTTL = 24 * time.Hour
)

// TokenStore records revoked credentials until their natural expiry.
type TokenStore struct {
	client *redis.Client
}

// NewTokenStore creates a new TokenStore.
func NewTokenStore(client *redis.Client) *TokenStore {
	return &TokenStore{client: client}
}

// Revoke marks a credential as revoked for the next 24 hours.
func (s *TokenStore) Revoke(ctx context.Context, token string) error {
	return s.client.Set(ctx, revokedTokenPrefix+token, "1", RevokedTokenTTL).Err()
}

// IsRevoked reports whether the credential has been revoked.
func (s *TokenStore) IsRevoked(ctx context.Context, token string) (bool, error) {
	n, err := s.client.Exists(ctx, revokedTokenPrefix+token).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
