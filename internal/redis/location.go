package redis

import (
	"context"

	"github.com/redis/go-redis/v9"
)

const captainLocationKey = "captains:locations"

// CaptainLocation represents a captain's position in the geo index.
type CaptainLocation struct {
	CaptainID string
	Lat       float64
	Lng       float64
}

// LocationStore holds the live captain geo index in Redis. This is the newer
// structured location representation; the captains table carries the older
// flat lat/lng pair, and the directory matches against either.
type LocationStore struct {
	client *redis.Client
}

// NewLocationStore creates a new LocationStore.
func NewLocationStore(client *redis.Client) *LocationStore {
	return &LocationStore{client: client}
}

// UpdateLocation stores a captain's location using GEOADD.
func (s *LocationStore) UpdateLocation(ctx context.Context, captainID string, lat, lng float64) error {
	return s.client.GeoAdd(ctx, captainLocationKey, &redis.GeoLocation{
		Name:      captainID,
		Longitude: lng,
		Latitude:  lat,
	}).Err()
}

// FindNearbyCaptains returns captain positions within the radius (km),
// closest first.
func (s *LocationStore) FindNearbyCaptains(ctx context.Context, lat, lng, radiusKm float64) ([]CaptainLocation, error) {
	results, err := s.client.GeoRadius(ctx, captainLocationKey, lng, lat, &redis.GeoRadiusQuery{
		Radius:    radiusKm,
		Unit:      "km",
		WithCoord: true,
		Sort:      "ASC",
	}).Result()
	if err != nil {
		return nil, err
	}

	locations := make([]CaptainLocation, 0, len(results))
	for _, r := range results {
		locations = append(locations, CaptainLocation{
			CaptainID: r.Name,
			Lat:       r.Latitude,
			Lng:       r.Longitude,
		})
	}

	return locations, nil
}

// RemoveLocation removes a captain from the geo index.
func (s *LocationStore) RemoveLocation(ctx context.Context, captainID string) error {
	return s.client.ZRem(ctx, captainLocationKey, captainID).Err()
}
