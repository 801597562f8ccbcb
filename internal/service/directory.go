package service

import (
	"context"
	"errors"
	"log"
	"math"

	"urbik/internal/domain"
	"urbik/internal/redis"
	"urbik/internal/repository"
)

// CaptainFinder is the directory surface the matcher depends on.
type CaptainFinder interface {
	FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.Captain, error)
}

// DirectoryService tracks which captains are live and where. It owns the
// status/location/socket-id aggregate of a captain.
type DirectoryService struct {
	captains  repository.CaptainRepository
	riders    repository.RiderRepository
	locations redis.LocationStoreInterface
}

// Ensure DirectoryService implements CaptainFinder.
var _ CaptainFinder = (*DirectoryService)(nil)

// NewDirectoryService creates a new DirectoryService.
func NewDirectoryService(
	captains repository.CaptainRepository,
	riders repository.RiderRepository,
	locations redis.LocationStoreInterface,
) *DirectoryService {
	return &DirectoryService{captains: captains, riders: riders, locations: locations}
}

// FindNearby returns the active, connected captains within radiusKm of the
// point. Captain positions live in two representations accumulated over a
// record's lifetime: the Redis geo index and the flat lat/lng columns on the
// captains table. Both are consulted and the union returned, so a captain is
// found through whichever representation still holds it. An empty result is
// not an error.
func (s *DirectoryService) FindNearby(ctx context.Context, lat, lng, radiusKm float64) ([]*domain.Captain, error) {
	seen := make(map[string]bool)
	found := make([]*domain.Captain, 0)

	// Geo index first: pre-sorted by distance.
	locs, err := s.locations.FindNearbyCaptains(ctx, lat, lng, radiusKm)
	if err != nil {
		// The table scan below still covers every live captain.
		log.Printf("directory: geo index query failed, falling back to table scan: %v", err)
	} else if len(locs) > 0 {
		ids := make([]string, 0, len(locs))
		for _, loc := range locs {
			ids = append(ids, loc.CaptainID)
		}

		captains, err := s.captains.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		byID := make(map[string]*domain.Captain, len(captains))
		for _, c := range captains {
			byID[c.ID] = c
		}

		// Preserve the index's closest-first ordering.
		for _, loc := range locs {
			c, ok := byID[loc.CaptainID]
			if !ok || c.Status != domain.CaptainStatusActive || c.SocketID == "" {
				continue
			}
			seen[c.ID] = true
			found = append(found, c)
		}
	}

	// Older flat representation: haversine over the captains table.
	located, err := s.captains.ListActiveLocated(ctx)
	if err != nil {
		return nil, err
	}
	for _, c := range located {
		if seen[c.ID] {
			continue
		}
		if haversineKm(lat, lng, *c.Lat, *c.Lng) <= radiusKm {
			seen[c.ID] = true
			found = append(found, c)
		}
	}

	return found, nil
}

// SetActive upserts the captain's location and marks it active.
func (s *DirectoryService) SetActive(ctx context.Context, captainID string, lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return ErrInvalidLatitude
	}
	if lng < -180 || lng > 180 {
		return ErrInvalidLongitude
	}

	if err := s.captains.SetActive(ctx, captainID, lat, lng); err != nil {
		return err
	}

	// The geo index is advisory; the table scan covers index misses.
	if err := s.locations.UpdateLocation(ctx, captainID, lat, lng); err != nil {
		log.Printf("directory: geo index update for captain %s failed: %v", captainID, err)
	}
	return nil
}

// SetInactive clears the captain's connection and marks it inactive.
func (s *DirectoryService) SetInactive(ctx context.Context, captainID string) error {
	if err := s.captains.SetInactive(ctx, captainID); err != nil {
		return err
	}
	if err := s.locations.RemoveLocation(ctx, captainID); err != nil {
		log.Printf("directory: geo index removal for captain %s failed: %v", captainID, err)
	}
	return nil
}

// ConnectCaptain records the captain's live connection and marks it active.
func (s *DirectoryService) ConnectCaptain(ctx context.Context, captainID, socketID string) error {
	return s.captains.AttachSocket(ctx, captainID, socketID)
}

// ConnectRider records the rider's live connection.
func (s *DirectoryService) ConnectRider(ctx context.Context, riderID, socketID string) error {
	return s.riders.UpdateSocketID(ctx, riderID, socketID)
}

// Disconnect clears whatever rider or captain currently owns the socket id.
// A captain additionally goes inactive and leaves the geo index.
func (s *DirectoryService) Disconnect(ctx context.Context, socketID string) {
	captainID, err := s.captains.DetachBySocket(ctx, socketID)
	if err == nil {
		if err := s.locations.RemoveLocation(ctx, captainID); err != nil {
			log.Printf("directory: geo index removal for captain %s failed: %v", captainID, err)
		}
		return
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Printf("directory: captain detach for socket %s failed: %v", socketID, err)
		return
	}

	if _, err := s.riders.ClearBySocketID(ctx, socketID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		log.Printf("directory: rider detach for socket %s failed: %v", socketID, err)
	}
}

// haversineKm returns the great-circle distance between two points in km.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371.0
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}
