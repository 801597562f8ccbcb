package service

import (
	"context"

	"urbik/internal/domain"
	"urbik/internal/maps"
	"urbik/internal/observability"
)

// Escalating radius search: a widening spatial query with a fixed step and
// hard ceiling, not a failure retry.
const (
	searchRadiusStartKm = 2.0
	searchRadiusStepKm  = 2.0
	searchRadiusMaxKm   = 10.0
)

// MatchingService finds eligible captains near a ride's pickup point and
// fans the offer out to every one of them. It does not rank, reserve, or
// offer exclusively; whichever captain's accept lands first wins the
// conditional assignment.
type MatchingService struct {
	geocoder  maps.Geocoder
	directory CaptainFinder
	notifier  *NotificationService
}

// Ensure MatchingService implements Dispatcher.
var _ Dispatcher = (*MatchingService)(nil)

// NewMatchingService creates a new MatchingService.
func NewMatchingService(geocoder maps.Geocoder, directory CaptainFinder, notifier *NotificationService) *MatchingService {
	return &MatchingService{geocoder: geocoder, directory: directory, notifier: notifier}
}

// DispatchResult reports how the captain search went.
type DispatchResult struct {
	CaptainsFound  int
	SearchRadiusKm float64
}

// Dispatch geocodes the pickup address, searches the directory at 2km and
// widens by 2km up to 10km until any captain is found, then broadcasts the
// offer to all of them. With zero captains at the ceiling, the rider gets a
// no-captains-available event instead of offers.
func (s *MatchingService) Dispatch(ctx context.Context, ride *domain.Ride, rider *domain.Rider) (*DispatchResult, error) {
	coords, err := s.geocoder.Geocode(ctx, ride.Pickup)
	if err != nil {
		return nil, err
	}

	radius := searchRadiusStartKm
	var captains []*domain.Captain
	for {
		captains, err = s.directory.FindNearby(ctx, coords.Lat, coords.Lng, radius)
		if err != nil {
			return nil, err
		}
		if len(captains) > 0 || radius >= searchRadiusMaxKm {
			break
		}
		radius += searchRadiusStepKm
	}
	observability.SearchRadius.Observe(radius)

	if len(captains) == 0 {
		observability.MatchesWithoutCaptains.Inc()
		s.notifier.NoCaptainsAvailable(rider.SocketID, ride.ID, searchRadiusMaxKm)
		return &DispatchResult{CaptainsFound: 0, SearchRadiusKm: searchRadiusMaxKm}, nil
	}

	detail := &RideDetail{Ride: ride, Rider: rider}
	for _, captain := range captains {
		s.notifier.NewRideOffer(captain.SocketID, detail, radius, len(captains))
		observability.RideOffersSent.Inc()
	}

	return &DispatchResult{CaptainsFound: len(captains), SearchRadiusKm: radius}, nil
}
