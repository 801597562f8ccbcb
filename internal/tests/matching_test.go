package tests

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"urbik/internal/domain"
	"urbik/internal/maps"
	"urbik/internal/service"
)

func newMatcher(finder *MockCaptainFinder, sender *MockSender) *service.MatchingService {
	notifier := service.NewNotificationService(sender)
	return service.NewMatchingService(NewMockGeocoder(), finder, notifier)
}

func testRide() (*domain.Ride, *domain.Rider) {
	ride := &domain.Ride{
		ID:          "ride-1",
		RiderID:     "rider-1",
		Pickup:      "MG Road",
		Destination: "Airport",
		Fare:        120,
		Status:      domain.RideStatusPending,
		OTP:         "123456",
	}
	rider := &domain.Rider{ID: "rider-1", FirstName: "Asha", SocketID: "sock-rider-1"}
	return ride, rider
}

func TestMatching_StopsAtFirstNonEmptyRadius(t *testing.T) {
	t.Parallel()

	finder := NewMockCaptainFinder()
	sender := NewMockSender()
	captain := &domain.Captain{ID: "captain-1", SocketID: "sock-captain-1", Status: domain.CaptainStatusActive}
	finder.ByRadius[2.0] = []*domain.Captain{captain}

	ride, rider := testRide()
	result, err := newMatcher(finder, sender).Dispatch(context.Background(), ride, rider)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if result.CaptainsFound != 1 {
		t.Errorf("expected captainsFound=1, got %d", result.CaptainsFound)
	}
	if result.SearchRadiusKm != 2.0 {
		t.Errorf("expected searchRadius=2, got %v", result.SearchRadiusKm)
	}
	if !reflect.DeepEqual(finder.RadiiProbed, []float64{2.0}) {
		t.Errorf("expected a single probe at 2km, got %v", finder.RadiiProbed)
	}

	offers := sender.EventsNamed(service.EventNewRide)
	if len(offers) != 1 {
		t.Fatalf("expected one new-ride offer, got %d", len(offers))
	}
	if offers[0].SocketID != captain.SocketID {
		t.Errorf("offer went to %s, want %s", offers[0].SocketID, captain.SocketID)
	}
	event, ok := offers[0].Data.(service.RideEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", offers[0].Data)
	}
	if event.OTP != "" {
		t.Error("new-ride offer leaked the OTP to the captain")
	}
	if event.SearchInfo == nil || event.SearchInfo.SearchRadius != 2.0 || event.SearchInfo.TotalCaptainsFound != 1 {
		t.Errorf("unexpected search info: %+v", event.SearchInfo)
	}
}

func TestMatching_EscalatesThroughEveryRadius(t *testing.T) {
	t.Parallel()

	finder := NewMockCaptainFinder()
	sender := NewMockSender()
	captain := &domain.Captain{ID: "captain-1", SocketID: "sock-captain-1"}
	finder.ByRadius[8.0] = []*domain.Captain{captain}

	ride, rider := testRide()
	result, err := newMatcher(finder, sender).Dispatch(context.Background(), ride, rider)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if !reflect.DeepEqual(finder.RadiiProbed, []float64{2.0, 4.0, 6.0, 8.0}) {
		t.Errorf("expected probes at 2,4,6,8, got %v", finder.RadiiProbed)
	}
	if result.SearchRadiusKm != 8.0 {
		t.Errorf("expected searchRadius=8, got %v", result.SearchRadiusKm)
	}
}

func TestMatching_NoCaptainsAtCeiling(t *testing.T) {
	t.Parallel()

	finder := NewMockCaptainFinder()
	sender := NewMockSender()

	ride, rider := testRide()
	result, err := newMatcher(finder, sender).Dispatch(context.Background(), ride, rider)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if !reflect.DeepEqual(finder.RadiiProbed, []float64{2.0, 4.0, 6.0, 8.0, 10.0}) {
		t.Errorf("expected probes at 2,4,6,8,10, got %v", finder.RadiiProbed)
	}
	if result.CaptainsFound != 0 {
		t.Errorf("expected captainsFound=0, got %d", result.CaptainsFound)
	}
	if result.SearchRadiusKm != 10.0 {
		t.Errorf("expected searchRadius=10, got %v", result.SearchRadiusKm)
	}

	// The empty search is a notification to the rider, not an error.
	events := sender.EventsNamed(service.EventNoCaptains)
	if len(events) != 1 {
		t.Fatalf("expected one no-captains-available event, got %d", len(events))
	}
	if events[0].SocketID != rider.SocketID {
		t.Errorf("event went to %s, want %s", events[0].SocketID, rider.SocketID)
	}
	if offers := sender.EventsNamed(service.EventNewRide); len(offers) != 0 {
		t.Errorf("expected no offers, got %d", len(offers))
	}
}

func TestMatching_BroadcastsToEveryMatchedCaptain(t *testing.T) {
	t.Parallel()

	finder := NewMockCaptainFinder()
	sender := NewMockSender()
	finder.ByRadius[2.0] = []*domain.Captain{
		{ID: "captain-1", SocketID: "sock-1"},
		{ID: "captain-2", SocketID: "sock-2"},
		{ID: "captain-3", SocketID: "sock-3"},
	}

	ride, rider := testRide()
	result, err := newMatcher(finder, sender).Dispatch(context.Background(), ride, rider)
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}

	if result.CaptainsFound != 3 {
		t.Errorf("expected captainsFound=3, got %d", result.CaptainsFound)
	}
	offers := sender.EventsNamed(service.EventNewRide)
	if len(offers) != 3 {
		t.Fatalf("expected three offers, got %d", len(offers))
	}
	seen := make(map[string]bool)
	for _, o := range offers {
		seen[o.SocketID] = true
	}
	for _, want := range []string{"sock-1", "sock-2", "sock-3"} {
		if !seen[want] {
			t.Errorf("no offer delivered to %s", want)
		}
	}
}

func TestMatching_GeocodeFailureFailsDispatch(t *testing.T) {
	t.Parallel()

	finder := NewMockCaptainFinder()
	sender := NewMockSender()
	geocoder := NewMockGeocoder()
	geocoder.GeocodeError = maps.ErrUpstream

	matcher := service.NewMatchingService(geocoder, finder, service.NewNotificationService(sender))

	ride, rider := testRide()
	if _, err := matcher.Dispatch(context.Background(), ride, rider); !errors.Is(err, maps.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got: %v", err)
	}
	if len(finder.RadiiProbed) != 0 {
		t.Errorf("expected no directory probes after geocode failure, got %v", finder.RadiiProbed)
	}
}
