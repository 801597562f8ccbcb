package tests

import (
	"context"
	"errors"
	"testing"

	"urbik/internal/domain"
	"urbik/internal/maps"
	"urbik/internal/service"
)

func TestFareQuote_PricesEveryClass(t *testing.T) {
	t.Parallel()

	geocoder := NewMockGeocoder()
	geocoder.Travel = maps.DistanceTime{DistanceMeters: 5000, DurationSeconds: 600}

	fares := service.NewFareService(geocoder)

	quote, err := fares.Quote(context.Background(), "MG Road", "Airport")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// 5 km, 10 min: base + km*perKm + min*perMin.
	want := map[domain.VehicleType]int64{
		domain.VehicleTypeAuto:      100, // 30 + 50 + 20
		domain.VehicleTypeCar:       155, // 50 + 75 + 30
		domain.VehicleTypeBike:      75,  // 20 + 40 + 15
		domain.VehicleTypeERickshaw: 103, // 25 + 60 + 18
	}
	for vt, fare := range want {
		if quote.Fares[vt] != fare {
			t.Errorf("fare for %s: want %d, got %d", vt, fare, quote.Fares[vt])
		}
	}

	if quote.DistanceMeters != 5000 || quote.DurationSeconds != 600 {
		t.Errorf("expected travel estimate to be carried through, got %d/%d",
			quote.DistanceMeters, quote.DurationSeconds)
	}
}

func TestFareQuote_RoundsToNearestUnit(t *testing.T) {
	t.Parallel()

	geocoder := NewMockGeocoder()
	// 3.33 km, 4.1666... min.
	geocoder.Travel = maps.DistanceTime{DistanceMeters: 3330, DurationSeconds: 250}

	fares := service.NewFareService(geocoder)

	quote, err := fares.Quote(context.Background(), "A", "B")
	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}

	// auto: 30 + 33.3 + 8.333... = 71.633... -> 72
	if got := quote.Fares[domain.VehicleTypeAuto]; got != 72 {
		t.Errorf("expected auto fare 72, got %d", got)
	}
	// bike: 20 + 26.64 + 6.25 = 52.89 -> 53
	if got := quote.Fares[domain.VehicleTypeBike]; got != 53 {
		t.Errorf("expected bike fare 53, got %d", got)
	}
}

func TestFareQuote_RequiresAddresses(t *testing.T) {
	t.Parallel()

	fares := service.NewFareService(NewMockGeocoder())

	if _, err := fares.Quote(context.Background(), "", "Airport"); !errors.Is(err, service.ErrPickupRequired) {
		t.Errorf("expected ErrPickupRequired, got: %v", err)
	}
	if _, err := fares.Quote(context.Background(), "MG Road", ""); !errors.Is(err, service.ErrDestinationRequired) {
		t.Errorf("expected ErrDestinationRequired, got: %v", err)
	}
}

func TestFareQuote_PropagatesUpstreamFailure(t *testing.T) {
	t.Parallel()

	geocoder := NewMockGeocoder()
	geocoder.TravelError = maps.ErrUpstream

	fares := service.NewFareService(geocoder)

	if _, err := fares.Quote(context.Background(), "A", "B"); !errors.Is(err, maps.ErrUpstream) {
		t.Errorf("expected ErrUpstream, got: %v", err)
	}
}
