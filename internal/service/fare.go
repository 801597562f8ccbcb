package service

import (
	"context"
	"math"

	"urbik/internal/domain"
	"urbik/internal/maps"
)

// Per-class rate tables. Fixed configuration, not user-editable.
var (
	baseFare = map[domain.VehicleType]float64{
		domain.VehicleTypeAuto:      30,
		domain.VehicleTypeCar:       50,
		domain.VehicleTypeBike:      20,
		domain.VehicleTypeERickshaw: 25,
	}
	perKmRate = map[domain.VehicleType]float64{
		domain.VehicleTypeAuto:      10,
		domain.VehicleTypeCar:       15,
		domain.VehicleTypeBike:      8,
		domain.VehicleTypeERickshaw: 12,
	}
	perMinuteRate = map[domain.VehicleType]float64{
		domain.VehicleTypeAuto:      2,
		domain.VehicleTypeCar:       3,
		domain.VehicleTypeBike:      1.5,
		domain.VehicleTypeERickshaw: 1.8,
	}
)

// FareQuote holds the price for every vehicle class plus the travel estimate
// the prices were derived from.
type FareQuote struct {
	Fares           map[domain.VehicleType]int64
	DistanceMeters  int64
	DurationSeconds int64
}

// FareService computes trip prices from provider travel estimates.
type FareService struct {
	geocoder maps.Geocoder
}

// NewFareService creates a new FareService.
func NewFareService(geocoder maps.Geocoder) *FareService {
	return &FareService{geocoder: geocoder}
}

// Quote prices a trip for every vehicle class simultaneously:
// base + km*perKm + min*perMin, rounded to the nearest whole unit.
func (s *FareService) Quote(ctx context.Context, pickup, destination string) (*FareQuote, error) {
	if pickup == "" {
		return nil, ErrPickupRequired
	}
	if destination == "" {
		return nil, ErrDestinationRequired
	}

	dt, err := s.geocoder.DistanceTime(ctx, pickup, destination)
	if err != nil {
		return nil, err
	}

	km := float64(dt.DistanceMeters) / 1000
	min := float64(dt.DurationSeconds) / 60

	fares := make(map[domain.VehicleType]int64, len(domain.VehicleTypes))
	for _, vt := range domain.VehicleTypes {
		fares[vt] = int64(math.Round(baseFare[vt] + km*perKmRate[vt] + min*perMinuteRate[vt]))
	}

	return &FareQuote{
		Fares:           fares,
		DistanceMeters:  dt.DistanceMeters,
		DurationSeconds: dt.DurationSeconds,
	}, nil
}
