package service

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strconv"
	"time"

	"github.com/google/uuid"

	"urbik/internal/domain"
	"urbik/internal/observability"
	"urbik/internal/repository"
)

// Dispatcher finds captains for a fresh ride and fans out offers.
// This interface allows for testing with mock implementations.
type Dispatcher interface {
	Dispatch(ctx context.Context, ride *domain.Ride, rider *domain.Rider) (*DispatchResult, error)
}

// RideDetail is a ride populated with its rider and, once assigned, captain.
type RideDetail struct {
	Ride    *domain.Ride
	Rider   *domain.Rider
	Captain *domain.Captain
}

// RideService drives the ride state machine:
// pending -> accepted -> ongoing -> completed, strictly forward, with
// cancellation possible from pending or accepted.
type RideService struct {
	rides    repository.RideRepository
	riders   repository.RiderRepository
	captains repository.CaptainRepository
	fares    *FareService
	matcher  Dispatcher
	notifier *NotificationService
}

// NewRideService creates a new RideService.
func NewRideService(
	rides repository.RideRepository,
	riders repository.RiderRepository,
	captains repository.CaptainRepository,
	fares *FareService,
	matcher Dispatcher,
	notifier *NotificationService,
) *RideService {
	return &RideService{
		rides:    rides,
		riders:   riders,
		captains: captains,
		fares:    fares,
		matcher:  matcher,
		notifier: notifier,
	}
}

// CreateRideRequest contains the parameters for creating a ride.
type CreateRideRequest struct {
	Rider       *domain.Rider
	Pickup      string
	Destination string
	VehicleType domain.VehicleType
}

// CreateRideResult is the outcome of creating a ride and dispatching offers.
type CreateRideResult struct {
	Ride           *domain.Ride
	CaptainsFound  int
	SearchRadiusKm float64
}

// Create persists a new pending ride with a fresh OTP, then dispatches
// offers to nearby captains. The ride exists even when dispatch finds no
// one; a geocoding failure after persistence still fails the call.
func (s *RideService) Create(ctx context.Context, req CreateRideRequest) (*CreateRideResult, error) {
	if req.Pickup == "" {
		return nil, ErrPickupRequired
	}
	if req.Destination == "" {
		return nil, ErrDestinationRequired
	}
	if req.VehicleType == "" {
		return nil, ErrVehicleTypeRequired
	}
	if _, err := ValidateVehicleType(string(req.VehicleType)); err != nil {
		return nil, err
	}

	quote, err := s.fares.Quote(ctx, req.Pickup, req.Destination)
	if err != nil {
		return nil, err
	}

	otp, err := generateOTP()
	if err != nil {
		return nil, err
	}

	ride := &domain.Ride{
		ID:          uuid.New().String(),
		RiderID:     req.Rider.ID,
		Pickup:      req.Pickup,
		Destination: req.Destination,
		Fare:        quote.Fares[req.VehicleType],
		Status:      domain.RideStatusPending,
		OTP:         otp,
		Distance:    quote.DistanceMeters,
		Duration:    quote.DurationSeconds,
		CreatedAt:   time.Now(),
	}

	if err := s.rides.Create(ctx, ride); err != nil {
		return nil, err
	}
	observability.RidesCreated.Inc()

	dispatch, err := s.matcher.Dispatch(ctx, ride, req.Rider)
	if err != nil {
		return nil, err
	}

	return &CreateRideResult{
		Ride:           ride,
		CaptainsFound:  dispatch.CaptainsFound,
		SearchRadiusKm: dispatch.SearchRadiusKm,
	}, nil
}

// Accept assigns the captain and moves the ride to accepted, but only if it
// is still pending: the losing side of two concurrent accepts gets
// ErrRideAlreadyAccepted instead of silently overwriting the winner.
func (s *RideService) Accept(ctx context.Context, rideID string, captain *domain.Captain) (*RideDetail, error) {
	if rideID == "" {
		return nil, ErrRideIDRequired
	}

	if err := s.rides.AssignIfPending(ctx, rideID, captain.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRideAlreadyAccepted
		}
		return nil, err
	}

	detail, err := s.detail(ctx, rideID, true)
	if err != nil {
		return nil, err
	}

	s.notifier.RideConfirmed(detail.Rider.SocketID, detail)
	return detail, nil
}

// Start validates the rider's OTP and moves the ride to ongoing. Only the
// captain who accepted may start, and the OTP must match exactly.
func (s *RideService) Start(ctx context.Context, rideID, otp string, captain *domain.Captain) (*RideDetail, error) {
	if rideID == "" {
		return nil, ErrRideIDRequired
	}
	if otp == "" {
		return nil, ErrOTPRequired
	}

	ride, err := s.rides.GetByIDWithOTP(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.Status != domain.RideStatusAccepted {
		return nil, ErrRideNotAccepted
	}
	if ride.CaptainID != captain.ID {
		return nil, ErrNotRideCaptain
	}
	if ride.OTP != otp {
		return nil, ErrInvalidOTP
	}

	err = s.rides.TransitionOwned(ctx, rideID, captain.ID, domain.RideStatusAccepted, domain.RideStatusOngoing)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRideNotAccepted
		}
		return nil, err
	}

	detail, err := s.detail(ctx, rideID, false)
	if err != nil {
		return nil, err
	}

	s.notifier.RideStarted(detail.Rider.SocketID, detail)
	return detail, nil
}

// End completes an ongoing ride. Only the assigned captain may end it.
func (s *RideService) End(ctx context.Context, rideID string, captain *domain.Captain) (*RideDetail, error) {
	if rideID == "" {
		return nil, ErrRideIDRequired
	}

	ride, err := s.rides.GetByID(ctx, rideID)
	if err != nil {
		return nil, err
	}
	if ride.CaptainID != captain.ID {
		return nil, ErrNotRideCaptain
	}
	if ride.Status != domain.RideStatusOngoing {
		return nil, ErrRideNotOngoing
	}

	err = s.rides.TransitionOwned(ctx, rideID, captain.ID, domain.RideStatusOngoing, domain.RideStatusCompleted)
	if err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRideNotOngoing
		}
		return nil, err
	}

	detail, err := s.detail(ctx, rideID, false)
	if err != nil {
		return nil, err
	}

	s.notifier.RideEnded(detail.Rider.SocketID, detail)
	return detail, nil
}

// Cancel lets the rider abandon a ride that has not started: allowed from
// pending or accepted only. The assigned captain, if any, is notified.
func (s *RideService) Cancel(ctx context.Context, rideID string, rider *domain.Rider) (*RideDetail, error) {
	if rideID == "" {
		return nil, ErrRideIDRequired
	}

	if err := s.rides.CancelForRider(ctx, rideID, rider.ID); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrRideCannotBeCancelled
		}
		return nil, err
	}

	detail, err := s.detail(ctx, rideID, false)
	if err != nil {
		return nil, err
	}

	if detail.Captain != nil {
		s.notifier.RideCancelled(detail.Captain.SocketID, detail)
	}
	return detail, nil
}

// GetFare quotes every vehicle class for a trip.
func (s *RideService) GetFare(ctx context.Context, pickup, destination string) (*FareQuote, error) {
	return s.fares.Quote(ctx, pickup, destination)
}

// ValidateVehicleType parses a vehicle type string.
func ValidateVehicleType(v string) (domain.VehicleType, error) {
	switch domain.VehicleType(v) {
	case domain.VehicleTypeAuto, domain.VehicleTypeCar, domain.VehicleTypeBike, domain.VehicleTypeERickshaw:
		return domain.VehicleType(v), nil
	case "":
		return "", ErrVehicleTypeRequired
	default:
		return "", ErrInvalidVehicleType
	}
}

// detail loads a ride with its rider and captain populated.
func (s *RideService) detail(ctx context.Context, rideID string, withOTP bool) (*RideDetail, error) {
	var ride *domain.Ride
	var err error
	if withOTP {
		ride, err = s.rides.GetByIDWithOTP(ctx, rideID)
	} else {
		ride, err = s.rides.GetByID(ctx, rideID)
	}
	if err != nil {
		return nil, err
	}

	rider, err := s.riders.GetByID(ctx, ride.RiderID)
	if err != nil {
		return nil, err
	}

	detail := &RideDetail{Ride: ride, Rider: rider}
	if ride.CaptainID != "" {
		captain, err := s.captains.GetByID(ctx, ride.CaptainID)
		if err != nil {
			return nil, err
		}
		detail.Captain = captain
	}
	return detail, nil
}

// generateOTP draws a 6-digit code uniformly from 100000-999999.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
