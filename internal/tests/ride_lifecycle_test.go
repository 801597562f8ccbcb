package tests

import (
	"context"
	"errors"
	"strconv"
	"testing"

	"urbik/internal/domain"
	"urbik/internal/service"
)

// rideFixture wires a ride service over mocks with one rider and one captain
// seeded, and a finder that places the captain at the starting radius.
type rideFixture struct {
	rides    *MockRideRepository
	riders   *MockRiderRepository
	captains *MockCaptainRepository
	finder   *MockCaptainFinder
	sender   *MockSender
	service  *service.RideService
	rider    *domain.Rider
	captain  *domain.Captain
}

func newRideFixture() *rideFixture {
	f := &rideFixture{
		rides:    NewMockRideRepository(),
		riders:   NewMockRiderRepository(),
		captains: NewMockCaptainRepository(),
		finder:   NewMockCaptainFinder(),
		sender:   NewMockSender(),
	}

	f.rider = &domain.Rider{
		ID:        "rider-1",
		FirstName: "Asha",
		Email:     "asha@example.com",
		SocketID:  "sock-rider-1",
	}
	f.riders.AddRider(f.rider)

	f.captain = &domain.Captain{
		ID:        "captain-1",
		FirstName: "Ravi",
		Email:     "ravi@example.com",
		Vehicle:   domain.Vehicle{Color: "black", Plate: "KA01AB1234", Capacity: 3, Type: domain.VehicleTypeAuto},
		Status:    domain.CaptainStatusActive,
		SocketID:  "sock-captain-1",
	}
	f.captains.AddCaptain(f.captain)
	f.finder.ByRadius[2.0] = []*domain.Captain{f.captain}

	notifier := service.NewNotificationService(f.sender)
	fares := service.NewFareService(NewMockGeocoder())
	matcher := service.NewMatchingService(NewMockGeocoder(), f.finder, notifier)
	f.service = service.NewRideService(f.rides, f.riders, f.captains, fares, matcher, notifier)
	return f
}

func (f *rideFixture) createRide(t *testing.T) *service.CreateRideResult {
	t.Helper()
	result, err := f.service.Create(context.Background(), service.CreateRideRequest{
		Rider:       f.rider,
		Pickup:      "MG Road",
		Destination: "Airport",
		VehicleType: domain.VehicleTypeAuto,
	})
	if err != nil {
		t.Fatalf("failed to create ride: %v", err)
	}
	return result
}

func TestRideCreate_YieldsPendingRideWithOTP(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	ride := result.Ride
	if ride.Status != domain.RideStatusPending {
		t.Errorf("expected status pending, got %s", ride.Status)
	}
	if len(ride.OTP) != 6 {
		t.Fatalf("expected 6-digit OTP, got %q", ride.OTP)
	}
	n, err := strconv.Atoi(ride.OTP)
	if err != nil {
		t.Fatalf("OTP is not numeric: %q", ride.OTP)
	}
	if n < 100000 || n > 999999 {
		t.Errorf("OTP out of range: %d", n)
	}
	if ride.Fare == 0 {
		t.Error("expected a non-zero fare")
	}
}

func TestRideCreate_OTPNotInDefaultReads(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	stored, err := f.rides.GetByID(context.Background(), result.Ride.ID)
	if err != nil {
		t.Fatalf("failed to load ride: %v", err)
	}
	if stored.OTP != "" {
		t.Errorf("default read leaked the OTP: %q", stored.OTP)
	}

	withOTP, err := f.rides.GetByIDWithOTP(context.Background(), result.Ride.ID)
	if err != nil {
		t.Fatalf("failed to load ride with OTP: %v", err)
	}
	if withOTP.OTP != result.Ride.OTP {
		t.Error("explicit with-OTP read did not return the OTP")
	}
}

func TestRideCreate_RequiresInputs(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	ctx := context.Background()

	cases := []struct {
		name string
		req  service.CreateRideRequest
		want error
	}{
		{"missing pickup", service.CreateRideRequest{Rider: f.rider, Destination: "B", VehicleType: "auto"}, service.ErrPickupRequired},
		{"missing destination", service.CreateRideRequest{Rider: f.rider, Pickup: "A", VehicleType: "auto"}, service.ErrDestinationRequired},
		{"missing vehicle type", service.CreateRideRequest{Rider: f.rider, Pickup: "A", Destination: "B"}, service.ErrVehicleTypeRequired},
		{"unknown vehicle type", service.CreateRideRequest{Rider: f.rider, Pickup: "A", Destination: "B", VehicleType: "helicopter"}, service.ErrInvalidVehicleType},
	}
	for _, tc := range cases {
		if _, err := f.service.Create(ctx, tc.req); !errors.Is(err, tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.name, tc.want, err)
		}
	}
}

func TestRideAccept_MovesToAcceptedAndNotifiesRider(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	detail, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain)
	if err != nil {
		t.Fatalf("failed to accept ride: %v", err)
	}

	if detail.Ride.Status != domain.RideStatusAccepted {
		t.Errorf("expected status accepted, got %s", detail.Ride.Status)
	}
	if detail.Ride.CaptainID != f.captain.ID {
		t.Errorf("expected captain %s, got %s", f.captain.ID, detail.Ride.CaptainID)
	}

	// The rider's confirmation carries the OTP to hand to the captain.
	confirmed := f.sender.EventsNamed(service.EventRideConfirmed)
	if len(confirmed) != 1 {
		t.Fatalf("expected one ride-confirmed event, got %d", len(confirmed))
	}
	if confirmed[0].SocketID != f.rider.SocketID {
		t.Errorf("ride-confirmed went to %s, want %s", confirmed[0].SocketID, f.rider.SocketID)
	}
	event, ok := confirmed[0].Data.(service.RideEvent)
	if !ok {
		t.Fatalf("unexpected payload type %T", confirmed[0].Data)
	}
	if event.OTP == "" {
		t.Error("expected the confirmation to include the OTP")
	}
}

func TestRideAccept_SecondAcceptConflicts(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	other := &domain.Captain{ID: "captain-2", FirstName: "Meena", Email: "meena@example.com",
		Vehicle: domain.Vehicle{Plate: "KA02CD5678", Capacity: 4, Type: domain.VehicleTypeCar}}
	f.captains.AddCaptain(other)

	if _, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain); err != nil {
		t.Fatalf("first accept failed: %v", err)
	}

	_, err := f.service.Accept(context.Background(), result.Ride.ID, other)
	if !errors.Is(err, service.ErrRideAlreadyAccepted) {
		t.Errorf("expected ErrRideAlreadyAccepted, got: %v", err)
	}

	// The winner keeps the assignment.
	stored, _ := f.rides.GetByID(context.Background(), result.Ride.ID)
	if stored.CaptainID != f.captain.ID {
		t.Errorf("losing accept overwrote the winner: %s", stored.CaptainID)
	}
}

func TestRideStart_WithCorrectOTP(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	if _, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	detail, err := f.service.Start(context.Background(), result.Ride.ID, result.Ride.OTP, f.captain)
	if err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if detail.Ride.Status != domain.RideStatusOngoing {
		t.Errorf("expected status ongoing, got %s", detail.Ride.Status)
	}

	if got := f.sender.EventsNamed(service.EventRideStarted); len(got) != 1 {
		t.Errorf("expected one ride-started event, got %d", len(got))
	}
}

func TestRideStart_WrongOTPLeavesStatusUnchanged(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	if _, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	wrong := "000000"
	if wrong == result.Ride.OTP {
		wrong = "000001"
	}
	_, err := f.service.Start(context.Background(), result.Ride.ID, wrong, f.captain)
	if !errors.Is(err, service.ErrInvalidOTP) {
		t.Fatalf("expected ErrInvalidOTP, got: %v", err)
	}

	stored, _ := f.rides.GetByID(context.Background(), result.Ride.ID)
	if stored.Status != domain.RideStatusAccepted {
		t.Errorf("wrong OTP changed status to %s", stored.Status)
	}
}

func TestRideStart_RequiresAcceptedStatusAndOwnership(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	// Still pending.
	if _, err := f.service.Start(context.Background(), result.Ride.ID, result.Ride.OTP, f.captain); !errors.Is(err, service.ErrRideNotAccepted) {
		t.Errorf("expected ErrRideNotAccepted, got: %v", err)
	}

	if _, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// A different captain with the right OTP still may not start it.
	other := &domain.Captain{ID: "captain-2", Email: "x@example.com", Vehicle: domain.Vehicle{Plate: "KA09ZZ0001"}}
	f.captains.AddCaptain(other)
	if _, err := f.service.Start(context.Background(), result.Ride.ID, result.Ride.OTP, other); !errors.Is(err, service.ErrNotRideCaptain) {
		t.Errorf("expected ErrNotRideCaptain, got: %v", err)
	}
}

func TestRideEnd_RequiresOngoingAndOwnership(t *testing.T) {
	t.Parallel()

	f := newRideFixture()
	result := f.createRide(t)

	if _, err := f.service.Accept(context.Background(), result.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}

	// Accepted but not started.
	if _, err := f.service.End(context.Background(), result.Ride.ID, f.captain); !errors.Is(err, service.ErrRideNotOngoing) {
		t.Errorf("expected ErrRideNotOngoing, got: %v", err)
	}

	if _, err := f.service.Start(context.Background(), result.Ride.ID, result.Ride.OTP, f.captain); err != nil {
		t.Fatalf("start failed: %v", err)
	}

	other := &domain.Captain{ID: "captain-2", Email: "y@example.com", Vehicle: domain.Vehicle{Plate: "KA09ZZ0002"}}
	f.captains.AddCaptain(other)
	if _, err := f.service.End(context.Background(), result.Ride.ID, other); !errors.Is(err, service.ErrNotRideCaptain) {
		t.Errorf("expected ErrNotRideCaptain, got: %v", err)
	}

	detail, err := f.service.End(context.Background(), result.Ride.ID, f.captain)
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if detail.Ride.Status != domain.RideStatusCompleted {
		t.Errorf("expected status completed, got %s", detail.Ride.Status)
	}
	if got := f.sender.EventsNamed(service.EventRideEnded); len(got) != 1 {
		t.Errorf("expected one ride-ended event, got %d", len(got))
	}
}

func TestRideCancel_AllowedBeforeStartOnly(t *testing.T) {
	t.Parallel()

	f := newRideFixture()

	// Cancel while pending.
	pending := f.createRide(t)
	detail, err := f.service.Cancel(context.Background(), pending.Ride.ID, f.rider)
	if err != nil {
		t.Fatalf("cancel of pending ride failed: %v", err)
	}
	if detail.Ride.Status != domain.RideStatusCancelled {
		t.Errorf("expected status cancelled, got %s", detail.Ride.Status)
	}

	// Cancel while accepted notifies the assigned captain.
	accepted := f.createRide(t)
	if _, err := f.service.Accept(context.Background(), accepted.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.service.Cancel(context.Background(), accepted.Ride.ID, f.rider); err != nil {
		t.Fatalf("cancel of accepted ride failed: %v", err)
	}
	cancelled := f.sender.EventsNamed(service.EventRideCancelled)
	if len(cancelled) != 1 || cancelled[0].SocketID != f.captain.SocketID {
		t.Errorf("expected one ride-cancelled event to the captain, got %+v", cancelled)
	}

	// Ongoing rides cannot be cancelled.
	ongoing := f.createRide(t)
	if _, err := f.service.Accept(context.Background(), ongoing.Ride.ID, f.captain); err != nil {
		t.Fatalf("accept failed: %v", err)
	}
	if _, err := f.service.Start(context.Background(), ongoing.Ride.ID, ongoing.Ride.OTP, f.captain); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	if _, err := f.service.Cancel(context.Background(), ongoing.Ride.ID, f.rider); !errors.Is(err, service.ErrRideCannotBeCancelled) {
		t.Errorf("expected ErrRideCannotBeCancelled, got: %v", err)
	}
}
