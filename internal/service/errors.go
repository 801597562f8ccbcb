package service

import "errors"

var (
	// ErrPickupRequired is returned when the pickup address is empty.
	ErrPickupRequired = errors.New("pickup is required")

	// ErrDestinationRequired is returned when the destination address is empty.
	ErrDestinationRequired = errors.New("destination is required")

	// ErrVehicleTypeRequired is returned when no vehicle type is given.
	ErrVehicleTypeRequired = errors.New("vehicle type is required")

	// ErrInvalidVehicleType is returned for an unsupported vehicle class.
	ErrInvalidVehicleType = errors.New("invalid vehicle type")

	// ErrRideIDRequired is returned when the ride id is empty.
	ErrRideIDRequired = errors.New("ride id is required")

	// ErrOTPRequired is returned when no OTP is submitted.
	ErrOTPRequired = errors.New("otp is required")

	// ErrInvalidOTP is returned when the submitted OTP does not match.
	ErrInvalidOTP = errors.New("invalid otp")

	// ErrInvalidLatitude is returned when a latitude is outside [-90, 90].
	ErrInvalidLatitude = errors.New("latitude must be between -90 and 90")

	// ErrInvalidLongitude is returned when a longitude is outside [-180, 180].
	ErrInvalidLongitude = errors.New("longitude must be between -180 and 180")

	// ErrRideAlreadyAccepted is returned when a captain confirms a ride
	// another captain already won.
	ErrRideAlreadyAccepted = errors.New("ride already accepted by another captain")

	// ErrRideNotAccepted is returned when starting a ride that is not accepted.
	ErrRideNotAccepted = errors.New("ride not accepted")

	// ErrRideNotOngoing is returned when ending a ride that is not ongoing.
	ErrRideNotOngoing = errors.New("ride not ongoing")

	// ErrRideCannotBeCancelled is returned when a ride is past the point of
	// cancellation.
	ErrRideCannotBeCancelled = errors.New("ride cannot be cancelled in current state")

	// ErrNotRideCaptain is returned when a captain operates on a ride
	// assigned to someone else.
	ErrNotRideCaptain = errors.New("ride is assigned to a different captain")

	// ErrEmailTaken is returned when registering with an email already in use.
	ErrEmailTaken = errors.New("email already registered")

	// ErrPlateTaken is returned when registering a vehicle plate already in use.
	ErrPlateTaken = errors.New("vehicle plate already registered")

	// ErrInvalidCapacity is returned for a vehicle capacity outside 1..50.
	ErrInvalidCapacity = errors.New("vehicle capacity must be between 1 and 50")

	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrNoToken is returned when a request carries no credential.
	ErrNoToken = errors.New("no authentication token provided")

	// ErrTokenRevoked is returned for a credential revoked by logout.
	ErrTokenRevoked = errors.New("token has been revoked")

	// ErrInvalidToken is returned for a malformed, expired or unknown credential.
	ErrInvalidToken = errors.New("invalid or expired token")
)
