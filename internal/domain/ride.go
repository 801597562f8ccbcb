package domain

import "time"

// RideStatus represents the current status of a ride. The machine is
// strictly forward: pending -> accepted -> ongoing -> completed, with
// cancellation allowed from pending or accepted only.
type RideStatus string

const (
	RideStatusPending   RideStatus = "pending"
	RideStatusAccepted  RideStatus = "accepted"
	RideStatusOngoing   RideStatus = "ongoing"
	RideStatusCompleted RideStatus = "completed"
	RideStatusCancelled RideStatus = "cancelled"
)

// Ride represents a ride request in the system.
type Ride struct {
	ID          string
	RiderID     string
	CaptainID   string // empty until a captain accepts
	Pickup      string // free-text address
	Destination string
	Fare        int64 // whole currency units
	Status      RideStatus
	OTP         string // 6 digits; only populated by explicit with-OTP reads
	Distance    int64  // meters, 0 when unknown
	Duration    int64  // seconds, 0 when unknown
	PaymentID   string
	OrderID     string
	Signature   string
	CreatedAt   time.Time
}
