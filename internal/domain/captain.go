package domain

import "time"

// CaptainStatus represents the availability of a captain.
type CaptainStatus string

const (
	CaptainStatusActive   CaptainStatus = "active"
	CaptainStatusInactive CaptainStatus = "inactive"
)

// VehicleType represents the service class of a captain's vehicle.
type VehicleType string

const (
	VehicleTypeAuto      VehicleType = "auto"
	VehicleTypeCar       VehicleType = "car"
	VehicleTypeBike      VehicleType = "bike"
	VehicleTypeERickshaw VehicleType = "e-rickshaw"
)

// VehicleTypes lists every supported vehicle class.
var VehicleTypes = []VehicleType{VehicleTypeAuto, VehicleTypeCar, VehicleTypeBike, VehicleTypeERickshaw}

// Vehicle describes a captain's vehicle.
type Vehicle struct {
	Color    string
	Plate    string
	Capacity int
	Type     VehicleType
}

// Captain represents a captain account. Status, location and socket id form
// one live-state aggregate: they are only ever written together by a single
// conditional update, so an observer cannot see a half-applied state.
type Captain struct {
	ID           string
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Vehicle      Vehicle
	Status       CaptainStatus
	Lat          *float64 // last known location, nil until the first ping
	Lng          *float64
	SocketID     string // live connection id, empty while offline
	CreatedAt    time.Time
}

// HasLocation reports whether the captain has ever reported a position.
func (c *Captain) HasLocation() bool {
	return c.Lat != nil && c.Lng != nil
}

// FullName returns the captain's display name.
func (c *Captain) FullName() string {
	if c.LastName == "" {
		return c.FirstName
	}
	return c.FirstName + " " + c.LastName
}
