package service

import "fmt"

// Realtime event names, inbound and outbound.
const (
	EventNewRide         = "new-ride"
	EventRideConfirmed   = "ride-confirmed"
	EventRideStarted     = "ride-started"
	EventRideEnded       = "ride-ended"
	EventRideCancelled   = "ride-cancelled"
	EventNoCaptains      = "no-captains-available"
	EventError           = "error"
	EventLocationUpdated = "location-updated"
	EventStatusUpdated   = "status-updated"
)

// Sender delivers a named event to a single live connection. Delivery is
// fire-and-forget; implementations never return errors to business code.
type Sender interface {
	Send(socketID, event string, data any)
}

// RiderView is the rider shape embedded in realtime payloads.
type RiderView struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName,omitempty"`
	Email     string `json:"email"`
}

// VehicleView is the vehicle shape embedded in realtime payloads.
type VehicleView struct {
	Color       string `json:"color"`
	Plate       string `json:"plate"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
}

// CaptainView is the captain shape embedded in realtime payloads.
type CaptainView struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName,omitempty"`
	Vehicle   VehicleView `json:"vehicle"`
}

// SearchInfo describes the escalating search that produced an offer.
type SearchInfo struct {
	SearchRadius       float64 `json:"searchRadius"`
	TotalCaptainsFound int     `json:"totalCaptainsFound"`
}

// RideEvent is the ride payload carried by ride lifecycle events.
type RideEvent struct {
	ID          string       `json:"id"`
	Pickup      string       `json:"pickup"`
	Destination string       `json:"destination"`
	Fare        int64        `json:"fare"`
	Status      string       `json:"status"`
	OTP         string       `json:"otp,omitempty"`
	Distance    int64        `json:"distance,omitempty"`
	Duration    int64        `json:"duration,omitempty"`
	User        *RiderView   `json:"user,omitempty"`
	Captain     *CaptainView `json:"captain,omitempty"`
	SearchInfo  *SearchInfo  `json:"searchInfo,omitempty"`
}

// NotificationService shapes ride events and pushes them through the relay.
type NotificationService struct {
	sender Sender
}

// NewNotificationService creates a new NotificationService.
func NewNotificationService(sender Sender) *NotificationService {
	return &NotificationService{sender: sender}
}

// NewRideOffer pushes a ride offer to one captain. The OTP never reaches
// captains; only the rider holds it.
func (s *NotificationService) NewRideOffer(captainSocketID string, detail *RideDetail, radiusKm float64, totalFound int) {
	event := newRideEvent(detail, false)
	event.SearchInfo = &SearchInfo{SearchRadius: radiusKm, TotalCaptainsFound: totalFound}
	s.sender.Send(captainSocketID, EventNewRide, event)
}

// RideConfirmed tells the rider a captain accepted; the payload carries the
// OTP the rider must hand to the captain.
func (s *NotificationService) RideConfirmed(riderSocketID string, detail *RideDetail) {
	s.sender.Send(riderSocketID, EventRideConfirmed, newRideEvent(detail, true))
}

// RideStarted tells the rider the trip is underway.
func (s *NotificationService) RideStarted(riderSocketID string, detail *RideDetail) {
	s.sender.Send(riderSocketID, EventRideStarted, newRideEvent(detail, false))
}

// RideEnded tells the rider the trip is complete.
func (s *NotificationService) RideEnded(riderSocketID string, detail *RideDetail) {
	s.sender.Send(riderSocketID, EventRideEnded, newRideEvent(detail, false))
}

// RideCancelled tells the assigned captain the rider cancelled.
func (s *NotificationService) RideCancelled(captainSocketID string, detail *RideDetail) {
	s.sender.Send(captainSocketID, EventRideCancelled, newRideEvent(detail, false))
}

// NoCaptainsAvailable tells the rider the escalating search came up empty.
func (s *NotificationService) NoCaptainsAvailable(riderSocketID, rideID string, maxRadiusKm float64) {
	s.sender.Send(riderSocketID, EventNoCaptains, map[string]any{
		"rideId":       rideID,
		"searchRadius": maxRadiusKm,
		"message":      fmt.Sprintf("No captains available within %.0fkm of your location. Please try again later.", maxRadiusKm),
	})
}

func newRideEvent(detail *RideDetail, includeOTP bool) RideEvent {
	ride := detail.Ride
	event := RideEvent{
		ID:          ride.ID,
		Pickup:      ride.Pickup,
		Destination: ride.Destination,
		Fare:        ride.Fare,
		Status:      string(ride.Status),
		Distance:    ride.Distance,
		Duration:    ride.Duration,
	}
	if includeOTP {
		event.OTP = ride.OTP
	}
	if detail.Rider != nil {
		event.User = &RiderView{
			ID:        detail.Rider.ID,
			FirstName: detail.Rider.FirstName,
			LastName:  detail.Rider.LastName,
			Email:     detail.Rider.Email,
		}
	}
	if detail.Captain != nil {
		event.Captain = &CaptainView{
			ID:        detail.Captain.ID,
			FirstName: detail.Captain.FirstName,
			LastName:  detail.Captain.LastName,
			Vehicle: VehicleView{
				Color:       detail.Captain.Vehicle.Color,
				Plate:       detail.Captain.Vehicle.Plate,
				Capacity:    detail.Captain.Vehicle.Capacity,
				VehicleType: string(detail.Captain.Vehicle.Type),
			},
		}
	}
	return event
}
