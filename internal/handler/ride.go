package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"urbik/internal/domain"
	"urbik/internal/middleware"
	"urbik/internal/service"
)

// RideHandler handles HTTP requests for rides.
type RideHandler struct {
	rideService *service.RideService
}

// NewRideHandler creates a new RideHandler.
func NewRideHandler(rideService *service.RideService) *RideHandler {
	return &RideHandler{rideService: rideService}
}

// CreateRideRequest is the HTTP request body for creating a ride.
type CreateRideRequest struct {
	Pickup      string `json:"pickup"`
	Destination string `json:"destination"`
	VehicleType string `json:"vehicleType"`
}

// RideRef is the HTTP request body for ride actions keyed by id.
type RideRef struct {
	RideID string `json:"rideId"`
}

// RideResponse is the HTTP response shape for ride data.
type RideResponse struct {
	ID          string               `json:"id"`
	Pickup      string               `json:"pickup"`
	Destination string               `json:"destination"`
	Fare        int64                `json:"fare"`
	Status      string               `json:"status"`
	OTP         string               `json:"otp,omitempty"`
	Distance    int64                `json:"distance,omitempty"`
	Duration    int64                `json:"duration,omitempty"`
	User        *service.RiderView   `json:"user,omitempty"`
	Captain     *service.CaptainView `json:"captain,omitempty"`
}

func newRideResponse(detail *service.RideDetail, includeOTP bool) RideResponse {
	ride := detail.Ride
	resp := RideResponse{
		ID:          ride.ID,
		Pickup:      ride.Pickup,
		Destination: ride.Destination,
		Fare:        ride.Fare,
		Status:      string(ride.Status),
		Distance:    ride.Distance,
		Duration:    ride.Duration,
	}
	if includeOTP {
		resp.OTP = ride.OTP
	}
	if detail.Rider != nil {
		resp.User = &service.RiderView{
			ID:        detail.Rider.ID,
			FirstName: detail.Rider.FirstName,
			LastName:  detail.Rider.LastName,
			Email:     detail.Rider.Email,
		}
	}
	if detail.Captain != nil {
		resp.Captain = &service.CaptainView{
			ID:        detail.Captain.ID,
			FirstName: detail.Captain.FirstName,
			LastName:  detail.Captain.LastName,
			Vehicle: service.VehicleView{
				Color:       detail.Captain.Vehicle.Color,
				Plate:       detail.Captain.Vehicle.Plate,
				Capacity:    detail.Captain.Vehicle.Capacity,
				VehicleType: string(detail.Captain.Vehicle.Type),
			},
		}
	}
	return resp
}

// Create handles POST /rides/create
func (h *RideHandler) Create(c *gin.Context) {
	rider := c.MustGet(middleware.ContextRider).(*domain.Rider)

	var req CreateRideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	result, err := h.rideService.Create(c.Request.Context(), service.CreateRideRequest{
		Rider:       rider,
		Pickup:      req.Pickup,
		Destination: req.Destination,
		VehicleType: domain.VehicleType(req.VehicleType),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	ride := result.Ride
	respondJSON(c, http.StatusCreated, gin.H{
		"ride": gin.H{
			"id":          ride.ID,
			"pickup":      ride.Pickup,
			"destination": ride.Destination,
			"fare":        ride.Fare,
			"status":      string(ride.Status),
			"distance":    ride.Distance,
			"duration":    ride.Duration,
		},
		"captainsFound": result.CaptainsFound,
		"searchRadius":  result.SearchRadiusKm,
	})
}

// GetFare handles GET /rides/get-fare?pickup=...&destination=...
func (h *RideHandler) GetFare(c *gin.Context) {
	quote, err := h.rideService.GetFare(c.Request.Context(), c.Query("pickup"), c.Query("destination"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, gin.H{
		"fares":    quote.Fares,
		"distance": quote.DistanceMeters,
		"duration": quote.DurationSeconds,
	})
}

// Confirm handles POST /rides/confirm
func (h *RideHandler) Confirm(c *gin.Context) {
	captain := c.MustGet(middleware.ContextCaptain).(*domain.Captain)

	var req RideRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	detail, err := h.rideService.Accept(c.Request.Context(), req.RideID, captain)
	if err != nil {
		respondError(c, err)
		return
	}
	// The accepting captain sees the ride with its OTP-free shape; the OTP
	// travels to the rider over the relay.
	respondJSON(c, http.StatusOK, newRideResponse(detail, false))
}

// Start handles GET /rides/start-ride?rideId=...&otp=...
func (h *RideHandler) Start(c *gin.Context) {
	captain := c.MustGet(middleware.ContextCaptain).(*domain.Captain)

	detail, err := h.rideService.Start(c.Request.Context(), c.Query("rideId"), c.Query("otp"), captain)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, newRideResponse(detail, false))
}

// End handles POST /rides/end-ride
func (h *RideHandler) End(c *gin.Context) {
	captain := c.MustGet(middleware.ContextCaptain).(*domain.Captain)

	var req RideRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	detail, err := h.rideService.End(c.Request.Context(), req.RideID, captain)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, newRideResponse(detail, false))
}

// Cancel handles POST /rides/cancel
func (h *RideHandler) Cancel(c *gin.Context) {
	rider := c.MustGet(middleware.ContextRider).(*domain.Rider)

	var req RideRef
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	detail, err := h.rideService.Cancel(c.Request.Context(), req.RideID, rider)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, newRideResponse(detail, false))
}
