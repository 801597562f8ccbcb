package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"urbik/internal/maps"
	"urbik/internal/repository"
	"urbik/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Message: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrPickupRequired),
		errors.Is(err, service.ErrDestinationRequired),
		errors.Is(err, service.ErrVehicleTypeRequired),
		errors.Is(err, service.ErrInvalidVehicleType),
		errors.Is(err, service.ErrRideIDRequired),
		errors.Is(err, service.ErrOTPRequired),
		errors.Is(err, service.ErrInvalidLatitude),
		errors.Is(err, service.ErrInvalidLongitude),
		errors.Is(err, service.ErrInvalidCapacity),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrPlateTaken):
		return http.StatusBadRequest

	// Auth errors
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, service.ErrNoToken),
		errors.Is(err, service.ErrTokenRevoked),
		errors.Is(err, service.ErrInvalidToken),
		errors.Is(err, service.ErrInvalidOTP):
		return http.StatusUnauthorized

	// Ownership errors
	case errors.Is(err, service.ErrNotRideCaptain):
		return http.StatusForbidden

	// Conflict errors
	case errors.Is(err, service.ErrRideAlreadyAccepted),
		errors.Is(err, service.ErrRideNotAccepted),
		errors.Is(err, service.ErrRideNotOngoing),
		errors.Is(err, service.ErrRideCannotBeCancelled):
		return http.StatusConflict

	// Upstream geocoding failure
	case errors.Is(err, maps.ErrUpstream):
		return http.StatusInternalServerError

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
