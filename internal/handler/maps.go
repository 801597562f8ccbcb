package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"urbik/internal/maps"
)

// MapsHandler handles HTTP requests for geocoding, routing and autocomplete.
type MapsHandler struct {
	geocoder maps.Geocoder
}

// NewMapsHandler creates a new MapsHandler.
func NewMapsHandler(geocoder maps.Geocoder) *MapsHandler {
	return &MapsHandler{geocoder: geocoder}
}

// GetCoordinates handles GET /maps/get-coordinates?address=...
func (h *MapsHandler) GetCoordinates(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "address is required"})
		return
	}

	coords, err := h.geocoder.Geocode(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, coords)
}

// GetDistanceTime handles GET /maps/get-distance-time?origin=...&destination=...
func (h *MapsHandler) GetDistanceTime(c *gin.Context) {
	origin := c.Query("origin")
	destination := c.Query("destination")
	if origin == "" || destination == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "origin and destination are required"})
		return
	}

	dt, err := h.geocoder.DistanceTime(c.Request.Context(), origin, destination)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, dt)
}

// GetSuggestions handles GET /maps/get-suggestions?input=...
func (h *MapsHandler) GetSuggestions(c *gin.Context) {
	input := c.Query("input")
	if input == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "input is required"})
		return
	}

	suggestions, err := h.geocoder.Suggestions(c.Request.Context(), input)
	if err != nil {
		respondError(c, err)
		return
	}
	respondJSON(c, http.StatusOK, suggestions)
}
