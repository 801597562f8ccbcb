package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"urbik/internal/domain"
	"urbik/internal/middleware"
	"urbik/internal/service"
)

// CaptainHandler handles HTTP requests for captain accounts.
type CaptainHandler struct {
	auth *service.AuthService
}

// NewCaptainHandler creates a new CaptainHandler.
func NewCaptainHandler(auth *service.AuthService) *CaptainHandler {
	return &CaptainHandler{auth: auth}
}

// VehicleRequest is the vehicle object in captain registration bodies.
type VehicleRequest struct {
	Color       string `json:"color"`
	Plate       string `json:"plate"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
}

// RegisterCaptainRequest is the HTTP request body for captain registration.
type RegisterCaptainRequest struct {
	FullName FullNameRequest `json:"fullname"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Vehicle  VehicleRequest  `json:"vehicle"`
}

// VehicleResponse is the vehicle shape in captain responses.
type VehicleResponse struct {
	Color       string `json:"color"`
	Plate       string `json:"plate"`
	Capacity    int    `json:"capacity"`
	VehicleType string `json:"vehicleType"`
}

// CaptainResponse is the HTTP response shape for captain data.
type CaptainResponse struct {
	ID        string          `json:"id"`
	FirstName string          `json:"firstname"`
	LastName  string          `json:"lastname,omitempty"`
	Email     string          `json:"email"`
	Vehicle   VehicleResponse `json:"vehicle"`
	Status    string          `json:"status"`
	SocketID  string          `json:"socketId,omitempty"`
}

func newCaptainResponse(cp *domain.Captain) CaptainResponse {
	return CaptainResponse{
		ID:        cp.ID,
		FirstName: cp.FirstName,
		LastName:  cp.LastName,
		Email:     cp.Email,
		Vehicle: VehicleResponse{
			Color:       cp.Vehicle.Color,
			Plate:       cp.Vehicle.Plate,
			Capacity:    cp.Vehicle.Capacity,
			VehicleType: string(cp.Vehicle.Type),
		},
		Status:   string(cp.Status),
		SocketID: cp.SocketID,
	}
}

// Register handles POST /captains/register
func (h *CaptainHandler) Register(c *gin.Context) {
	var req RegisterCaptainRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	if req.FullName.FirstName == "" || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "firstname, email and password are required"})
		return
	}
	if len(req.Password) < 6 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "password must be at least 6 characters"})
		return
	}
	if req.Vehicle.Color == "" || req.Vehicle.Plate == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "vehicle color and plate are required"})
		return
	}

	captain, token, err := h.auth.RegisterCaptain(c.Request.Context(), service.RegisterCaptainRequest{
		FirstName: req.FullName.FirstName,
		LastName:  req.FullName.LastName,
		Email:     req.Email,
		Password:  req.Password,
		Vehicle: domain.Vehicle{
			Color:    req.Vehicle.Color,
			Plate:    req.Vehicle.Plate,
			Capacity: req.Vehicle.Capacity,
			Type:     domain.VehicleType(req.Vehicle.VehicleType),
		},
	})
	if err != nil {
		respondError(c, err)
		return
	}

	setTokenCookie(c, token)
	respondJSON(c, http.StatusCreated, gin.H{"token": token, "captain": newCaptainResponse(captain)})
}

// Login handles POST /captains/login
func (h *CaptainHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	captain, token, err := h.auth.LoginCaptain(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setTokenCookie(c, token)
	respondJSON(c, http.StatusOK, gin.H{"token": token, "captain": newCaptainResponse(captain)})
}

// Profile handles GET /captains/profile
func (h *CaptainHandler) Profile(c *gin.Context) {
	captain := c.MustGet(middleware.ContextCaptain).(*domain.Captain)
	respondJSON(c, http.StatusOK, gin.H{"captain": newCaptainResponse(captain)})
}

// Logout handles GET /captains/logout
func (h *CaptainHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	clearTokenCookie(c)
	respondJSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}
