package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"urbik/internal/domain"
	"urbik/internal/middleware"
	"urbik/internal/service"
)

// UserHandler handles HTTP requests for rider accounts.
type UserHandler struct {
	auth *service.AuthService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(auth *service.AuthService) *UserHandler {
	return &UserHandler{auth: auth}
}

// FullNameRequest is the nested name object used by register bodies.
type FullNameRequest struct {
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname"`
}

// RegisterUserRequest is the HTTP request body for rider registration.
type RegisterUserRequest struct {
	FullName FullNameRequest `json:"fullname"`
	Email    string          `json:"email"`
	Password string          `json:"password"`
}

// LoginRequest is the HTTP request body for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse is the HTTP response shape for rider data. The password hash
// never leaves the service.
type UserResponse struct {
	ID        string `json:"id"`
	FirstName string `json:"firstname"`
	LastName  string `json:"lastname,omitempty"`
	Email     string `json:"email"`
	SocketID  string `json:"socketId,omitempty"`
}

func newUserResponse(r *domain.Rider) UserResponse {
	return UserResponse{
		ID:        r.ID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		SocketID:  r.SocketID,
	}
}

// Register handles POST /users/register
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterUserRequest
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

	rider, token, err := h.auth.RegisterRider(c.Request.Context(), service.RegisterRiderRequest{
		FirstName: req.FullName.FirstName,
		LastName:  req.FullName.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	setTokenCookie(c, token)
	respondJSON(c, http.StatusCreated, gin.H{"token": token, "user": newUserResponse(rider)})
}

// Login handles POST /users/login
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body"})
		return
	}

	rider, token, err := h.auth.LoginRider(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	setTokenCookie(c, token)
	respondJSON(c, http.StatusOK, gin.H{"token": token, "user": newUserResponse(rider)})
}

// Profile handles GET /users/profile
func (h *UserHandler) Profile(c *gin.Context) {
	rider := c.MustGet(middleware.ContextRider).(*domain.Rider)
	respondJSON(c, http.StatusOK, newUserResponse(rider))
}

// Logout handles GET /users/logout
func (h *UserHandler) Logout(c *gin.Context) {
	token := c.GetString(middleware.ContextToken)
	if err := h.auth.Logout(c.Request.Context(), token); err != nil {
		respondError(c, err)
		return
	}

	clearTokenCookie(c)
	respondJSON(c, http.StatusOK, gin.H{"message": "Logged out"})
}

// setTokenCookie attaches the credential as a cookie for browser clients;
// API clients read it from the response body instead.
func setTokenCookie(c *gin.Context, token string) {
	c.SetCookie("token", token, int(service.TokenTTL.Seconds()), "/", "", false, true)
}

func clearTokenCookie(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
}
