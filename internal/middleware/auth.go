package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"urbik/internal/service"
)

// Context keys under which authenticated principals are stored.
const (
	ContextRider   = "rider"
	ContextCaptain = "captain"
	ContextToken   = "authToken"
)

// ExtractToken pulls the bearer credential from the token cookie or the
// Authorization header. Returns "" when neither carries one.
func ExtractToken(c *gin.Context) string {
	if cookie, err := c.Cookie("token"); err == nil && cookie != "" {
		return cookie
	}
	auth := c.GetHeader("Authorization")
	if after, found := strings.CutPrefix(auth, "Bearer "); found {
		return strings.TrimSpace(after)
	}
	return ""
}

// AuthRider rejects requests without a valid rider credential and attaches
// the loaded rider to the context.
func AuthRider(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		rider, err := auth.AuthenticateRider(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Set(ContextRider, rider)
		c.Set(ContextToken, token)
		c.Next()
	}
}

// AuthCaptain rejects requests without a valid captain credential and
// attaches the loaded captain to the context.
func AuthCaptain(auth *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ExtractToken(c)
		captain, err := auth.AuthenticateCaptain(c.Request.Context(), token)
		if err != nil {
			abortUnauthorized(c, err)
			return
		}
		c.Set(ContextCaptain, captain)
		c.Set(ContextToken, token)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, err error) {
	c.AbortWithStatusJSON(401, gin.H{"message": err.Error()})
}
