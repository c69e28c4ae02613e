package util

import (
	"net/http"

	"github.com/atelierhq/atelier/internal/models"
	"github.com/gin-gonic/gin"
)

// GetUserFromContext extracts the authenticated admin user from the Gin context.
// Returns the user and true if found, or nil and false if not authenticated.
// If the user is not authenticated, it automatically responds with 401 Unauthorized.
func GetUserFromContext(c *gin.Context) (*models.User, bool) {
	user, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return nil, false
	}
	userPtr, ok := user.(*models.User)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "invalid user data in context"})
		return nil, false
	}
	return userPtr, true
}

// GetSessionID extracts the visitor session id set by the session middleware.
// Returns an empty string when no session was established (e.g. direct API calls).
func GetSessionID(c *gin.Context) string {
	if sessionID, exists := c.Get("session_id"); exists {
		if s, ok := sessionID.(string); ok {
			return s
		}
	}
	return ""
}
