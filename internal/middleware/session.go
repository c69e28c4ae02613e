package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const sessionCookie = "atelier_session"

// SessionMiddleware assigns a visitor session id via cookie.
// The id groups search history rows so clicks can be matched back to the
// search that produced them; it carries no authentication weight.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, err := c.Cookie(sessionCookie)
		if err != nil || sessionID == "" {
			// Fall back to an explicit header for non-browser clients
			sessionID = c.GetHeader("X-Session-ID")
		}
		if sessionID == "" {
			sessionID = uuid.New().String()
			c.SetCookie(sessionCookie, sessionID, int((30 * 24 * time.Hour).Seconds()), "/", "", false, true)
		}

		c.Set("session_id", sessionID)
		c.Next()
	}
}
