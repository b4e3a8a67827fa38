package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SessionMiddleware extracts the browsing session identifier.
// Sessions are anonymous: a client without an X-Session-ID header gets
// a fresh uuid back in the response header and keeps sending it to
// retain its cart. A malformed id is rejected rather than silently
// replaced, so a client cannot drift between two carts.
func SessionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader("X-Session-ID")

		if sessionID == "" {
			sessionID = uuid.New().String()
		} else if _, err := uuid.Parse(sessionID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error": gin.H{
					"code":    "INVALID_SESSION_ID",
					"message": "X-Session-ID must be a valid UUID.",
				},
			})
			c.Abort()
			return
		}

		c.Header("X-Session-ID", sessionID)
		c.Set("session_id", sessionID)
		c.Next()
	}
}

// GetSessionID retrieves the session ID from gin context
func GetSessionID(c *gin.Context) string {
	return c.GetString("session_id")
}
