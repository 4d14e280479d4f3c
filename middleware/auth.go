package middleware

import (
	"net/http"
	"strings"

	"meetsync/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where authenticated user ids land in the gin context.
const ContextUserIDKey = "userID"

// JWTAuthMiddleware validates a bearer token and stores the subject in the
// request context. With optional=true an absent or invalid token passes
// through unauthenticated instead of aborting.
func JWTAuthMiddleware(optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		userID, err := utils.ExtractIDFromToken(tokenString)
		if err != nil || userID == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Insufficient authorization"})
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}
