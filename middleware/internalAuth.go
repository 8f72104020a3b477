package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const InternalTokenHeader = "X-Internal-Token"

// InternalTokenMiddleware guards service-to-service endpoints such as the
// payment confirmation callback. An empty configured token rejects everything.
func InternalTokenMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		provided := c.GetHeader(InternalTokenHeader)
		if expected == "" || subtle.ConstantTimeCompare([]byte(provided), []byte(expected)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized internal access"})
			return
		}
		c.Set("internalCall", true)
		c.Next()
	}
}
