package middleware

import (
	"net/http"
	"strings"

	"pulsefit/models"
	"pulsefit/services/identity"
	"pulsefit/utils"

	"github.com/gin-gonic/gin"
)

// Context keys set by BearerAuth.
const (
	ContextUserID   = "userID"
	ContextUserRole = "userRole"
)

// BearerAuth resolves "Authorization: Bearer <token>" to a user and stores
// its id and role on the context.
func BearerAuth(resolver identity.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		if tokenString == "" {
			utils.JSONError(c, http.StatusUnauthorized, "Missing or invalid Authorization header")
			return
		}

		user, err := resolver.Resolve(c.Request.Context(), tokenString)
		if err != nil {
			utils.RespondError(c, err)
			return
		}

		c.Set(ContextUserID, user.ID)
		c.Set(ContextUserRole, string(user.Role))
		c.Next()
	}
}

// RequirePartner must run after BearerAuth.
func RequirePartner() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(ContextUserRole) != string(models.RolePartner) {
			utils.JSONError(c, http.StatusForbidden, "partner access required")
			return
		}
		c.Next()
	}
}
