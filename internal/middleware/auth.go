package middleware

import (
	"net/http"
	"strings"

	"ambulance-request-backend/internal/service"
	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

const (
	ctxHospitalID  = "hospitalID"
	ctxAmbulanceID = "ambulanceID"
	ctxRole        = "role"
)

// AuthMiddleware validates JWT access token from Authorization header
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Extract token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authorization header required")
			c.Abort()
			return
		}

		// Check Bearer prefix
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid authorization format. Use: Bearer <token>")
			c.Abort()
			return
		}

		claims, err := utils.ValidateAccessToken(parts[1])
		if err != nil {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		// Inject claims into context
		c.Set(ctxHospitalID, claims.HospitalID)
		c.Set(ctxAmbulanceID, claims.AmbulanceID)
		c.Set(ctxRole, claims.Role)

		c.Next()
	}
}

// RequireRole rejects sessions whose role is not one of roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get(ctxRole)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.ErrorResponse(c, http.StatusForbidden, "Insufficient role for this operation")
		c.Abort()
	}
}

// ActorFrom returns the authenticated caller set by AuthMiddleware. The zero
// Actor is returned on unauthenticated routes and fails every access check.
func ActorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		HospitalID:  c.GetUint(ctxHospitalID),
		AmbulanceID: c.GetUint(ctxAmbulanceID),
		Role:        c.GetString(ctxRole),
	}
}
