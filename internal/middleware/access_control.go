package middleware

import (
	"net/http"
	"strconv"

	"ambulance-request-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// RequireHospitalAccess verifies the session belongs to the hospital in the path.
// Expected path parameter: :id
func RequireHospitalAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		hospitalID, exists := c.Get(ctxHospitalID)
		if !exists {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Hospital not authenticated")
			c.Abort()
			return
		}

		pathID, err := strconv.ParseUint(c.Param("id"), 10, 32)
		if err != nil {
			utils.ErrorResponse(c, http.StatusBadRequest, "Invalid hospital ID")
			c.Abort()
			return
		}

		if hospitalID.(uint) != uint(pathID) {
			utils.ErrorResponse(c, http.StatusForbidden, "Access denied: you don't have permission to access this hospital")
			c.Abort()
			return
		}

		c.Next()
	}
}
