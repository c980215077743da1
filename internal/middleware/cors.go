package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"ambulance-request-backend/internal/config"

	"github.com/gin-gonic/gin"
)

// CORS returns a middleware that answers credentialed cross-origin requests
// from the configured origins.
func CORS(cfg *config.Config) gin.HandlerFunc {
	origins := cfg.CORS.AllowedOrigins
	methods := strings.Join(cfg.CORS.AllowedMethods, ", ")
	headers := strings.Join(cfg.CORS.AllowedHeaders, ", ")
	exposed := strings.Join(cfg.CORS.ExposedHeaders, ", ")
	maxAge := strconv.Itoa(int(cfg.CORS.MaxAge.Seconds()))

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		if origin != "" && slices.Contains(origins, origin) {
			h := c.Writer.Header()
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
			if exposed != "" {
				h.Set("Access-Control-Expose-Headers", exposed)
			}
			if c.Request.Method == http.MethodOptions {
				h.Set("Access-Control-Allow-Methods", methods)
				h.Set("Access-Control-Allow-Headers", headers)
				h.Set("Access-Control-Max-Age", maxAge)
			}
		}

		// Handle preflight OPTIONS request
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
