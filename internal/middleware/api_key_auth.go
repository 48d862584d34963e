package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"hospital-sim-reporting/pkg/utils"

	"github.com/gin-gonic/gin"
)

// APIKeyAuth guards the manual trigger endpoints with a shared key.
// An empty configured key leaves the endpoints open.
func APIKeyAuth(configuredKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if configuredKey == "" {
			c.Next()
			return
		}

		apiKey := strings.TrimSpace(c.GetHeader("X-API-Key"))
		if apiKey == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "API key is required in X-API-Key header")
			c.Abort()
			return
		}

		if subtle.ConstantTimeCompare([]byte(apiKey), []byte(configuredKey)) != 1 {
			utils.ErrorResponse(c, http.StatusUnauthorized, "Invalid API key")
			c.Abort()
			return
		}

		c.Next()
	}
}
