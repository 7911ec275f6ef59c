package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/rajanishsd/Zivohealthv4-sub001/pkg/errors"
)

const (
	AuthorizationHeader = "Authorization"
	APIKeyHeader        = "X-API-Key"
	BearerPrefix        = "Bearer "
)

// APIKeyAuth validates the service API key, taken from the X-API-Key header
// or an equivalent bearer Authorization header. An empty configured key
// disables authentication entirely (local development).
func APIKeyAuth(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		presented := c.GetHeader(APIKeyHeader)
		if presented == "" {
			if header := c.GetHeader(AuthorizationHeader); strings.HasPrefix(header, BearerPrefix) {
				presented = strings.TrimPrefix(header, BearerPrefix)
			}
		}

		if subtle.ConstantTimeCompare([]byte(presented), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": apperrors.ErrUnauthorized,
			})
			return
		}

		c.Next()
	}
}
