package middleware

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

const AdminKeyHeader = "X-Admin-Key"

// AdminAuth checks the X-Admin-Key header. With an empty adminKey every
// protected route answers 503, so the debug API is never exposed without a
// key.
func AdminAuth(adminKey string) gin.HandlerFunc {
	want := []byte(adminKey)
	return func(c *gin.Context) {
		if adminKey == "" {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable,
				gin.H{"error": "debug endpoints disabled: set server.admin_key in config"})
			return
		}
		got := []byte(c.GetHeader(AdminKeyHeader))
		if subtle.ConstantTimeCompare(got, want) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Next()
	}
}
