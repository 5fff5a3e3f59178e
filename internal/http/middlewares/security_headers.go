package middlewares

import (
	"github.com/gin-gonic/gin"
)

// API responses only: nothing here is meant to be framed, sniffed or cached.
const apiCSP = "default-src 'none'; frame-ancestors 'none'"

// SecurityHeaders sets response hardening headers. User documents are personal
// data, so shared caches and browsers are told not to store them.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		h.Set("Referrer-Policy", "no-referrer")
		h.Set("Content-Security-Policy", apiCSP)
		h.Set("Cache-Control", "no-store")
		c.Next()
	}
}
