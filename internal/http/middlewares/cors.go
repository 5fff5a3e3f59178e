package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

var (
	corsMethods = strings.Join([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
	}, ",")
	corsHeaders = strings.Join([]string{"Authorization", "Content-Type", RequestIDHeader}, ",")
)

// CORSMiddleware echoes allowed origins ("*" allows any) and answers preflights
// with 204. A plain OPTIONS request without Access-Control-Request-Method falls
// through to the router. Installed only when CORS_ALLOWED_ORIGINS is set.
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	allowAny := false

	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAny = true
			continue
		}
		allowed[origin] = struct{}{}
	}

	return func(ctx *gin.Context) {
		origin := ctx.GetHeader("Origin")
		if origin == "" {
			ctx.Next()
			return
		}

		ctx.Header("Vary", "Origin")

		_, ok := allowed[origin]
		if !ok && !allowAny {
			ctx.Next()
			return
		}

		ctx.Header("Access-Control-Allow-Origin", origin)
		ctx.Header("Access-Control-Expose-Headers", RequestIDHeader)

		if ctx.Request.Method == http.MethodOptions && ctx.GetHeader("Access-Control-Request-Method") != "" {
			ctx.Header("Access-Control-Allow-Methods", corsMethods)
			ctx.Header("Access-Control-Allow-Headers", corsHeaders)
			ctx.Header("Access-Control-Max-Age", "600")
			ctx.AbortWithStatus(http.StatusNoContent)
			return
		}

		ctx.Next()
	}
}
