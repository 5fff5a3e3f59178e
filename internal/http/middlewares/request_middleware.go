package middlewares

import (
	"log/slog"
	"time"

	"github.com/geocoder89/userapi/internal/observability"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequestIDHeader = "X-Request-Id"

func RequestID() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		// Get the request header
		id := ctx.GetHeader(RequestIDHeader)

		if id == "" {
			id = uuid.NewString()
		}

		ctx.Writer.Header().Set(RequestIDHeader, id)

		ctx.Set(CtxRequestID, id)
		ctx.Request = ctx.Request.WithContext(observability.WithRequestID(ctx.Request.Context(), id))

		ctx.Next()
	}
}

// RequestLogger writes one access record per request. request_id comes from the
// context handler; probes are logged at debug so they do not drown real traffic.
func RequestLogger() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		start := time.Now()

		route := ctx.FullPath()
		if route == "" {
			route = ctx.Request.URL.Path // fallback (e.g. 404)
		}

		method := ctx.Request.Method

		ctx.Next()

		status := ctx.Writer.Status()

		logAttrs := []any{
			"method", method,
			"route", route,
			"status", status,
			"latency_ms", time.Since(start).Milliseconds(),
		}

		if claims, ok := ClaimsFromContext(ctx); ok && claims.User != "" {
			logAttrs = append(logAttrs, "user", claims.User)
		}

		rctx := ctx.Request.Context()

		switch {
		case status >= 500:
			slog.Default().ErrorContext(rctx, "http_request", logAttrs...)
		case probePaths[route]:
			slog.Default().DebugContext(rctx, "http_request", logAttrs...)
		default:
			slog.Default().InfoContext(rctx, "http_request", logAttrs...)
		}
	}
}

var probePaths = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
}
