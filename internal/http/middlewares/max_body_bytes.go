package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const MsgBodyTooLarge = "Request body too large"

// MaxBodyBytes caps request bodies. A declared Content-Length over the cap is
// refused with 413 up front; an undeclared one is cut off by MaxBytesReader and
// fails binding as a 400.
func MaxBodyBytes(max int64) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if ctx.Request.ContentLength > max {
			ctx.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{"error": MsgBodyTooLarge})
			return
		}

		if ctx.Request.Body != nil {
			ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, max)
		}

		ctx.Next()
	}
}
