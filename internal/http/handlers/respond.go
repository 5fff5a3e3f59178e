package handlers

import (
	"log/slog"
	"net/http"

	"github.com/geocoder89/userapi/internal/apperr"
	"github.com/gin-gonic/gin"
)

// RespondError writes the {"error": message} body every failure uses.
func RespondError(ctx *gin.Context, status int, message string, details interface{}) {
	body := gin.H{"error": message}
	if details != nil {
		body["details"] = details
	}
	ctx.JSON(status, body)
}

// RespondErr maps a typed error to its status. Untyped errors are internal and
// their raw text is returned to the caller.
func RespondErr(ctx *gin.Context, err error) {
	appErr := apperr.From(err)

	if appErr.Kind == apperr.KindInternal {
		slog.Default().ErrorContext(ctx.Request.Context(), "request failed",
			"route", ctx.FullPath(),
			"err", err,
		)
	}

	RespondError(ctx, appErr.Kind.Status(), appErr.Error(), nil)
}

func RespondBadRequest(ctx *gin.Context, message string, details interface{}) {
	RespondError(ctx, http.StatusBadRequest, message, details)
}

func RespondNotFound(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusNotFound, message, nil)
}

func RespondUnAuthorized(ctx *gin.Context, message string) {
	RespondError(ctx, http.StatusUnauthorized, message, nil)
}
