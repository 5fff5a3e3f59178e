package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/geocoder89/userapi/internal/apperr"
	"github.com/geocoder89/userapi/internal/auth"
	"github.com/geocoder89/userapi/internal/config"
	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/geocoder89/userapi/internal/http/handlers"
	"github.com/geocoder89/userapi/internal/http/middlewares"
	"github.com/geocoder89/userapi/internal/observability"
	"github.com/geocoder89/userapi/internal/security"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

const maxBodyBytes = 1 << 20

type Deps struct {
	Store user.SessionProvider
	// Cache is optional.
	Cache handlers.UserCache
	// Prom is optional.
	Prom *observability.Prom
	// Ping backs /readyz; nil means always ready.
	Ping func(ctx context.Context) error
	// Metrics, when set, is mounted at /metrics.
	Metrics http.Handler
}

func NewRouter(cfg config.Config, deps Deps) (*gin.Engine, error) {
	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// middleware

	r.Use(gin.CustomRecovery(recoverToJSON))
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middlewares.RequestID())
	r.Use(middlewares.RequestLogger())
	r.Use(middlewares.SecurityHeaders())

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(middlewares.CORSMiddleware(cfg.CORSAllowedOrigins))
	}

	if deps.Prom != nil {
		r.Use(deps.Prom.GinHandleMiddleware())
	}

	r.Use(middlewares.MaxBodyBytes(maxBodyBytes))

	r.NoRoute(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusNotFound, "Not found", nil)
	})
	r.NoMethod(func(ctx *gin.Context) {
		handlers.RespondError(ctx, http.StatusMethodNotAllowed, "Method not allowed", nil)
	})

	// Routes
	meta := handlers.NewMetaHandler(r.Routes)
	r.GET("/", meta.Home)
	r.GET("/debug/routes", meta.ListRoutes)

	h := handlers.NewHealthHandler(deps.Ping)
	r.GET("/healthz", h.Healthz)
	r.GET("/readyz", h.Readyz)

	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics))
	}

	usersHandler := handlers.NewUsersHandler(deps.Store, handlers.UsersOptions{
		Cache:         deps.Cache,
		Prom:          deps.Prom,
		StrictUpdates: cfg.UpdatePolicy == config.UpdatePolicyStrict,
		Timeout:       cfg.DBTimeout,
	})

	users := r.Group("/users")

	if cfg.AuthEnabled() {
		jwtManager := auth.NewManager(cfg.JWTSecret, cfg.TokenTTL)

		creds, err := security.NewCredentials(cfg.AdminUsername, cfg.AdminPassword, cfg.AdminPasswordHash)
		if err != nil {
			return nil, err
		}

		authHandler := handlers.NewAuthHandler(creds, jwtManager)
		r.POST("/login", authHandler.Login)

		users.Use(middlewares.NewAuthMiddleware(jwtManager).RequireAuth())
	}

	users.GET("/:id", usersHandler.GetUser)
	users.POST("", usersHandler.CreateUser)
	users.PUT("/:id", usersHandler.UpdateUser)
	users.DELETE("/:id", usersHandler.DeleteUser)

	return r, nil
}

// recoverToJSON keeps the status of a typed *apperr.Error panic; anything else is
// a fixed 500.
func recoverToJSON(ctx *gin.Context, recovered any) {
	if err, ok := recovered.(error); ok {
		var appErr *apperr.Error
		if errors.As(err, &appErr) {
			ctx.AbortWithStatusJSON(appErr.Kind.Status(), gin.H{"error": appErr.Error()})
			return
		}
	}

	slog.Default().ErrorContext(ctx.Request.Context(), "panic recovered",
		"route", ctx.FullPath(),
		"panic", recovered,
	)

	ctx.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}
