package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/geocoder89/userapi/internal/apperr"
	"github.com/geocoder89/userapi/internal/domain/user"
	"github.com/geocoder89/userapi/internal/observability"
	"github.com/gin-gonic/gin"
)

const (
	msgUserNotFound    = "User not found"
	msgMissingFields   = "Missing required fields"
	msgNoUpdateFields  = "No fields to update"
	msgUserCreated     = "User created successfully"
	msgUserUpdated     = "User updated successfully"
	msgUserDeleted     = "User deleted successfully"
	defaultUserTimeout = 5 * time.Second
)

// UserCache is the optional read-through cache in front of get-by-id.
type UserCache interface {
	Get(ctx context.Context, userID int64) (user.User, bool)
	Set(ctx context.Context, u user.User)
	Delete(ctx context.Context, userID int64)
}

type UsersOptions struct {
	Cache         UserCache
	Prom          *observability.Prom
	StrictUpdates bool
	Timeout       time.Duration
}

type UsersHandler struct {
	store         user.SessionProvider
	cache         UserCache
	prom          *observability.Prom
	strictUpdates bool
	timeout       time.Duration
}

func NewUsersHandler(store user.SessionProvider, opts UsersOptions) *UsersHandler {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultUserTimeout
	}

	return &UsersHandler{
		store:         store,
		cache:         opts.Cache,
		prom:          opts.Prom,
		strictUpdates: opts.StrictUpdates,
		timeout:       timeout,
	}
}

// withUsers acquires a store session for the duration of fn and always releases it.
func (h *UsersHandler) withUsers(ctx context.Context, fn func(repo user.Repository) error) error {
	sess, err := h.store.Acquire(ctx)
	if err != nil {
		return apperr.Internal(err)
	}

	defer func() {
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), h.timeout)
		defer cancel()

		if err := sess.Release(rctx); err != nil {
			slog.Default().WarnContext(ctx, "store release failed", "err", err)
		}
	}()

	return fn(sess.Users())
}

// userIDParam mirrors an integer route converter: a non-integer id matches nothing.
func userIDParam(ctx *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (h *UsersHandler) GetUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		RespondNotFound(ctx, msgUserNotFound)
		return
	}

	if h.cache != nil {
		u, hit := h.cache.Get(ctx.Request.Context(), id)
		h.prom.ObserveCache(hit)

		if hit {
			ctx.JSON(http.StatusOK, u)
			return
		}
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	var found user.User
	err := h.withUsers(cctx, func(repo user.Repository) error {
		var err error
		found, err = repo.FindByUserID(cctx, id)
		return err
	})

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, msgUserNotFound)
			return
		}
		RespondErr(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Set(ctx.Request.Context(), found)
	}

	ctx.JSON(http.StatusOK, found)
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req, msgMissingFields) {
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	var created user.User
	err := h.withUsers(cctx, func(repo user.Repository) error {
		var err error
		created, err = repo.Insert(cctx, req.ToUser())
		return err
	})

	if err != nil {
		RespondErr(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Delete(ctx.Request.Context(), created.UserID)
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"message": msgUserCreated,
		"user":    created,
	})
}

func (h *UsersHandler) UpdateUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		RespondNotFound(ctx, msgUserNotFound)
		return
	}

	raw, err := ctx.GetRawData()
	if err != nil {
		RespondBadRequest(ctx, msgInvalidBody, nil)
		return
	}

	upd, err := user.ParseUpdate(raw)
	if err != nil {
		RespondBadRequest(ctx, msgInvalidBody, gin.H{"reason": err.Error()})
		return
	}

	if err := upd.Check(h.strictUpdates); err != nil {
		var unsupported *user.UnsupportedFieldsError
		if errors.As(err, &unsupported) {
			RespondBadRequest(ctx, unsupported.Error(), gin.H{"fields": unsupported.Fields})
			return
		}
		RespondBadRequest(ctx, msgNoUpdateFields, nil)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	var matched int64
	err = h.withUsers(cctx, func(repo user.Repository) error {
		var err error
		matched, err = repo.UpdateByUserID(cctx, id, upd.Fields())
		return err
	})

	if err != nil {
		RespondErr(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Delete(ctx.Request.Context(), id)
		if newID, ok := upd["user_id"].(int64); ok {
			h.cache.Delete(ctx.Request.Context(), newID)
		}
	}

	if matched == 0 {
		RespondNotFound(ctx, msgUserNotFound)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": msgUserUpdated})
}

func (h *UsersHandler) DeleteUser(ctx *gin.Context) {
	id, ok := userIDParam(ctx)
	if !ok {
		RespondNotFound(ctx, msgUserNotFound)
		return
	}

	cctx, cancel := context.WithTimeout(ctx.Request.Context(), h.timeout)
	defer cancel()

	var deleted int64
	err := h.withUsers(cctx, func(repo user.Repository) error {
		var err error
		deleted, err = repo.DeleteByUserID(cctx, id)
		return err
	})

	if err != nil {
		RespondErr(ctx, err)
		return
	}

	if h.cache != nil {
		h.cache.Delete(ctx.Request.Context(), id)
	}

	if deleted == 0 {
		RespondNotFound(ctx, msgUserNotFound)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": msgUserDeleted})
}
