package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TokenIssuer interface {
	GenerateToken(username string) (string, error)
}

type CredentialChecker interface {
	Match(username, password string) bool
}

type AuthHandler struct {
	creds CredentialChecker
	jwt   TokenIssuer
}

func NewAuthHandler(creds CredentialChecker, jwtManager TokenIssuer) *AuthHandler {
	return &AuthHandler{
		creds: creds,
		jwt:   jwtManager,
	}
}

// Missing fields are just bad credentials, not a validation error.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(ctx *gin.Context) {
	var req LoginRequest

	if !BindJSON(ctx, &req, msgInvalidBody) {
		return
	}

	if !h.creds.Match(req.Username, req.Password) {
		RespondUnAuthorized(ctx, "Invalid credentials")
		return
	}

	token, err := h.jwt.GenerateToken(req.Username)

	if err != nil {
		RespondErr(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"token": token,
	})
}
