package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/geocoder89/userapi/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	MsgTokenMissing = "Token is missing!"
	MsgTokenExpired = "Token has expired!"
	MsgTokenInvalid = "Invalid token!"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyToken(token string) (*auth.Claims, error)
}

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

var (
	errNoToken  = errors.New("no token")
	errBadToken = errors.New("malformed authorization header")
)

// bearerToken expects "Bearer <token>". A header with no token segment counts as
// missing; any other shape is rejected as invalid.
func bearerToken(header string) (string, error) {
	parts := strings.Fields(header)

	switch len(parts) {
	case 0:
		return "", errNoToken
	case 1:
		if strings.EqualFold(parts[0], "Bearer") {
			return "", errNoToken
		}
		return "", errBadToken
	case 2:
		if !strings.EqualFold(parts[0], "Bearer") {
			return "", errBadToken
		}
		return parts[1], nil
	default:
		return "", errBadToken
	}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err != nil {
			msg := MsgTokenInvalid
			if errors.Is(err, errNoToken) {
				msg = MsgTokenMissing
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		claims, err := m.jwt.VerifyToken(raw)
		if err != nil {
			msg := MsgTokenInvalid
			if errors.Is(err, auth.ErrTokenExpired) {
				msg = MsgTokenExpired
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(CtxClaims, claims)

		c.Next()
	}
}

// ClaimsFromContext returns the claims RequireAuth attached, if any.
func ClaimsFromContext(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(CtxClaims)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
