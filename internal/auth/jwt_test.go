package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndVerify(t *testing.T) {
	m := NewManager("test-secret", time.Hour)

	raw, err := m.GenerateToken("admin")
	require.NoError(t, err)

	claims, err := m.VerifyToken(raw)
	require.NoError(t, err)

	assert.Equal(t, "admin", claims.User)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)
}

func TestVerify_Expired(t *testing.T) {
	m := NewManager("test-secret", time.Hour)
	m.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }

	raw, err := m.GenerateToken("admin")
	require.NoError(t, err)

	m.now = time.Now
	_, err = m.VerifyToken(raw)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestVerify_WrongSecret(t *testing.T) {
	raw, err := NewManager("other-secret", time.Hour).GenerateToken("admin")
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_Garbage(t *testing.T) {
	_, err := NewManager("test-secret", time.Hour).VerifyToken("not.a.token")
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_RejectsOtherAlgorithms(t *testing.T) {
	claims := Claims{
		User: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

func TestVerify_NoneAlgorithm(t *testing.T) {
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{User: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewManager("test-secret", time.Hour).VerifyToken(raw)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}
