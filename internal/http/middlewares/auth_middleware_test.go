package middlewares_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/geocoder89/userapi/internal/auth"
	"github.com/geocoder89/userapi/internal/http/middlewares"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakeVerifier struct {
	verifyFn func(token string) (*auth.Claims, error)
}

func (f *fakeVerifier) VerifyToken(token string) (*auth.Claims, error) {
	return f.verifyFn(token)
}

func protectedRouter(v middlewares.TokenVerifier) *gin.Engine {
	r := gin.New()
	m := middlewares.NewAuthMiddleware(v)

	r.GET("/private", m.RequireAuth(), func(ctx *gin.Context) {
		claims, ok := middlewares.ClaimsFromContext(ctx)
		if !ok {
			ctx.Status(http.StatusInternalServerError)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"user": claims.User})
	})

	return r
}

func TestRequireAuth(t *testing.T) {
	verifier := &fakeVerifier{
		verifyFn: func(token string) (*auth.Claims, error) {
			switch token {
			case "good":
				return &auth.Claims{User: "admin"}, nil
			case "old":
				return nil, auth.ErrTokenExpired
			default:
				return nil, auth.ErrTokenInvalid
			}
		},
	}

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantError  string
	}{
		{name: "missing_header", header: "", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenMissing},
		{name: "bearer_without_token", header: "Bearer", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenMissing},
		{name: "bare_token_no_scheme", header: "good", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenInvalid},
		{name: "wrong_scheme", header: "Basic good", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenInvalid},
		{name: "too_many_segments", header: "Bearer good extra", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenInvalid},
		{name: "expired", header: "Bearer old", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenExpired},
		{name: "invalid", header: "Bearer forged", wantStatus: http.StatusUnauthorized, wantError: middlewares.MsgTokenInvalid},
		{name: "valid", header: "Bearer good", wantStatus: http.StatusOK},
		{name: "valid_lowercase_scheme", header: "bearer good", wantStatus: http.StatusOK},
	}

	r := protectedRouter(verifier)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, body=%s", w.Code, tt.wantStatus, w.Body.String())
			}

			if tt.wantError == "" {
				return
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad json: %v body=%s", err, w.Body.String())
			}
			if body["error"] != tt.wantError {
				t.Fatalf("got error %q, want %q", body["error"], tt.wantError)
			}
		})
	}
}

func TestRequireAuth_RealTokens(t *testing.T) {
	mgr := auth.NewManager("test-secret", time.Hour)
	raw, err := mgr.GenerateToken("admin")
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	r := protectedRouter(mgr)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	otherRaw, _ := auth.NewManager("wrong-secret", time.Hour).GenerateToken("admin")
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+otherRaw)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("wrong secret: got status %d", w.Code)
	}
}
