package middlewares_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/geocoder89/userapi/internal/http/middlewares"
	"github.com/geocoder89/userapi/internal/observability"
	"github.com/gin-gonic/gin"
)

func TestRequestID_GeneratesAndEchoes(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/", func(ctx *gin.Context) {
		id, _ := ctx.Get(middlewares.CtxRequestID)
		ctx.String(http.StatusOK, "%v", id)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	got := w.Header().Get(middlewares.RequestIDHeader)
	if got == "" || got != w.Body.String() {
		t.Fatalf("generated id mismatch: header=%q body=%q", got, w.Body.String())
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middlewares.RequestIDHeader, "abc-123")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get(middlewares.RequestIDHeader) != "abc-123" {
		t.Fatalf("incoming id not echoed: %q", w.Header().Get(middlewares.RequestIDHeader))
	}
}

func TestRequestID_OnRequestContext(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.RequestID())
	r.GET("/", func(ctx *gin.Context) {
		id, _ := observability.RequestIDFromContext(ctx.Request.Context())
		ctx.String(http.StatusOK, id)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middlewares.RequestIDHeader, "ctx-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != "ctx-7" {
		t.Fatalf("request context id = %q, want ctx-7", w.Body.String())
	}
}

func TestMaxBodyBytes_RejectsLargeBodies(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.MaxBodyBytes(8))
	r.POST("/", func(ctx *gin.Context) {
		var v map[string]any
		if err := ctx.ShouldBindJSON(&v); err != nil {
			ctx.Status(http.StatusBadRequest)
			return
		}
		ctx.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"much too long"}`)))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("declared length: got status %d, want 413", w.Code)
	}
	if !strings.Contains(w.Body.String(), middlewares.MsgBodyTooLarge) {
		t.Fatalf("declared length: body %s", w.Body.String())
	}

	// chunked bodies have no length up front and are cut off while binding
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"much too long"}`))
	req.ContentLength = -1
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("undeclared length: got status %d, want 400", w.Code)
	}
}

func TestCORSMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.CORSMiddleware([]string{"https://app.example.com"}))
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("preflight status %d, want 204", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "https://app.example.com" {
		t.Fatalf("origin not echoed: %v", w.Header())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Fatalf("unexpected allow-origin for unknown origin")
	}
}

func TestSecurityHeaders(t *testing.T) {
	r := gin.New()
	r.Use(middlewares.SecurityHeaders())
	r.GET("/", func(ctx *gin.Context) { ctx.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	want := map[string]string{
		"X-Content-Type-Options": "nosniff",
		"X-Frame-Options":        "DENY",
		"Cache-Control":          "no-store",
	}
	for k, v := range want {
		if got := w.Header().Get(k); got != v {
			t.Fatalf("%s = %q, want %q", k, got, v)
		}
	}
}
