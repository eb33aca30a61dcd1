package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func securityRouter(opt SecurityOptions, pre ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(pre...)
	r.Use(SecurityHeaders(opt))
	r.GET("/api/v1/recipes", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	r.GET("/api/v1/me/favorites", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	return r
}

func TestSecurityHeaders_Baseline(t *testing.T) {
	r := securityRouter(SecurityOptions{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))

	h := w.Header()
	if h.Get("X-Content-Type-Options") != "nosniff" ||
		h.Get("X-Frame-Options") != "DENY" ||
		h.Get("Referrer-Policy") != "no-referrer" {
		t.Fatalf("baseline headers missing: %#v", h)
	}
	if h.Get("Permissions-Policy") != "" || h.Get("Cache-Control") != "" || h.Get("Strict-Transport-Security") != "" {
		t.Fatalf("unexpected optional headers: %#v", h)
	}
	if got := h.Get("Access-Control-Expose-Headers"); got != "X-Request-ID, ETag, Idempotency-Replayed" {
		t.Fatalf("expose headers = %q", got)
	}
}

func TestSecurityHeaders_ExposeMergesWithExisting(t *testing.T) {
	pre := func(c *gin.Context) {
		c.Header("Access-Control-Expose-Headers", "Content-Length, etag")
		c.Next()
	}
	r := securityRouter(SecurityOptions{}, pre)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))

	if got := w.Header().Get("Access-Control-Expose-Headers"); got != "Content-Length, etag, X-Request-ID, Idempotency-Replayed" {
		t.Fatalf("expose headers = %q", got)
	}
}

func TestSecurityHeaders_NoStoreByPrefix(t *testing.T) {
	r := securityRouter(SecurityOptions{NoStorePrefixes: []string{"/api/v1/me"}})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/me/favorites", nil))
	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("Pragma") != "no-cache" {
		t.Fatalf("per-user route must be no-store: %#v", w.Header())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))
	if w.Header().Get("Cache-Control") != "" {
		t.Fatalf("catalog route must stay cacheable")
	}

	r = securityRouter(SecurityOptions{NoStore: true})
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))
	if w.Header().Get("Cache-Control") != "no-store" || w.Header().Get("Expires") != "0" {
		t.Fatalf("NoStore must apply everywhere")
	}
}

func TestSecurityHeaders_PolicyAndHSTS(t *testing.T) {
	r := securityRouter(SecurityOptions{EnableHSTS: true, HSTSMaxAge: time.Hour, EnablePolicy: true})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil))
	if w.Header().Get("Strict-Transport-Security") != "" {
		t.Fatalf("HSTS must not be sent over plain HTTP")
	}
	if w.Header().Get("Permissions-Policy") == "" || w.Header().Get("X-Permitted-Cross-Domain-Policies") != "none" {
		t.Fatalf("policy headers missing")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=3600; includeSubDomains; preload" {
		t.Fatalf("HSTS over TLS = %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.Header.Set("X-Forwarded-Proto", "HTTPS")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("HSTS expected behind TLS-terminating proxy")
	}

	r = securityRouter(SecurityOptions{EnableHSTS: true})
	req = httptest.NewRequest(http.MethodGet, "/api/v1/recipes", nil)
	req.TLS = &tls.ConnectionState{}
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Strict-Transport-Security"); got != "max-age=15552000; includeSubDomains; preload" {
		t.Fatalf("default HSTS = %q", got)
	}
}
