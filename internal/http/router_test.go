package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-cocktail-backend/internal/config"
	"github.com/tbourn/go-cocktail-backend/internal/domain"
	"github.com/tbourn/go-cocktail-backend/internal/http/handlers"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
	"github.com/tbourn/go-cocktail-backend/internal/repo"
	"github.com/tbourn/go-cocktail-backend/internal/services"
)

// --- test store helper (pure-Go sqlite, no CGO) ---
func newTestStore(t *testing.T) *repo.Store {
	t.Helper()
	dsn := fmt.Sprintf("file:router_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return repo.NewStore(db)
}

func testConfig(base string) config.Config {
	return config.Config{
		APIBasePath: base,
		RateRPS:     100,
		RateBurst:   10,
		LogRedact:   true,
		CORS:        config.CORSConfig{AllowedOrigins: nil}, // triggers AllowAllOrigins branch
		Security:    config.SecurityConfig{EnableHSTS: false, HSTSMaxAge: 0},
		OTEL:        config.OTELConfig{ServiceName: "test-svc"},
		Auth:        config.AuthConfig{AllowHeader: true},
	}
}

// newTestApp wires the store-backed services. The catalog is left nil;
// tests here never reach catalog handlers.
func newTestApp(t *testing.T) App {
	t.Helper()
	st := newTestStore(t)
	subs := services.NewSubmissionService(st, st, time.Hour)
	return App{
		Deps: handlers.Deps{
			Submissions: subs,
			Profiles:    services.NewUserService(st),
		},
		Replayable: subs.Replayable,
	}
}

func serve(r *gin.Engine, method, path string, body io.Reader, hdr ...string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, body)
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	r.ServeHTTP(w, req)
	return w
}

func TestRegisterRoutes_CORSAllowAll_Health_Metrics_Fallbacks(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, testConfig("/api/v1"), newTestApp(t))

	// /health works
	w := serve(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	// CORS (AllowAllOrigins) → header "*"
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Fatalf("AllowAllOrigins expected '*', got %q", got)
	}

	// /metrics is wired
	w = serve(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK || len(w.Body.Bytes()) == 0 {
		t.Fatalf("GET /metrics bad: code=%d len=%d", w.Code, w.Body.Len())
	}

	// NoRoute → 404
	if w = serve(r, http.MethodGet, "/nope", nil); w.Code != http.StatusNotFound {
		t.Fatalf("GET /nope expected 404, got %d", w.Code)
	}

	// NoMethod → 405 (POST /health)
	if w = serve(r, http.MethodPost, "/health", nil); w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("POST /health expected 405, got %d", w.Code)
	}

	// Swagger is off unless enabled.
	if w = serve(r, http.MethodGet, "/swagger/index.html", nil); w.Code != http.StatusNotFound {
		t.Fatalf("swagger should be disabled, got %d", w.Code)
	}
}

func TestRegisterRoutes_CORSWithOrigins_HeaderEcho(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := testConfig("/api/v2")
	cfg.CORS = config.CORSConfig{AllowedOrigins: []string{"http://example.com"}}
	RegisterRoutes(r, cfg, newTestApp(t))

	w := serve(r, http.MethodGet, "/health", nil, "Origin", "http://example.com")
	if w.Code != http.StatusOK {
		t.Fatalf("GET /health = %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected ACAO echo, got %q", got)
	}

	w = serve(r, http.MethodGet, "/health", nil, "Origin", "http://evil.example")
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unlisted origin echoed: %q", got)
	}
}

func TestRegisterRoutes_HealthDegraded(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	app := newTestApp(t)
	app.Ready = func(context.Context) error { return errors.New("store down") }
	RegisterRoutes(r, testConfig("/api/v1"), app)

	w := serve(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("GET /health = %d, want 503", w.Code)
	}
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	if body["status"] != "degraded" {
		t.Fatalf("body=%s", w.Body.String())
	}
}

func TestRegisterRoutes_UserRoutesAreNoStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, testConfig("/api/v1"), newTestApp(t))

	w := serve(r, http.MethodGet, "/api/v1/me/profile", nil, "X-User-ID", "alice")
	if w.Code != http.StatusNotFound {
		t.Fatalf("GET /me/profile = %d body=%s", w.Code, w.Body.String())
	}
	if got := w.Header().Get("Cache-Control"); got != "no-store" {
		t.Fatalf("Cache-Control=%q", got)
	}

	w = serve(r, http.MethodGet, "/api/v1/cocktails", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("GET /cocktails = %d", w.Code)
	}
	if got := w.Header().Get("Cache-Control"); got == "no-store" {
		t.Fatalf("public list must stay cacheable")
	}
	if w.Header().Get("ETag") == "" {
		t.Fatalf("list should carry an ETag")
	}
}

func TestRegisterRoutes_SubmissionReplay(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	RegisterRoutes(r, testConfig("/api/v1"), newTestApp(t))

	body, _ := json.Marshal(services.SubmissionDraft{
		Name: "Negroni",
		Type: domain.TypeCocktail,
		Recipe: []domain.RecipeRow{
			{Number: "1 oz", Ingredient: "Gin"},
			{Number: "1 oz", Ingredient: "Campari"},
		},
		Instructions: "Stir.",
	})
	post := func() *httptest.ResponseRecorder {
		return serve(r, http.MethodPost, "/api/v1/cocktails", bytes.NewReader(body),
			"Content-Type", "application/json",
			"X-User-ID", "alice",
			middleware.HeaderIdempotencyKey, "negroni-1")
	}

	w := post()
	if w.Code != http.StatusCreated {
		t.Fatalf("first POST = %d body=%s", w.Code, w.Body.String())
	}
	if loc := w.Header().Get("Location"); loc != "/api/v1/cocktails/negroni" {
		t.Fatalf("Location=%q", loc)
	}
	if w.Header().Get(middleware.HeaderIdempotencyReplayed) != "" {
		t.Fatalf("first POST must not be a replay")
	}

	w = post()
	if w.Code != http.StatusCreated {
		t.Fatalf("replay POST = %d body=%s", w.Code, w.Body.String())
	}
	if w.Header().Get(middleware.HeaderIdempotencyReplayed) != "true" {
		t.Fatalf("expected replay header")
	}

	w = serve(r, http.MethodPost, "/api/v1/cocktails", bytes.NewReader(body),
		"Content-Type", "application/json",
		middleware.HeaderIdempotencyKey, "bad key with spaces")
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad key = %d", w.Code)
	}
}

func TestRegisterRoutes_SwaggerEnabled(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	cfg := testConfig("/")
	cfg.SwaggerEnabled = true
	RegisterRoutes(r, cfg, newTestApp(t))

	if w := serve(r, http.MethodGet, "/swagger/index.html", nil); w.Code != http.StatusOK {
		t.Fatalf("GET /swagger/index.html = %d", w.Code)
	}
	// Root mount: API routes live directly under "/".
	if w := serve(r, http.MethodGet, "/cocktails", nil); w.Code != http.StatusOK {
		t.Fatalf("GET /cocktails = %d", w.Code)
	}
}

func Test_limitBody_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	// tiny cap to trigger MaxBytesReader
	r.Use(limitBody(10))
	r.POST("/echo", func(c *gin.Context) {
		_, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.String(http.StatusRequestEntityTooLarge, "too big")
			return
		}
		c.String(http.StatusOK, "ok")
	})

	w := serve(r, http.MethodPost, "/echo", bytes.NewBufferString("0123456789AB")) // 12 bytes
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413 from limitBody, got %d", w.Code)
	}
}

func Test_groupWithPrefix(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	// "/" and "" should mount at root
	groupWithPrefix(r, "/").GET("/one", func(c *gin.Context) { c.String(http.StatusOK, "one") })
	groupWithPrefix(r, "").GET("/two", func(c *gin.Context) { c.String(http.StatusOK, "two") })
	groupWithPrefix(r, "/api").GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	for path, want := range map[string]string{"/one": "one", "/two": "two", "/api/ping": "pong"} {
		w := serve(r, http.MethodGet, path, nil)
		if w.Code != http.StatusOK || w.Body.String() != want {
			t.Fatalf("GET %s got %d %q", path, w.Code, w.Body.String())
		}
	}
}

func Test_joinPath(t *testing.T) {
	cases := map[[2]string]string{
		{"", "/me"}:        "/me",
		{"/", "/me"}:       "/me",
		{"/api/v1", "/me"}: "/api/v1/me",
	}
	for in, want := range cases {
		if got := joinPath(in[0], in[1]); got != want {
			t.Fatalf("joinPath(%q,%q)=%q want %q", in[0], in[1], got, want)
		}
	}
}

// Smoke test that a request traverses the full pipeline.
func TestPipeline_Smoke(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	cfg := testConfig("/api/v1")
	cfg.LogRedact = false
	cfg.Security = config.SecurityConfig{EnableHSTS: true, HSTSMaxAge: time.Hour}
	RegisterRoutes(r, cfg, newTestApp(t))

	w := serve(r, http.MethodGet, "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("pipeline GET /health = %d", w.Code)
	}
	// RequestID header should be present (from RequestID middleware)
	if rid := w.Header().Get("X-Request-ID"); rid == "" {
		t.Fatalf("expected X-Request-ID header to be set")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("security headers missing")
	}
}
