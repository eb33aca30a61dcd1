package config

import (
	"os"
	"reflect"
	"strings"
	"testing"
	"time"
)

// --- MustLoad ---

func TestMustLoad_PanicsOnInvalidConfig(t *testing.T) {
	t.Setenv("LOG_LEVEL", "verbose") // invalid -> Load() error
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("MustLoad should panic on invalid config")
		}
	}()
	_ = MustLoad()
}

// --- Load success + normalization + parsing ---

func TestLoad_Success_DefaultsAndOverrides(t *testing.T) {
	// Clear all env that might affect defaults. t.Setenv isolates per test.
	// Server timeouts / sizes (valid)
	t.Setenv("PORT", "8088")
	t.Setenv("READ_TIMEOUT", "2s")
	t.Setenv("READ_HEADER_TIMEOUT", "1s")
	t.Setenv("WRITE_TIMEOUT", "3s")
	t.Setenv("IDLE_TIMEOUT", "4s")
	t.Setenv("MAX_HEADER_BYTES", "8192")
	t.Setenv("GIN_MODE", "weird") // will normalize to "release"

	// Logging / Docs
	t.Setenv("LOG_LEVEL", "warning") // will normalize to "warn"
	t.Setenv("LOG_PRETTY", "yes")
	t.Setenv("SWAGGER_ENABLED", "on")
	t.Setenv("API_BASE_PATH", "api/v1/") // no leading slash + trailing slash -> "/api/v1"

	t.Setenv("LOG_REDACT", "off")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	// App
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("MONGO_URI", "mongodb://mongo:27017")
	t.Setenv("MONGO_DB", "bar")
	t.Setenv("CATALOG_BASE_URL", "http://catalog.local/api/")
	t.Setenv("CATALOG_TIMEOUT", "2s")
	t.Setenv("CATALOG_CONCURRENCY", "3")
	t.Setenv("CATALOG_WARM_ON_START", "no")
	t.Setenv("CATALOG_REFRESH_INTERVAL", "0s")
	t.Setenv("DAILY_CACHE_PATH", "")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("AUTH_JWT_SECRET", "s3cret")
	t.Setenv("AUTH_ALLOW_HEADER", "true")

	// Rate limiting (use invalids for parse to fall back to defaults)
	t.Setenv("RATE_RPS", "x")      // -> default 5.0
	t.Setenv("RATE_BURST", "nope") // -> default 10

	// Web protection
	t.Setenv("CORS_ALLOWED_ORIGINS", " https://a.com , , http://b ")
	t.Setenv("ENABLE_HSTS", "TRUE")
	t.Setenv("HSTS_MAX_AGE", "24h")

	// Idempotency
	t.Setenv("IDEMPOTENCY_TTL", "48h")

	// OTEL
	t.Setenv("OTEL_ENABLED", "1")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "otel:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_INSECURE", "0")
	t.Setenv("OTEL_SERVICE_NAME", "svc")
	t.Setenv("OTEL_TRACES_SAMPLER_ARG", "0.75")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	// Server
	if cfg.Port != "8088" ||
		cfg.ReadTimeout != 2*time.Second ||
		cfg.ReadHeaderTimeout != 1*time.Second ||
		cfg.WriteTimeout != 3*time.Second ||
		cfg.IdleTimeout != 4*time.Second ||
		cfg.MaxHeaderBytes != 8192 ||
		cfg.GinMode != "release" {
		t.Fatalf("server fields unexpected: %+v", cfg)
	}

	// Logging / Docs
	if cfg.LogLevel != "warn" || !cfg.LogPretty || cfg.LogRedact || !cfg.SwaggerEnabled || cfg.APIBasePath != "/api/v1" {
		t.Fatalf("logging/docs unexpected: %+v", cfg)
	}
	if cfg.ShutdownTimeout != 3*time.Second {
		t.Fatalf("shutdown timeout unexpected: %v", cfg.ShutdownTimeout)
	}

	// App
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://mongo:27017" || cfg.Store.MongoDB != "bar" {
		t.Fatalf("store unexpected: %+v", cfg.Store)
	}
	wantCatalog := CatalogConfig{
		BaseURL:         "http://catalog.local/api/",
		Timeout:         2 * time.Second,
		Concurrency:     3,
		WarmOnStart:     false,
		RefreshInterval: 0,
		DailyCachePath:  "data/daily", // empty env falls back to the default
	}
	if cfg.Catalog != wantCatalog {
		t.Fatalf("catalog unexpected: %+v", cfg.Catalog)
	}
	if cfg.Redis.Addr != "redis:6379" || cfg.Redis.DB != 2 {
		t.Fatalf("redis unexpected: %+v", cfg.Redis)
	}
	if cfg.Auth.JWTSecret != "s3cret" || !cfg.Auth.AllowHeader {
		t.Fatalf("auth unexpected: %+v", cfg.Auth)
	}

	// Rate limiting (parse fallback to defaults)
	if cfg.RateRPS != 5.0 || cfg.RateBurst != 10 {
		t.Fatalf("rate limiting unexpected: %+v", cfg)
	}

	// Web protection
	if !reflect.DeepEqual(cfg.CORS.AllowedOrigins, []string{"https://a.com", "http://b"}) {
		t.Fatalf("cors origins unexpected: %#v", cfg.CORS.AllowedOrigins)
	}
	if !cfg.Security.EnableHSTS || cfg.Security.HSTSMaxAge != 24*time.Hour {
		t.Fatalf("security unexpected: %+v", cfg.Security)
	}

	// Idempotency
	if cfg.IdempotencyTTL != 48*time.Hour {
		t.Fatalf("idempotency ttl unexpected: %v", cfg.IdempotencyTTL)
	}

	// OTEL
	if !cfg.OTEL.Enabled || cfg.OTEL.Endpoint != "otel:4317" || cfg.OTEL.Insecure || cfg.OTEL.ServiceName != "svc" || cfg.OTEL.SampleRatio != 0.75 {
		t.Fatalf("otel unexpected: %+v", cfg.OTEL)
	}
}

// --- Load validations (each case trips exactly one rule) ---

func TestLoad_ValidationErrors(t *testing.T) {
	cases := []struct {
		key, val string
		want     string
	}{
		{"LOG_LEVEL", "verbose", "LOG_LEVEL"},
		{"PORT", "   ", "PORT must not be empty"},
		{"READ_TIMEOUT", "0s", "timeouts must be positive"},
		{"MAX_HEADER_BYTES", "0", "MAX_HEADER_BYTES"},
		{"DB_PATH", "   ", "DB_PATH must not be empty"},
		{"STORE_BACKEND", "postgres", "STORE_BACKEND"},
		{"SHUTDOWN_TIMEOUT", "0s", "SHUTDOWN_TIMEOUT"},
		{"CATALOG_TIMEOUT", "0s", "CATALOG_TIMEOUT"},
		{"CATALOG_CONCURRENCY", "0", "CATALOG_CONCURRENCY"},
		{"CATALOG_REFRESH_INTERVAL", "-1m", "CATALOG_REFRESH_INTERVAL"},
		{"REDIS_DB", "-1", "REDIS_DB"},
		{"RATE_RPS", "-1", "RATE_RPS"},
		{"RATE_BURST", "0", "RATE_BURST"},
		{"HSTS_MAX_AGE", "-1s", "HSTS_MAX_AGE"},
		{"IDEMPOTENCY_TTL", "0s", "IDEMPOTENCY_TTL"},
		{"OTEL_TRACES_SAMPLER_ARG", "1.5", "OTEL_TRACES_SAMPLER_ARG"},
	}
	for _, tc := range cases {
		t.Run(tc.key, func(t *testing.T) {
			t.Setenv(tc.key, tc.val)
			if _, err := Load(); !containsErr(err, tc.want) {
				t.Fatalf("%s=%q: want error mentioning %q, got %v", tc.key, tc.val, tc.want, err)
			}
		})
	}

	t.Run("mongo without uri", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "mongo")
		t.Setenv("MONGO_URI", "  ")
		if _, err := Load(); !containsErr(err, "MONGO_") {
			t.Fatalf("expected MONGO_* validation error, got %v", err)
		}
	})
}

// --- typed getters ---

func TestGetters(t *testing.T) {
	t.Setenv("X_EMPTY", "")
	t.Setenv("X_SET", "val")
	t.Setenv("F_OK", "3.14")
	t.Setenv("F_BAD", "nope")
	t.Setenv("I_OK", "42")
	t.Setenv("I_BAD", "x")
	t.Setenv("D_OK", "150ms")
	t.Setenv("D_BAD", "zzz")

	if getenv("X_EMPTY", "d") != "d" || getenv("X_SET", "d") != "val" {
		t.Fatalf("getenv")
	}
	if getfloat("F_OK", 0) != 3.14 || getfloat("F_BAD", 1.23) != 1.23 {
		t.Fatalf("getfloat")
	}
	if getint("I_OK", 0) != 42 || getint("I_BAD", 7) != 7 {
		t.Fatalf("getint")
	}
	if getdur("D_OK", time.Second) != 150*time.Millisecond || getdur("D_BAD", 2*time.Second) != 2*time.Second {
		t.Fatalf("getdur")
	}
}

func TestGetbool(t *testing.T) {
	cases := map[string]bool{
		"1": true, "true": true, "TRUE": true, " yes ": true, "Y": true, "on": true,
		"0": false, "false": false, "FALSE": false, " no ": false, "N": false, "Off": false,
	}
	for v, want := range cases {
		t.Setenv("B_VAL", v)
		if got := getbool("B_VAL", !want); got != want {
			t.Fatalf("getbool(%q)=%v want %v", v, got, want)
		}
	}
	t.Setenv("B_VAL", "")
	if !getbool("B_VAL", true) || getbool("B_VAL", false) {
		t.Fatalf("empty value should return the default")
	}
}

func TestSplitCSVAndBasePath(t *testing.T) {
	if out := splitCSV(""); out != nil {
		t.Fatalf("splitCSV empty should return nil")
	}
	if got := splitCSV(" a, ,b ,  c  ,"); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Fatalf("splitCSV=%#v", got)
	}
	for in, want := range map[string]string{"": "/", "v1": "/v1", "/v1/": "/v1", " / ": "/"} {
		if got := normalizeBasePath(in); got != want {
			t.Fatalf("normalizeBasePath(%q)=%q want %q", in, got, want)
		}
	}
}

// Ensure tests don't leak env to others.
func TestMain(m *testing.M) {
	os.Unsetenv("PORT")
	os.Exit(m.Run())
}

// containsErr reports whether err's message contains the given substring.
func containsErr(err error, want string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(err.Error(), want)
}

func TestLoad_Defaults(t *testing.T) {
	// Intentionally leave API_BASE_PATH and the store keys unset

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	// default per code is "/api/v1"
	if cfg.APIBasePath != "/api/v1" {
		t.Fatalf("API_BASE_PATH default expected '/api/v1', got %q", cfg.APIBasePath)
	}
	if cfg.Store.Backend != "sqlite" || cfg.Store.DBPath != "cocktails.db" {
		t.Fatalf("store defaults unexpected: %+v", cfg.Store)
	}
	if cfg.Redis.Addr != "" || cfg.Auth.JWTSecret != "" || cfg.Auth.AllowHeader {
		t.Fatalf("live/auth should be off by default: %+v %+v", cfg.Redis, cfg.Auth)
	}
	if !cfg.LogRedact || cfg.OTEL.ServiceName != "go-cocktail-backend" {
		t.Fatalf("logging/otel defaults unexpected: %+v", cfg)
	}
}

func TestMustLoad_Success_NoPanic(t *testing.T) {
	// No special env needed; defaults are valid.
	defer func() {
		if r := recover(); r != nil {
			t.Fatalf("MustLoad should not panic on valid defaults, got: %v", r)
		}
	}()
	cfg := MustLoad()
	if cfg.APIBasePath == "" {
		t.Fatalf("unexpected empty config from MustLoad")
	}
}
