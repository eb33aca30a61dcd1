// Package httpapi wires the HTTP transport (Gin) to the cocktail services,
// middleware, and route handlers. It centralizes cross-cutting concerns such
// as tracing, correlation IDs, logging/redaction, panic recovery, metrics,
// authentication, idempotency, rate limiting, CORS and security headers.
//
// Design goals:
//   - Put observability first (OTel + Prometheus)
//   - Safe-by-default middleware ordering (RequestID → logging → recovery)
//   - Deterministic router setup; all dependencies injected through App
//   - Read-only catalog routes are gzip-compressed; live websocket routes are not
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/tbourn/go-cocktail-backend/internal/config"
	"github.com/tbourn/go-cocktail-backend/internal/http/handlers"
	"github.com/tbourn/go-cocktail-backend/internal/http/middleware"
)

// maxBodyBytes caps every request body. Submissions are the largest payload.
const maxBodyBytes = 1 << 20

// App is what the composition root hands the router.
type App struct {
	handlers.Deps

	// Verifier checks bearer tokens. Nil disables them.
	Verifier middleware.TokenVerifier
	// Replayable tells the idempotency middleware whether a key already
	// completed a submission.
	Replayable middleware.IdempotencyLookup
	// Ready reports backend health for /health. Nil means always ready.
	Ready func(ctx context.Context) error
}

// RegisterRoutes attaches all middleware and HTTP endpoints to the given Gin
// engine and mounts the versioned public API under cfg.APIBasePath.
//
// Middleware order matters:
//  1. OpenTelemetry: trace everything
//  2. RequestID: generate/propagate correlation id
//  3. Logger or RedactingLogger: structured access logs
//  4. Recovery: capture panics after logger
//  5. Body size limiter
//  6. Metrics
//  7. Authenticate: resolve the caller before anything keyed by user
//  8. Idempotency validator (before rate limiter to allow bypass on replay)
//  9. Rate limiter (per user/IP, bypass on replay)
//  10. CORS and Security headers
func RegisterRoutes(r *gin.Engine, cfg config.Config, app App) {
	r.HandleMethodNotAllowed = true
	apiBase := cfg.APIBasePath

	// 1) Trace all HTTP requests
	r.Use(otelgin.Middleware(cfg.OTEL.ServiceName))

	// 2) Correlate requests and logs
	r.Use(middleware.RequestID())

	// 3) Structured access logs, PII-scrubbed unless disabled
	if cfg.LogRedact {
		r.Use(middleware.RedactingLogger(middleware.RedactOptions{
			MaskHeaders: []string{"X-API-Key"},
		}))
	} else {
		r.Use(middleware.Logger())
	}

	// 4) Panic recovery to JSON 500 (with request id)
	r.Use(middleware.Recovery())

	// 5) Global body size limit
	r.Use(limitBody(maxBodyBytes))

	// 6) Prometheus metrics and /metrics endpoint
	r.Use(middleware.Metrics())
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// 7) Caller identity (optional; user-scoped operations enforce it)
	r.Use(middleware.Authenticate(middleware.AuthOptions{
		Verifier:    app.Verifier,
		AllowHeader: cfg.Auth.AllowHeader,
	}))

	// 8) Idempotency validation (before rate limiting)
	r.Use(middleware.IdempotencyValidator(middleware.IdempotencyOptions{MaxLen: 200}, app.Replayable))

	// 9) Token-bucket rate limiter per user/IP
	rl := middleware.NewRateLimiter(cfg.RateRPS, cfg.RateBurst, middleware.KeyByUserOrIP())
	r.Use(rl.Handler())

	// 10) CORS and security headers
	r.Use(corsMiddleware(cfg.CORS.AllowedOrigins)...)
	r.Use(middleware.SecurityHeaders(middleware.SecurityOptions{
		EnableHSTS:      cfg.Security.EnableHSTS,
		HSTSMaxAge:      cfg.Security.HSTSMaxAge,
		NoStorePrefixes: []string{joinPath(apiBase, "/me")},
		EnablePolicy:    true,
	}))

	// Fallbacks
	r.NoRoute(func(c *gin.Context) {
		handlers.Fail(c, http.StatusNotFound, handlers.ErrCodeNotFound, "route not found")
	})
	r.NoMethod(func(c *gin.Context) {
		handlers.Fail(c, http.StatusMethodNotAllowed, handlers.ErrCodeMethodNotAllowed, "method not allowed")
	})

	// Liveness/health
	r.GET("/health", health(app.Ready))

	// API docs
	if cfg.SwaggerEnabled {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	h := handlers.New(app.Deps)

	api := groupWithPrefix(r, apiBase)
	{
		// Catalog reads are large JSON lists.
		read := api.Group("", gzip.Gzip(gzip.DefaultCompression))
		read.GET("/taxonomy", h.Taxonomy)
		read.GET("/recipes", h.ListRecipes)
		read.GET("/recipes/recommendations", h.Recommendations)
		read.GET("/recipes/random", h.RandomRecipes)
		read.GET("/recipes/daily", h.DailyRecipe)
		read.GET("/recipes/popular", h.PopularRecipes)
		read.GET("/recipes/seasonal", h.SeasonalRecipes)
		read.GET("/recipes/:id", h.GetRecipe)
		read.GET("/ingredients", h.ListIngredients)
		read.GET("/ingredients/:name", h.GetIngredient)
		read.GET("/cocktails", h.ListCocktails)
		read.GET("/cocktails/:slug", h.GetCocktail)

		api.POST("/catalog/refresh", h.RefreshCatalog)

		// Ratings
		api.GET("/ratings/:id", h.GetRating)
		api.POST("/ratings/:id", h.Vote)
		api.GET("/ratings/:id/live", h.RatingsLive)

		// Favorites
		api.GET("/me/favorites", h.ListFavorites)
		api.GET("/me/favorites/ids", h.FavoriteIDs)
		api.GET("/me/favorites/live", h.FavoritesLive)
		api.POST("/me/favorites/:recipeId/toggle", h.ToggleFavorite)
		api.PUT("/me/favorites/:recipeId", h.AddFavorite)
		api.DELETE("/me/favorites/:recipeId", h.RemoveFavorite)

		// Profile
		api.GET("/me/profile", h.GetProfile)
		api.PUT("/me/profile", h.PutProfile)

		// Submissions
		api.POST("/cocktails", h.CreateCocktail)
	}
}

// corsMiddleware allows every origin when none is configured, otherwise
// only the allowlist. Origins are echoed explicitly so simple requests
// without a preflight still carry the header.
func corsMiddleware(origins []string) []gin.HandlerFunc {
	base := cors.Config{
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "X-User-ID",
			middleware.HeaderIdempotencyKey, "If-None-Match"},
		ExposeHeaders: []string{"X-Request-ID", "Content-Length", "ETag", "Location",
			middleware.HeaderIdempotencyReplayed},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	if len(origins) == 0 {
		base.AllowAllOrigins = true
		return []gin.HandlerFunc{
			func(c *gin.Context) {
				c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
				c.Next()
			},
			cors.New(base),
		}
	}

	allowed := make(map[string]struct{}, len(origins))
	for _, o := range origins {
		allowed[o] = struct{}{}
	}
	base.AllowOrigins = origins
	return []gin.HandlerFunc{
		func(c *gin.Context) {
			if origin := c.GetHeader("Origin"); origin != "" {
				if _, ok := allowed[origin]; ok {
					h := c.Writer.Header()
					h.Set("Access-Control-Allow-Origin", origin)
					h.Add("Vary", "Origin")
				}
			}
			c.Next()
		},
		cors.New(base),
	}
}

// health answers 200 {"status":"ok"}, or 503 {"status":"degraded"} when
// the store does not answer within two seconds.
func health(ready func(context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		if ready != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := ready(ctx); err != nil {
				middleware.LoggerFrom(c).Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}

// limitBody returns a Gin middleware that caps the request body size for all
// endpoints to maxBytes using http.MaxBytesReader. Requests exceeding the cap
// will cause downstream body reads to error.
func limitBody(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

// groupWithPrefix mounts a group at prefix, treating "/" (or empty) as root.
func groupWithPrefix(r *gin.Engine, prefix string) *gin.RouterGroup {
	if prefix == "" || prefix == "/" {
		return r.Group("")
	}
	return r.Group(prefix)
}

func joinPath(base, p string) string {
	if base == "" || base == "/" {
		return p
	}
	return base + p
}
