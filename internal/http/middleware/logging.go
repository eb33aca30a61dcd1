// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file provides the request ID injector, the structured access logger
// and the panic recovery handler. Recommended order:
//
//  1. RequestID()
//  2. Logger() or RedactingLogger()
//  3. Recovery()
//  4. Authenticate()
//
// The access log is written after the handler returns, so it carries the
// user id resolved by Authenticate even though that runs later in the chain.
package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	requestIDKey    = "requestID"
	requestIDHeader = "X-Request-ID"
	loggerKey       = "logger"

	// maxQueryLogLength caps the logged raw query. Recipe filters are short
	// but q is user text.
	maxQueryLogLength = 512
)

// RequestID reuses the caller's X-Request-ID or generates a UUIDv4, echoes it
// on the response and stores it on the gin context.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		rid := c.GetHeader(requestIDHeader)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(requestIDKey, rid)
		c.Writer.Header().Set(requestIDHeader, rid)
		c.Next()
	}
}

// Logger writes one structured access log line per request. It also attaches
// a request-scoped zerolog.Logger to both the gin context (LoggerFrom) and the
// request context (zerolog.Ctx) so services log with the request id.
//
// Level: error for 5xx or gin errors, warn for 4xx, info otherwise.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		l := attachLogger(c, log.With().
			Str("query", truncate(c.Request.URL.RawQuery, maxQueryLogLength)).
			Str("user_agent", c.Request.UserAgent()).
			Str("referer", c.Request.Referer()).
			Int64("bytes_in", c.Request.ContentLength))

		c.Next()

		emitAccess(c, l, start)
	}
}

// attachLogger builds the request-scoped logger from base plus the fields
// every access log carries, and stores it on both contexts.
func attachLogger(c *gin.Context, base zerolog.Context) zerolog.Logger {
	rid, _ := c.Get(requestIDKey)
	l := base.
		Str("request_id", asString(rid)).
		Str("method", c.Request.Method).
		Str("path", routePath(c)).
		Str("remote_ip", c.ClientIP()).
		Logger()
	c.Set(loggerKey, &l)
	c.Request = c.Request.WithContext(l.WithContext(c.Request.Context()))
	return l
}

// emitAccess writes the access line once the handler has returned.
func emitAccess(c *gin.Context, l zerolog.Logger, start time.Time) {
	status := c.Writer.Status()
	uid, _ := c.Get(ctxKeyUserID)
	ev := l.With().
		Str("user_id", asString(uid)).
		Int("status", status).
		Dur("latency", time.Since(start)).
		Int("bytes_out", c.Writer.Size()).
		Logger()

	switch {
	case len(c.Errors) > 0:
		ev.Error().Str("errors", c.Errors.String()).Msg("request")
	case status >= 500:
		ev.Error().Msg("request")
	case status >= 400:
		ev.Warn().Msg("request")
	default:
		ev.Info().Msg("request")
	}
}

// Recovery turns a panic into a JSON 500 carrying the request id and logs the
// stack. If the response was already started it only aborts.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				rid, _ := c.Get(requestIDKey)
				log.Error().
					Interface("panic", rec).
					Bytes("stack", debug.Stack()).
					Str("request_id", asString(rid)).
					Str("path", routePath(c)).
					Msg("panic recovered")

				if !c.Writer.Written() {
					c.Header(requestIDHeader, asString(rid))
					c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
						"request_id": asString(rid),
						"code":       "internal_error",
						"message":    "internal server error",
					})
					return
				}
				c.AbortWithStatus(http.StatusInternalServerError)
			}
		}()
		c.Next()
	}
}

// LoggerFrom returns the request-scoped logger, or the global logger when
// none was attached.
func LoggerFrom(c *gin.Context) *zerolog.Logger {
	if v, ok := c.Get(loggerKey); ok {
		if lg, ok := v.(*zerolog.Logger); ok {
			return lg
		}
	}
	l := log.With().Logger()
	return &l
}

// routePath is the registered route, or the raw path when nothing matched.
func routePath(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return c.Request.URL.Path
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

// truncate cuts s to max bytes plus an ellipsis. max <= 0 disables it.
func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "…"
}
