package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-cocktail-backend/internal/auth"
)

const (
	// ctxKeyUserID holds the authenticated user id on the gin context. The
	// access logs and the rate limiter read it.
	ctxKeyUserID = "userID"

	headerUserID = "X-User-ID"
)

// TokenVerifier turns a bearer token into a session.
type TokenVerifier interface {
	Verify(token string) (auth.Session, error)
}

// AuthOptions configures Authenticate.
type AuthOptions struct {
	// Verifier checks "Authorization: Bearer <jwt>". Nil disables bearer auth.
	Verifier TokenVerifier
	// AllowHeader trusts X-User-ID as the caller id. Development and tests only.
	AllowHeader bool
}

// Authenticate resolves the caller's session and stores it on the request
// context (auth.FromContext) and the gin context. Requests without
// credentials continue anonymously; operations that need a user reject them
// further down. A bearer token that fails verification is answered with 401.
func Authenticate(opts AuthOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		var sess auth.Session

		if h := c.GetHeader("Authorization"); h != "" && opts.Verifier != nil {
			token, found := strings.CutPrefix(h, "Bearer ")
			if !found || strings.TrimSpace(token) == "" {
				abortUnauthorized(c, "invalid authorization header")
				return
			}
			s, err := opts.Verifier.Verify(strings.TrimSpace(token))
			if err != nil {
				abortUnauthorized(c, "invalid token")
				return
			}
			sess = s
		} else if opts.AllowHeader {
			sess = auth.Session{UserID: strings.TrimSpace(c.GetHeader(headerUserID))}
		}

		if sess.Authenticated() {
			c.Set(ctxKeyUserID, sess.UserID)
			c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), sess))
		}
		c.Next()
	}
}

// SessionFrom returns the caller's session, anonymous when none was resolved.
func SessionFrom(c *gin.Context) auth.Session {
	return auth.FromContext(c.Request.Context())
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"request_id": c.Writer.Header().Get(requestIDHeader),
		"code":       "unauthorized",
		"message":    msg,
	})
}
