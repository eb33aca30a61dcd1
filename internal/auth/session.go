// Package auth carries the caller's identity explicitly. Services receive a
// Session argument instead of reading ambient state, and writes that need a
// user reject an anonymous Session.
package auth

import (
	"context"
	"strings"
)

// Session identifies the caller of one operation. The zero value is anonymous.
type Session struct {
	UserID string
}

// Authenticated reports whether the session carries a user.
func (s Session) Authenticated() bool { return strings.TrimSpace(s.UserID) != "" }

type ctxKey struct{}

// WithSession stores s on ctx.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the session stored on ctx, or an anonymous one.
func FromContext(ctx context.Context) Session {
	s, _ := ctx.Value(ctxKey{}).(Session)
	return s
}
