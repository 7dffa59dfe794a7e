package domain

import (
	"context"
	"time"
)

// contextKey is a type for context keys to avoid collisions
type contextKey string

const sessionContextKey contextKey = "admin_session"

// Session represents an authenticated embedded-admin request
type Session struct {
	Shop      string    `json:"shop"`
	UserID    string    `json:"user_id,omitempty"`
	SessionID string    `json:"session_id,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}

// WithSession stores the admin session in the context
func WithSession(ctx context.Context, session *Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}

// SessionFromContext returns the admin session set by the auth middleware, or nil
func SessionFromContext(ctx context.Context) *Session {
	session, _ := ctx.Value(sessionContextKey).(*Session)
	return session
}

// GetShopFromContext returns the authenticated shop domain, or an empty string
func GetShopFromContext(ctx context.Context) string {
	if session := SessionFromContext(ctx); session != nil {
		return session.Shop
	}
	return ""
}
