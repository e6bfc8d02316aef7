package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for context keys defined by this package.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerCtxKey = contextKey("logger")
	userIDKey    = contextKey("userID")
	adminKey     = contextKey("isAdmin")
)

// GetUserIDFromContext retrieves the authenticated account ID from the Gin
// context. It returns the ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if v := c.Request.Context().Value(userIDKey); v != nil {
		if id, ok := v.(string); ok {
			return id, true
		}
	}
	return "", false
}

// IsAdminFromContext reports whether the authenticated caller carries the
// administrator claim.
func IsAdminFromContext(c *gin.Context) bool {
	if v := c.Request.Context().Value(adminKey); v != nil {
		if isAdmin, ok := v.(bool); ok {
			return isAdmin
		}
	}
	return false
}

// WithUserID returns a context carrying the authenticated account ID.
// Exposed for tests that bypass the HTTP middleware.
func WithUserID(ctx context.Context, accountID string) context.Context {
	return context.WithValue(ctx, userIDKey, accountID)
}
