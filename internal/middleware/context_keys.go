package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// contextKey is a private type for request context keys.
// Using a custom type prevents collisions.
type contextKey string

const (
	// userIDKey stores the authenticated user's ID.
	userIDKey = contextKey("userID")
	// userRoleKey stores the authenticated user's role.
	userRoleKey = contextKey("userRole")
	// loggerCtxKey stores the request-scoped logger on the request context.
	loggerCtxKey = contextKey("logger")
)

// GetUserIDFromCtx retrieves the authenticated user ID from a standard
// context.
func GetUserIDFromCtx(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	return userID, ok && userID != ""
}

// GetUserRoleFromCtx retrieves the authenticated user's role from a
// standard context.
func GetUserRoleFromCtx(ctx context.Context) (string, bool) {
	role, ok := ctx.Value(userRoleKey).(string)
	return role, ok && role != ""
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin
// context, falling back to the request context.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	if userIDVal, exists := c.Get(string(userIDKey)); exists {
		if userID, ok := userIDVal.(string); ok {
			return userID, true
		}
	}
	return GetUserIDFromCtx(c.Request.Context())
}
