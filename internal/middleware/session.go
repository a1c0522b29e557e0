package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/domain"
)

// RoleResolver resolves a user's role. Satisfied by service.RoleService;
// declared here to avoid a circular dependency with the service package.
type RoleResolver interface {
	Resolve(ctx context.Context, userID string) domain.Role
}

// ResolveSession builds the caller's session (user id + email + role) after
// authentication and stores it for handlers and permission middleware.
// Role resolution never fails: unknown or unresolvable users get RoleNone.
func ResolveSession(roles RoleResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := GetUserID(c)
		if userID == "" {
			c.Next()
			return
		}

		session := &domain.Session{
			UserID: userID,
			Email:  GetEmail(c),
			Role:   roles.Resolve(c.Request.Context(), userID),
		}
		c.Set("session", session)

		c.Next()
	}
}

// GetSession extracts the caller's session from context; nil for
// unauthenticated requests
func GetSession(c *gin.Context) *domain.Session {
	v, exists := c.Get("session")
	if !exists {
		return nil
	}
	if session, ok := v.(*domain.Session); ok {
		return session
	}
	return nil
}
