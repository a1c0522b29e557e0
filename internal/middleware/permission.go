package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mediblog/mediblog-backend/internal/common"
	"github.com/mediblog/mediblog-backend/internal/domain"
)

// requireCapability rejects callers whose resolved role lacks the given
// capability. It requires JWTAuth and ResolveSession to run first. This is
// a UX guard: the services re-check every transition and the store's own
// constraints are the final authority.
func requireCapability(name string, check func(domain.Role) bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := GetSession(c)
		if session == nil {
			common.ErrorResponse(c, http.StatusUnauthorized, "Authentication required", nil)
			c.Abort()
			return
		}
		if !check(session.Role) {
			common.ErrorResponse(c, http.StatusForbidden, name+" permission required", nil)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireWrite admits admins, writers and publishers
func RequireWrite() gin.HandlerFunc {
	return requireCapability("Write", domain.Role.CanWrite)
}

// RequirePublish admits admins and publishers
func RequirePublish() gin.HandlerFunc {
	return requireCapability("Publish", domain.Role.CanPublish)
}

// RequireAdmin admits admins only
func RequireAdmin() gin.HandlerFunc {
	return requireCapability("Admin", domain.Role.IsAdmin)
}
