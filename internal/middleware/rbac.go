package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	appErrors "github.com/hmtc-its/hmtc-portal/pkg/errors"
)

// RequireRoles lets through only the listed roles. It must run after JWT.
func RequireRoles(deny DenyFunc, roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			deny(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			deny(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAdmin allows admins and superadmins.
func RequireAdmin(deny DenyFunc) gin.HandlerFunc {
	return RequireRoles(deny, models.RoleAdmin, models.RoleSuperAdmin)
}
