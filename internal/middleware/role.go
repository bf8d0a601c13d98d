package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/pkg/response"
)

// RequireRole allows only the given roles. Administrator always passes:
// admin precedence is part of the role model, not per-route policy.
func RequireRole(allowed ...models.Role) gin.HandlerFunc {
	set := make(map[models.Role]struct{}, len(allowed))
	for _, r := range allowed {
		set[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := Role(c)
		if role == models.RoleAdministrator {
			c.Next()
			return
		}
		if _, ok := set[role]; !ok {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}
		c.Next()
	}
}
