package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adboard/backend/internal/auth"
	"github.com/adboard/backend/internal/models"
	"github.com/adboard/backend/internal/roles"
	"github.com/adboard/backend/pkg/response"
)

const (
	// ContextAddress is the key for the session wallet address in gin context.
	ContextAddress = "wallet_address"
	// ContextRole is the key for the resolved role in gin context.
	ContextRole = "wallet_role"
)

// Session validates the wallet session token, resolves the account's role
// once (through the cache) and stores both in the request context.
func Session(sessions *auth.SessionService, resolver roles.Resolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := sessions.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired session")
			c.Abort()
			return
		}
		c.Set(ContextAddress, claims.Address)
		c.Set(ContextRole, resolver.Resolve(c.Request.Context(), claims.Address))
		c.Next()
	}
}

// Address returns the session wallet address from the request context.
func Address(c *gin.Context) string {
	v, _ := c.Get(ContextAddress)
	addr, _ := v.(string)
	return addr
}

// Role returns the resolved role from the request context.
func Role(c *gin.Context) models.Role {
	v, ok := c.Get(ContextRole)
	if !ok {
		return models.RoleUser
	}
	role, ok := v.(models.Role)
	if !ok {
		return models.RoleUser
	}
	return role
}
