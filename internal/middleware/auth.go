// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/enescucu1/auto/internal/utils"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// RolesRequired validates the bearer token and requires one of the given
// roles. Token issuance is the identity provider's business; only
// validation happens here.
func RolesRequired(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := claimsFromRequest(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		if !claims.HasRole(roles...) {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			c.Abort()
			return
		}

		c.Set("username", claims.Username)
		c.Set("roles", claims.Roles)
		c.Next()
	}
}

type contextKey string

const claimsContextKey contextKey = "jwt-claims"

// ClaimsToContext stores valid bearer-token claims in the request
// context without requiring them; per-field authorization (GraphQL)
// reads them back via ClaimsFromContext.
func ClaimsToContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := claimsFromRequest(c); ok {
			c.Request = c.Request.WithContext(ContextWithClaims(c.Request.Context(), claims))
		}
		c.Next()
	}
}

// ContextWithClaims attaches claims to a context.
func ContextWithClaims(ctx context.Context, claims *utils.JWTClaims) context.Context {
	return context.WithValue(ctx, claimsContextKey, claims)
}

// ClaimsFromContext returns the claims stored by ClaimsToContext.
func ClaimsFromContext(ctx context.Context) (*utils.JWTClaims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*utils.JWTClaims)
	return claims, ok
}

func claimsFromRequest(c *gin.Context) (*utils.JWTClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return nil, false
	}

	// Extract token from "Bearer <token>"
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		return nil, false
	}
	return claims, true
}
