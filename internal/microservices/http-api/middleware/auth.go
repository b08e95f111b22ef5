package middleware

import (
	"errors"
	"net/http"
	"strings"

	"reviewlens/internal/microservices/http-api/service"
	"reviewlens/internal/middleware/auth"

	"github.com/gin-gonic/gin"
)

// TokenVerifier validates bearer tokens; *auth.Tokens satisfies it
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// AuthMiddleware is a Gin middleware for JWT authentication of API requests.
// The token subject becomes "userID" in the context.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := verifier.Verify(parts[1])
		if err != nil {
			msg := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "token has expired"
			}
			c.JSON(http.StatusUnauthorized, gin.H{"error": msg})
			c.Abort()
			return
		}

		c.Set("claims", claims)
		c.Set("userID", claims.Subject)
		c.Set("role", claims.Role)

		c.Next()
	}
}

// RequireMembership rejects callers who are not members of the :org_id organization
func RequireMembership(access service.AccessService) gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := c.Param("org_id")
		if orgID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "organization id is required"})
			c.Abort()
			return
		}

		userID := c.GetString("userID")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
			c.Abort()
			return
		}

		if err := access.Authorize(c.Request.Context(), orgID, userID); err != nil {
			switch {
			case errors.Is(err, service.ErrNotFound):
				c.JSON(http.StatusNotFound, gin.H{"error": "organization not found"})
			case errors.Is(err, service.ErrForbidden):
				c.JSON(http.StatusForbidden, gin.H{"error": "not a member of this organization"})
			default:
				c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check membership"})
			}
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole checks if the user has the specified role
func RequireRole(requiredRole string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole := c.GetString("role")
		if userRole == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "role not found in token"})
			c.Abort()
			return
		}

		if userRole != requiredRole {
			c.JSON(http.StatusForbidden, gin.H{
				"error":    "insufficient permissions",
				"required": requiredRole,
				"current":  userRole,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
