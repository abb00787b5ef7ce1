package middleware

import (
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin" // Gin web framework
)

// RequireRole allows the request through only when the resolved identity
// carries one of the allowed roles. Must run after JWTAuthMiddleware.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c) // Get resolved identity from context
		// A missing identity means the auth middleware did not run: caller misuse
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		// Check the user's role against the allowed set
		for _, role := range allowed {
			if user.Role == role {
				c.Next() // Role allowed, proceed
				return
			}
		}
		// Insufficient role; report the required set and the actual role
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
			"error":         "Access denied. Insufficient permissions.", // Human-readable reason
			"requiredRoles": allowed,                                    // Required role set
			"userRole":      user.Role,                                  // Actor's actual role
		})
	}
}
