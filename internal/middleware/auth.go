package middleware

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"cryptohub/internal/domain" // Importing domain models
	"cryptohub/internal/utils"  // JWT utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/golang-jwt/jwt/v5" // JWT error sentinels
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// Context key under which the resolved identity is stored
const identityKey = "identity"

// JWTAuthMiddleware verifies the bearer token and resolves it to the current
// user record, so downstream handlers always see up-to-date role and profile
// fields. The password hash never leaves this middleware.
func JWTAuthMiddleware(db *gorm.DB, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		// Check if the Authorization header is present and properly formatted
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			// If not, abort with unauthorized status
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "No authentication token provided"})
			return
		}
		tokenStr := strings.TrimPrefix(authHeader, "Bearer ") // Extract the token string and parse it
		claims, err := utils.ParseJWT(tokenStr, secret)       // Parse the JWT token
		if err != nil {
			// Expired and invalid tokens are distinguished in logs, not in the response
			if errors.Is(err, jwt.ErrTokenExpired) {
				logrus.WithField("error", err.Error()).Info("Rejected expired token")
			} else {
				logrus.WithField("error", err.Error()).Warn("Rejected invalid token")
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		// Reload the user so a deleted account or changed role takes effect immediately
		var user domain.User
		if err := db.First(&user, claims.UserID).Error; err != nil {
			logrus.WithFields(logrus.Fields{
				"user_id": claims.UserID, // Claimed user ID
				"error":   err.Error(),   // Error message
			}).Warn("Token references a missing user")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found or token invalid"})
			return
		}
		c.Set(identityKey, &user) // Store the resolved identity in context
		c.Next()                  // Proceed to the next handler
	}
}

// CurrentUser returns the identity resolved by JWTAuthMiddleware, if any
func CurrentUser(c *gin.Context) (*domain.User, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.User)
	return user, ok
}
