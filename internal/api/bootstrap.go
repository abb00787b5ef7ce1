package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Query escaping for the default avatar
	"strings"  // String manipulation

	"cryptohub/internal/config" // Application configuration
	"cryptohub/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// BootstrapAdminRequest creates or promotes the initial admin account
type BootstrapAdminRequest struct {
	Email         string `json:"email"`         // Target email
	Username      string `json:"username"`      // Target username
	Password      string `json:"password"`      // Password for a newly created account
	ResetPassword bool   `json:"resetPassword"` // Also reset the password of an existing account
}

// BootstrapAdminHandler creates or promotes an admin account. Only mounted
// when ALLOW_BOOTSTRAP is set, and further guarded by a shared setup token.
func BootstrapAdminHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		// The setup token must match exactly
		token := c.GetHeader("x-setup-token")
		if token == "" || token != cfg.SetupToken {
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
			return
		}
		var req BootstrapAdminRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email)) // Normalize the email
		req.Username = strings.TrimSpace(req.Username)            // Trim the username
		if req.Email == "" || req.Username == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email and username are required"})
			return
		}
		var user domain.User // Look up an existing account by email
		err := db.Where("email = ?", req.Email).First(&user).Error
		if err != nil {
			// No account yet: create one, which requires a password
			if req.Password == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Password required to create the admin user"})
				return
			}
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				internalError(c, "Failed to hash password", err)
				return
			}
			user = domain.User{
				Email:    req.Email,                                                                           // Email
				Username: req.Username,                                                                        // Username
				Password: string(hash),                                                                        // Hashed password
				Avatar:   "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.Username) + "&background=dc2626", // Admin avatar
				Role:     domain.RoleAdmin,                                                                    // Bootstrap straight to admin
			}
			if err := db.Create(&user).Error; err != nil {
				internalError(c, "Failed to create admin user", err)
				return
			}
		} else {
			// Account exists: promote it, optionally resetting the password
			user.Role = domain.RoleAdmin
			if req.ResetPassword && req.Password != "" {
				hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
				if err != nil {
					internalError(c, "Failed to hash password", err)
					return
				}
				user.Password = string(hash)
			}
			if err := db.Save(&user).Error; err != nil {
				internalError(c, "Failed to promote admin user", err)
				return
			}
		}
		logrus.WithFields(logrus.Fields{
			"user_id": user.ID,       // Admin user ID
			"email":   user.Email,    // Admin email
		}).Info("Admin account bootstrapped")
		c.JSON(http.StatusOK, gin.H{
			"message": "Admin user available",   // Human-readable message
			"user":    userResponse(user),       // Password-free user
		})
	}
}
