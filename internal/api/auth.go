package api

import (
	"net/http" // HTTP status codes
	"net/url"  // Query escaping for the default avatar
	"strings"  // String manipulation

	"cryptohub/internal/domain"     // Importing domain models
	"cryptohub/internal/middleware" // Identity helpers
	"cryptohub/internal/utils"      // Utility functions
	"cryptohub/internal/validate"   // Validation layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// RegisterRequest is the payload for account creation
type RegisterRequest struct {
	Username      string `json:"username" validate:"required,min=3,max=30,username"` // Unique handle
	Email         string `json:"email" validate:"required,email"`                    // Unique email
	Password      string `json:"password" validate:"required,min=6"`                 // Plain password, hashed before storage
	WalletAddress string `json:"wallet_address" validate:"omitempty,eth_addr"`       // Optional wallet address
}

// LoginRequest is the payload for authentication
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"` // Registered email
	Password string `json:"password" validate:"required"`    // Plain password
}

// RegisterHandler creates a new user account and issues a token
func RegisterHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Trim string fields and normalize the email before any checks
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.WalletAddress = strings.TrimSpace(req.WalletAddress)
		// Run the full ruleset and report every violation at once
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		// Fast-path duplicate check; the unique indexes remain the final authority
		var existing domain.User
		err := db.Where("email = ? OR username = ?", req.Email, req.Username).First(&existing).Error
		if err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already registered"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			// If hashing fails, return internal server error
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
			return
		}
		user := domain.User{
			Username:      req.Username,                                                                        // Username
			Email:         req.Email,                                                                           // Lowercased email
			Password:      string(hash),                                                                        // Hashed password
			Avatar:        "https://ui-avatars.com/api/?name=" + url.QueryEscape(req.Username) + "&background=random", // Default avatar
			WalletAddress: req.WalletAddress,                                                                   // Optional wallet address
			Role:          domain.RoleUser,                                                                     // New accounts are never admins
		}
		// Attempt to create the user; a concurrent duplicate surfaces here
		if err := db.Create(&user).Error; err != nil {
			if isDuplicate(err) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Email or username already registered"})
				return
			}
			internalError(c, "Failed to register user", err)
			return
		}
		// Issue a signed token carrying the user ID and role
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			internalError(c, "Failed to generate token", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":  user.ID,       // New user ID
			"username": user.Username, // Username
		}).Info("User registered")
		// Return the token and the password-free user
		c.JSON(http.StatusCreated, gin.H{
			"message": "User registered successfully", // Human-readable message
			"token":   token,                          // Signed JWT
			"user":    userResponse(user),             // Password-free user
		})
	}
}

// LoginHandler authenticates a user and returns a JWT token
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			// If binding fails, return bad request
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Email = strings.ToLower(strings.TrimSpace(req.Email)) // Normalize the email
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		var user domain.User // Fetch user from database
		if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
			// If user not found, return unauthorized
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Role, jwtSecret)
		if err != nil {
			// If token generation fails, return internal server error
			internalError(c, "Failed to generate token", err)
			return
		}
		// Return the token and the password-free user
		c.JSON(http.StatusOK, gin.H{
			"message": "Login successful",  // Human-readable message
			"token":   token,               // Signed JWT
			"user":    userResponse(user),  // Password-free user
		})
	}
}

// MeHandler returns the authenticated user's own record
func MeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			// Auth middleware did not run
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userResponse(*user)}) // Password-free user
	}
}
