package api

import (
	"net/http" // HTTP status codes
	"time"     // Health timestamp

	"cryptohub/internal/config"     // Application configuration
	"cryptohub/internal/media"      // Media delegate
	"cryptohub/internal/middleware" // Auth and role guards

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// BuildRouter wires every route onto a gin engine. All dependencies are
// passed explicitly so tests can spin up isolated instances per run.
func BuildRouter(db *gorm.DB, rdb *redis.Client, blobs media.Store, cfg *config.Config) *gin.Engine {
	r := gin.New()        // Bare engine, middleware added explicitly
	r.Use(gin.Logger())   // Request logging
	// Uncaught panics become a structured 500; detail is suppressed in prod
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		logrus.WithFields(logrus.Fields{
			"path":  c.Request.URL.Path, // Request path
			"panic": err,                // Recovered value
		}).Error("Unhandled error in request")
		message := "Something went wrong" // Generic message for production
		if !cfg.IsProd {
			if e, ok := err.(error); ok {
				message = e.Error() // Development mode exposes the detail
			}
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "Internal server error", // Uniform error label
			"message": message,                 // Mode-dependent detail
		})
	}))

	auth := middleware.JWTAuthMiddleware(db, cfg.JWTSecret) // Credential verifier
	adminOnly := middleware.RequireRole("admin")            // Role gate

	// API index
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "CryptoHub API - Backend running", // Service banner
			"version": "1.0.0",                           // API version
			"endpoints": gin.H{
				"auth":      "/api/auth",      // Auth endpoints
				"users":     "/api/users",     // User endpoints
				"posts":     "/api/posts",     // Post endpoints
				"comments":  "/api/comments",  // Comment endpoints
				"resources": "/api/resources", // Resource endpoints
			},
		})
	})

	apiGroup := r.Group("/api") // Common API prefix

	// Health check
	apiGroup.GET("/health", func(c *gin.Context) {
		environment := "development"
		if cfg.IsProd {
			environment = "production"
		}
		c.JSON(http.StatusOK, gin.H{
			"status":      "OK",                                 // Liveness indicator
			"timestamp":   time.Now().UTC().Format(time.RFC3339), // Current time
			"environment": environment,                          // Running mode
		})
	})

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.POST("/register", RegisterHandler(db, cfg.JWTSecret)) // Registration endpoint
	authGroup.POST("/login", LoginHandler(db, cfg.JWTSecret))       // Login endpoint
	authGroup.GET("/me", auth, MeHandler())                         // Own identity endpoint

	// User routes
	userGroup := apiGroup.Group("/users")
	userGroup.GET("", auth, adminOnly, ListUsersHandler(db))               // Admin user directory
	userGroup.GET("/profile", auth, GetProfileHandler(db))                 // Own profile
	userGroup.PUT("/profile", auth, UpdateProfileHandler(db, blobs))       // Own profile update
	userGroup.GET("/me/portfolio", auth, GetPortfolioHandler(db))          // Own portfolio
	userGroup.PUT("/me/portfolio", auth, ReplacePortfolioHandler(db))      // Own portfolio replace
	userGroup.GET("/:id", GetUserHandler(db))                              // Public profile
	userGroup.DELETE("/:id", auth, adminOnly, DeleteUserHandler(db, blobs)) // Admin cascade delete

	// Post routes
	postGroup := apiGroup.Group("/posts")
	postGroup.GET("", ListPostsHandler(db, rdb))                       // Public listing
	postGroup.GET("/:id", GetPostHandler(db))                          // Public detail
	postGroup.POST("", auth, CreatePostHandler(db, rdb, blobs))        // Create endpoint
	postGroup.PUT("/:id", auth, UpdatePostHandler(db, rdb, blobs))     // Update endpoint
	postGroup.DELETE("/:id", auth, DeletePostHandler(db, rdb, blobs))  // Delete endpoint
	postGroup.POST("/:id/like", auth, LikePostHandler(db, rdb))        // Like toggle endpoint

	// Comment routes
	commentGroup := apiGroup.Group("/comments")
	commentGroup.GET("", ListCommentsHandler(db))                // Public listing
	commentGroup.GET("/:id", GetCommentHandler(db))              // Public detail
	commentGroup.POST("", auth, CreateCommentHandler(db))        // Create endpoint
	commentGroup.PUT("/:id", auth, UpdateCommentHandler(db))     // Owner-only update
	commentGroup.DELETE("/:id", auth, DeleteCommentHandler(db))  // Owner-or-admin delete

	// Resource routes
	resourceGroup := apiGroup.Group("/resources")
	resourceGroup.GET("", ListResourcesHandler(db))                      // Public listing
	resourceGroup.GET("/:id", GetResourceHandler(db))                    // Public detail
	resourceGroup.POST("", auth, CreateResourceHandler(db, blobs))       // Create endpoint
	resourceGroup.PUT("/:id", auth, UpdateResourceHandler(db, blobs))    // Update endpoint
	resourceGroup.DELETE("/:id", auth, DeleteResourceHandler(db, blobs)) // Delete endpoint

	// Admin bootstrap, mounted only when explicitly enabled
	if cfg.AllowBootstrap {
		apiGroup.POST("/bootstrap/admin", BootstrapAdminHandler(db, cfg))
	}

	// Catch-all for unmatched routes
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Route not found",   // Uniform error label
			"path":  c.Request.URL.Path,  // Requested path
		})
	})

	return r
}
