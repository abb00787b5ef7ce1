package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation
	"time"     // Server-stamped timestamps

	"cryptohub/internal/domain"     // Importing domain models
	"cryptohub/internal/media"      // Media delegate
	"cryptohub/internal/middleware" // Identity helpers
	"cryptohub/internal/policy"     // Ownership rules
	"cryptohub/internal/validate"   // Validation layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
)

// UpdateProfileRequest is the partial-update payload for the own profile
type UpdateProfileRequest struct {
	Username      string `form:"username" json:"username" validate:"omitempty,min=3,max=30,username"` // New username
	Email         string `form:"email" json:"email" validate:"omitempty,email"`                       // New email
	Password      string `form:"password" json:"password" validate:"omitempty,min=6"`                 // New password
	WalletAddress string `form:"wallet_address" json:"wallet_address" validate:"omitempty,eth_addr"`  // New wallet address
}

// PortfolioItemRequest is one entry of a portfolio replacement
type PortfolioItemRequest struct {
	CoinID string  `json:"coinId" validate:"required"` // Coin identifier
	Amount float64 `json:"amount" validate:"gte=0"`    // Held amount, never negative
}

// ReplacePortfolioRequest is the wholesale portfolio replacement payload
type ReplacePortfolioRequest struct {
	Items []PortfolioItemRequest `json:"items" validate:"dive"` // Per-element rules applied to each item
}

// ListUsersHandler returns a paginated user directory, admin only
func ListUsersHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pageParams(c, 20) // Users default to 20 per page
		query := db.Model(&domain.User{})        // Start building the query
		if role := c.Query("role"); role != "" {
			query = query.Where("role = ?", role) // Filter by role
		}
		var total int64 // Total user count
		if err := query.Count(&total).Error; err != nil {
			internalError(c, "Failed to count users", err)
			return
		}
		var users []domain.User // Slice to hold users
		// Fetch the page, newest first
		if err := query.Order("created_at desc").Offset(offset).Limit(limit).
			Find(&users).Error; err != nil {
			internalError(c, "Failed to fetch users", err)
			return
		}
		resp := make([]UserResponse, len(users))
		for i, u := range users {
			resp[i] = userResponse(u) // Map users to the password-free format
		}
		c.JSON(http.StatusOK, gin.H{
			"users":      resp,                           // Page of users
			"pagination": pagination(total, page, limit), // Pagination block
		})
	}
}

// GetUserHandler returns the public view of a user: email and password stripped
func GetUserHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "user") // Validate the route parameter
		if !ok {
			return
		}
		var user domain.User // Fetch user from database
		if err := db.First(&user, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": publicUserResponse(user)}) // Public projection
	}
}

// GetProfileHandler returns the authenticated user's own record with portfolio
func GetProfileHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var user domain.User // Reload with the portfolio populated
		if err := db.Preload("Portfolio").First(&user, actor.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": userResponse(user)}) // Password-free user
	}
}

// UpdateProfileHandler applies a partial update to the own profile, with an
// optional avatar attachment
func UpdateProfileHandler(db *gorm.DB, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req UpdateProfileRequest // Bind multipart or form request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Trim string fields and normalize the email before any checks
		req.Username = strings.TrimSpace(req.Username)
		req.Email = strings.ToLower(strings.TrimSpace(req.Email))
		req.WalletAddress = strings.TrimSpace(req.WalletAddress)
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		var user domain.User // Fetch the current record
		if err := db.First(&user, actor.ID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// Fast-path uniqueness check for changed identifiers, excluding self.
		// The unique indexes remain the final authority under concurrency.
		if req.Username != "" || req.Email != "" {
			check := db.Model(&domain.User{}).Where("id <> ?", user.ID)
			switch {
			case req.Username != "" && req.Email != "":
				check = check.Where("username = ? OR email = ?", req.Username, req.Email)
			case req.Username != "":
				check = check.Where("username = ?", req.Username)
			default:
				check = check.Where("email = ?", req.Email)
			}
			var count int64
			if err := check.Count(&count).Error; err != nil {
				internalError(c, "Failed to update profile", err)
				return
			}
			if count > 0 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already in use"})
				return
			}
		}
		// Partial update semantics: only provided fields change
		if req.Username != "" {
			user.Username = req.Username
		}
		if req.Email != "" {
			user.Email = req.Email
		}
		// Wallet address may be explicitly cleared with an empty value
		if _, present := c.GetPostForm("wallet_address"); present {
			user.WalletAddress = req.WalletAddress
		}
		if req.Password != "" {
			hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
			if err != nil {
				internalError(c, "Failed to hash password", err)
				return
			}
			user.Password = string(hash) // Store the new hash
		}
		// Replace the avatar when a new one is provided
		if fh, err := c.FormFile("avatar"); err == nil && fh != nil {
			// Best-effort delete of the previous avatar blob
			media.DeleteByURL(c.Request.Context(), blobs, user.Avatar, media.KindImage)
			f, err := fh.Open()
			if err != nil {
				internalError(c, "Failed to read uploaded avatar", err)
				return
			}
			defer f.Close()
			result, err := blobs.Upload(c.Request.Context(), f, media.FolderAvatars, media.KindImage)
			if err != nil {
				internalError(c, "Failed to upload avatar", err)
				return
			}
			user.Avatar = result.URL // Point at the new blob
		}
		if err := db.Save(&user).Error; err != nil {
			if isDuplicate(err) {
				// A concurrent request claimed the identifier first
				c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already in use"})
				return
			}
			internalError(c, "Failed to update profile", err)
			return
		}
		// Reload with the portfolio populated for the response
		if err := db.Preload("Portfolio").First(&user, user.ID).Error; err != nil {
			internalError(c, "Failed to load updated profile", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Profile updated successfully", // Human-readable message
			"user":    userResponse(user),             // Freshly reloaded record
		})
	}
}

// GetPortfolioHandler returns the authenticated user's portfolio items
func GetPortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var items []domain.PortfolioItem // Slice to hold portfolio items
		if err := db.Where("user_id = ?", actor.ID).Order("id asc").Find(&items).Error; err != nil {
			internalError(c, "Failed to fetch portfolio", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items}) // Return the items
	}
}

// ReplacePortfolioHandler wholesale-replaces the portfolio from a validated
// item list, stamping addedAt at replace time. Full overwrite, not a merge.
func ReplacePortfolioHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req ReplacePortfolioRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Trim each coin identifier before validation
		for i := range req.Items {
			req.Items[i].CoinID = strings.TrimSpace(req.Items[i].CoinID)
		}
		// Per-element rules accumulate one error per invalid item
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		now := time.Now() // One stamp for the whole replacement
		items := make([]domain.PortfolioItem, len(req.Items))
		for i, item := range req.Items {
			items[i] = domain.PortfolioItem{
				UserID:  actor.ID,    // Owner
				CoinID:  item.CoinID, // Coin identifier
				Amount:  item.Amount, // Held amount
				AddedAt: now,         // Server-stamped
			}
		}
		// Replace atomically: the old list must never survive a partial write
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("user_id = ?", actor.ID).Delete(&domain.PortfolioItem{}).Error; err != nil {
				return err // Return error to rollback
			}
			if len(items) == 0 {
				return nil // Empty replacement clears the portfolio
			}
			return tx.Create(&items).Error
		})
		if err != nil {
			internalError(c, "Failed to update portfolio", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Portfolio updated", // Human-readable message
			"items":   items,               // The stored items
		})
	}
}

// DeleteUserHandler deletes a user and cascades over everything they own:
// posts, comments, resources, portfolio and their blobs. Blob deletions are
// best-effort and never abort the cascade. Admin only; self-delete rejected.
func DeleteUserHandler(db *gorm.DB, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "user") // Validate the route parameter
		if !ok {
			return
		}
		var target domain.User // Fetch the target user
		if err := db.First(&target, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		// An admin acting on their own account is rejected explicitly
		if !policy.CanDeleteUser(actor, &target) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot delete your own account"})
			return
		}
		ctx := c.Request.Context() // Request-scoped context for delegate calls
		// Avatar blob first
		media.DeleteByURL(ctx, blobs, target.Avatar, media.KindImage)
		// Post image blobs, then the posts and their like rows
		var posts []domain.Post
		if err := db.Where("user_id = ?", target.ID).Find(&posts).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		for _, post := range posts {
			media.DeleteByURL(ctx, blobs, post.Image, media.KindImage)
		}
		postIDs := make([]uint, len(posts))
		for i, post := range posts {
			postIDs[i] = post.ID
		}
		if len(postIDs) > 0 {
			if err := db.Where("post_id IN ?", postIDs).Delete(&domain.PostLike{}).Error; err != nil {
				logrus.WithField("error", err.Error()).Error("Cascade: failed to delete like rows")
			}
		}
		// Likes the user placed on other posts go too
		if err := db.Where("user_id = ?", target.ID).Delete(&domain.PostLike{}).Error; err != nil {
			logrus.WithField("error", err.Error()).Error("Cascade: failed to delete user likes")
		}
		if err := db.Where("user_id = ?", target.ID).Delete(&domain.Post{}).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		// The user's comments everywhere
		if err := db.Where("user_id = ?", target.ID).Delete(&domain.Comment{}).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		// Resource blobs under their original kinds, then the resources
		var resources []domain.Resource
		if err := db.Where("user_id = ?", target.ID).Find(&resources).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		for _, resource := range resources {
			media.DeleteByURL(ctx, blobs, resource.FileUrl, resourceKind(resource.Type))
		}
		if err := db.Where("user_id = ?", target.ID).Delete(&domain.Resource{}).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		// Portfolio rows, then the user record itself
		if err := db.Where("user_id = ?", target.ID).Delete(&domain.PortfolioItem{}).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		if err := db.Delete(&target).Error; err != nil {
			internalError(c, "Failed to delete user", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"user_id":   target.ID,      // Deleted user ID
			"admin_id":  actor.ID,       // Acting admin ID
			"posts":     len(posts),     // Cascaded post count
			"resources": len(resources), // Cascaded resource count
		}).Info("User cascade delete completed")
		c.JSON(http.StatusOK, gin.H{"message": "User and all their content deleted successfully"})
	}
}
