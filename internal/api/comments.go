package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"cryptohub/internal/domain"     // Importing domain models
	"cryptohub/internal/middleware" // Identity helpers
	"cryptohub/internal/policy"     // Ownership rules
	"cryptohub/internal/validate"   // Validation layer

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CreateCommentRequest is the payload for comment creation
type CreateCommentRequest struct {
	PostID  uint   `json:"postId" validate:"required"`            // Parent post, must exist
	Content string `json:"content" validate:"required,max=1000"`  // Body, 1-1000 characters
}

// UpdateCommentRequest is the payload for comment edits
type UpdateCommentRequest struct {
	Content string `json:"content" validate:"required,max=1000"` // Replacement body
}

// ListCommentsHandler returns a filtered, paginated page of comments, oldest
// first. The ascending order is deliberate: comments read as a conversation.
func ListCommentsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pageParams(c, 20) // Comments default to 20 per page
		query := db.Model(&domain.Comment{})     // Start building the query
		if postID := c.Query("postId"); postID != "" {
			query = query.Where("post_id = ?", postID) // Filter by parent post
		}
		if userID := c.Query("userId"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by author
		}
		var total int64 // Total comment count
		if err := query.Count(&total).Error; err != nil {
			internalError(c, "Failed to count comments", err)
			return
		}
		var comments []domain.Comment // Slice to hold comments
		// Fetch the page with author and parent post populated, oldest first
		if err := query.Preload("Author").Preload("Post").
			Order("created_at asc").Offset(offset).Limit(limit).
			Find(&comments).Error; err != nil {
			internalError(c, "Failed to fetch comments", err)
			return
		}
		resp := make([]CommentResponse, len(comments))
		for i, cm := range comments {
			resp[i] = commentResponse(cm) // Map comments to the wire format
		}
		c.JSON(http.StatusOK, gin.H{
			"comments":   resp,                            // Page of comments
			"pagination": pagination(total, page, limit),  // Pagination block
		})
	}
}

// GetCommentHandler returns a single comment with author and post populated
func GetCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "comment") // Validate the route parameter
		if !ok {
			return
		}
		var comment domain.Comment // Fetch comment from database
		if err := db.Preload("Author").Preload("Post").First(&comment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"comment": commentResponse(comment)}) // Return the comment
	}
}

// CreateCommentHandler creates a comment on an existing post
func CreateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req CreateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Content = strings.TrimSpace(req.Content) // Trim before validation
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		// The parent post must exist at creation time
		var post domain.Post
		if err := db.First(&post, req.PostID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		comment := domain.Comment{
			PostID:  post.ID,     // Parent post
			UserID:  user.ID,     // Owner comes from the identity, never the client
			Content: req.Content, // Body
		}
		if err := db.Create(&comment).Error; err != nil {
			internalError(c, "Failed to create comment", err)
			return
		}
		// Reload with author and parent post populated for the response
		if err := db.Preload("Author").Preload("Post").First(&comment, comment.ID).Error; err != nil {
			internalError(c, "Failed to load created comment", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message": "Comment created successfully", // Human-readable message
			"comment": commentResponse(comment),       // Freshly reloaded record
		})
	}
}

// UpdateCommentHandler edits a comment. Strictly owner-only: admins may
// delete any comment but may not rewrite one.
func UpdateCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "comment") // Validate the route parameter
		if !ok {
			return
		}
		var comment domain.Comment // Fetch comment from database
		if err := db.First(&comment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		// Strict ownership, no admin override on edit
		if !policy.IsOwner(user, comment.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this comment"})
			return
		}
		var req UpdateCommentRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Content = strings.TrimSpace(req.Content) // Trim before validation
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		comment.Content = req.Content // Replace the body
		if err := db.Save(&comment).Error; err != nil {
			internalError(c, "Failed to update comment", err)
			return
		}
		// Reload with author and parent post populated for the response
		if err := db.Preload("Author").Preload("Post").First(&comment, comment.ID).Error; err != nil {
			internalError(c, "Failed to load updated comment", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": "Comment updated successfully", // Human-readable message
			"comment": commentResponse(comment),       // Freshly reloaded record
		})
	}
}

// DeleteCommentHandler removes a comment, owner or admin
func DeleteCommentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "comment") // Validate the route parameter
		if !ok {
			return
		}
		var comment domain.Comment // Fetch comment from database
		if err := db.First(&comment, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Comment not found"})
			return
		}
		// Owner-or-admin check, unlike edit which is owner-only
		if !policy.CanManage(user, comment.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this comment"})
			return
		}
		if err := db.Delete(&comment).Error; err != nil {
			internalError(c, "Failed to delete comment", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Comment deleted successfully"})
	}
}
