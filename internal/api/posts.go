package api

import (
	"context"  // Context for Redis operations
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"strings"  // String manipulation
	"time"     // Time durations

	"cryptohub/internal/domain"     // Importing domain models
	"cryptohub/internal/media"      // Media delegate
	"cryptohub/internal/middleware" // Identity helpers
	"cryptohub/internal/policy"     // Ownership rules
	"cryptohub/internal/utils"      // Utility functions
	"cryptohub/internal/validate"   // Validation layer

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// CreatePostRequest is the payload for post creation
type CreatePostRequest struct {
	Title    string `form:"title" json:"title" validate:"required,min=5,max=200"`                             // Title
	Content  string `form:"content" json:"content" validate:"required,min=10"`                                // Body
	Category string `form:"category" json:"category" validate:"required,oneof=análisis tutorial experiencia pregunta"` // Category
}

// UpdatePostRequest is the partial-update payload; empty fields are untouched
type UpdatePostRequest struct {
	Title    string `form:"title" json:"title" validate:"omitempty,min=5,max=200"`                             // Title
	Content  string `form:"content" json:"content" validate:"omitempty,min=10"`                                // Body
	Category string `form:"category" json:"category" validate:"omitempty,oneof=análisis tutorial experiencia pregunta"` // Category
}

// listPostsPayload is the cached shape of a posts listing
type listPostsPayload struct {
	Posts      []PostResponse `json:"posts"`      // Page of posts
	Pagination Pagination     `json:"pagination"` // Pagination block
}

// invalidatePostsCache drops the cached first pages of the default listing
func invalidatePostsCache(ctx context.Context, rdb *redis.Client) {
	// Simple version: delete the first 5 pages of the unfiltered listing
	for i := 1; i <= 5; i++ {
		_ = utils.DeleteCache(ctx, rdb, "posts:list:page="+strconv.Itoa(i)+":limit=10:category=:userId=")
	}
}

// ListPostsHandler returns a filtered, paginated page of posts, newest first
func ListPostsHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()            // Request-scoped context
		page, limit, offset := pageParams(c, 10) // Posts default to 10 per page
		category := c.Query("category")       // Optional category filter
		userID := c.Query("userId")           // Optional author filter
		// Create a cache key from every parameter that shapes the response
		cacheKey := "posts:list:page=" + strconv.Itoa(page) + ":limit=" + strconv.Itoa(limit) +
			":category=" + category + ":userId=" + userID
		var cached listPostsPayload
		// If cached data found, return it
		if found, err := utils.GetCache(ctx, rdb, cacheKey, &cached); err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"posts":      cached.Posts,      // Page of posts
				"pagination": cached.Pagination, // Pagination block
				"cached":     true,              // Indicate response is from cache
			})
			return
		}
		query := db.Model(&domain.Post{}) // Start building the query
		if category != "" {
			query = query.Where("category = ?", category) // Filter by category
		}
		if userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by author
		}
		var total int64 // Total post count
		if err := query.Count(&total).Error; err != nil {
			internalError(c, "Failed to count posts", err)
			return
		}
		var posts []domain.Post // Slice to hold posts
		// Fetch the page with author and likes populated, newest first
		if err := query.Preload("Author").Preload("Likes").
			Order("created_at desc").Offset(offset).Limit(limit).
			Find(&posts).Error; err != nil {
			internalError(c, "Failed to fetch posts", err)
			return
		}
		resp := make([]PostResponse, len(posts))
		for i, p := range posts {
			resp[i] = postResponse(p) // Map posts to the wire format
		}
		payload := listPostsPayload{Posts: resp, Pagination: pagination(total, page, limit)}
		// Cache the response for future requests
		_ = utils.SetCache(ctx, rdb, cacheKey, payload, 60*time.Second)
		c.JSON(http.StatusOK, gin.H{
			"posts":      payload.Posts,      // Page of posts
			"pagination": payload.Pagination, // Pagination block
			"cached":     false,              // Indicate response is not from cache
		})
	}
}

// GetPostHandler returns a single post with its author populated
func GetPostHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "post") // Validate the route parameter
		if !ok {
			return
		}
		var post domain.Post // Fetch post from database
		if err := db.Preload("Author").Preload("Likes").First(&post, id).Error; err != nil {
			// If post not found, return not found
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"post": postResponse(post)}) // Return the post
	}
}

// CreatePostHandler creates a post for the authenticated user, uploading the
// optional image attachment before anything is persisted
func CreatePostHandler(db *gorm.DB, rdb *redis.Client, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req CreatePostRequest // Bind multipart or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Trim string fields before validation
		req.Title = strings.TrimSpace(req.Title)
		req.Content = strings.TrimSpace(req.Content)
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		imageURL := "" // Optional image URL
		// Upload the attachment first: the record is persisted only after success
		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			f, err := fh.Open()
			if err != nil {
				internalError(c, "Failed to read uploaded image", err)
				return
			}
			defer f.Close()
			result, err := blobs.Upload(c.Request.Context(), f, media.FolderPosts, media.KindImage)
			if err != nil {
				// A failed upload aborts the create with no partial record
				internalError(c, "Failed to upload image", err)
				return
			}
			imageURL = result.URL // Canonical URL of the stored blob
		}
		post := domain.Post{
			UserID:   user.ID,      // Owner comes from the identity, never the client
			Title:    req.Title,    // Title
			Content:  req.Content,  // Body
			Category: req.Category, // Category
			Image:    imageURL,     // Optional image URL
		}
		if err := db.Create(&post).Error; err != nil {
			internalError(c, "Failed to create post", err)
			return
		}
		// Reload with the author populated for the response
		if err := db.Preload("Author").Preload("Likes").First(&post, post.ID).Error; err != nil {
			internalError(c, "Failed to load created post", err)
			return
		}
		invalidatePostsCache(c.Request.Context(), rdb) // Drop stale listing pages
		c.JSON(http.StatusCreated, gin.H{
			"message": "Post created successfully", // Human-readable message
			"post":    postResponse(post),          // Freshly reloaded record
		})
	}
}

// UpdatePostHandler applies a partial update, owner or admin only
func UpdatePostHandler(db *gorm.DB, rdb *redis.Client, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "post") // Validate the route parameter
		if !ok {
			return
		}
		var post domain.Post // Fetch post from database
		if err := db.First(&post, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		// Owner-or-admin check before any mutation
		if !policy.CanManage(user, post.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this post"})
			return
		}
		var req UpdatePostRequest // Bind multipart or JSON request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Title = strings.TrimSpace(req.Title)     // Trim before validation
		req.Content = strings.TrimSpace(req.Content) // Trim before validation
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		// Partial update semantics: only provided fields change
		if req.Title != "" {
			post.Title = req.Title
		}
		if req.Content != "" {
			post.Content = req.Content
		}
		if req.Category != "" {
			post.Category = req.Category
		}
		// Replace the attachment when a new one is provided
		if fh, err := c.FormFile("image"); err == nil && fh != nil {
			// Best-effort delete of the previous blob; never blocks the update
			media.DeleteByURL(c.Request.Context(), blobs, post.Image, media.KindImage)
			f, err := fh.Open()
			if err != nil {
				internalError(c, "Failed to read uploaded image", err)
				return
			}
			defer f.Close()
			result, err := blobs.Upload(c.Request.Context(), f, media.FolderPosts, media.KindImage)
			if err != nil {
				internalError(c, "Failed to upload new image", err)
				return
			}
			post.Image = result.URL // Point at the new blob
		}
		if err := db.Save(&post).Error; err != nil {
			internalError(c, "Failed to update post", err)
			return
		}
		// Reload with the author populated for the response
		if err := db.Preload("Author").Preload("Likes").First(&post, post.ID).Error; err != nil {
			internalError(c, "Failed to load updated post", err)
			return
		}
		invalidatePostsCache(c.Request.Context(), rdb) // Drop stale listing pages
		c.JSON(http.StatusOK, gin.H{
			"message": "Post updated successfully", // Human-readable message
			"post":    postResponse(post),          // Freshly reloaded record
		})
	}
}

// DeletePostHandler removes a post and its blob, owner or admin only.
// Comments under the post are intentionally left in place.
func DeletePostHandler(db *gorm.DB, rdb *redis.Client, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "post") // Validate the route parameter
		if !ok {
			return
		}
		var post domain.Post // Fetch post from database
		if err := db.First(&post, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		// Owner-or-admin check before any mutation
		if !policy.CanManage(user, post.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this post"})
			return
		}
		// Best-effort delete of the image blob; failure never aborts the delete
		media.DeleteByURL(c.Request.Context(), blobs, post.Image, media.KindImage)
		// Remove like rows first, then the post itself
		if err := db.Where("post_id = ?", post.ID).Delete(&domain.PostLike{}).Error; err != nil {
			internalError(c, "Failed to delete post", err)
			return
		}
		if err := db.Delete(&post).Error; err != nil {
			internalError(c, "Failed to delete post", err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"post_id": post.ID, // Deleted post ID
			"user_id": user.ID, // Acting user ID
		}).Info("Post deleted")
		invalidatePostsCache(c.Request.Context(), rdb) // Drop stale listing pages
		c.JSON(http.StatusOK, gin.H{"message": "Post deleted successfully"})
	}
}

// LikePostHandler toggles the actor's membership in the post's like set
func LikePostHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "post") // Validate the route parameter
		if !ok {
			return
		}
		var post domain.Post // Fetch post from database
		if err := db.First(&post, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
			return
		}
		var like domain.PostLike // Existing like row, if any
		err := db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).First(&like).Error
		hasLiked := false     // Resulting membership state
		message := "Like added" // Human-readable message
		if err == nil {
			// Already liked: remove the row
			if err := db.Where("post_id = ? AND user_id = ?", post.ID, user.ID).
				Delete(&domain.PostLike{}).Error; err != nil {
				internalError(c, "Failed to toggle like", err)
				return
			}
			message = "Like removed"
		} else {
			// Not yet liked: add the row
			if err := db.Create(&domain.PostLike{PostID: post.ID, UserID: user.ID}).Error; err != nil {
				internalError(c, "Failed to toggle like", err)
				return
			}
			hasLiked = true
		}
		var count int64 // Resulting like count
		if err := db.Model(&domain.PostLike{}).Where("post_id = ?", post.ID).Count(&count).Error; err != nil {
			internalError(c, "Failed to count likes", err)
			return
		}
		invalidatePostsCache(c.Request.Context(), rdb) // Drop stale listing pages
		c.JSON(http.StatusOK, gin.H{
			"message":  message,  // Which direction the toggle went
			"likes":    count,    // New like count
			"hasLiked": hasLiked, // Actor's resulting membership state
		})
	}
}
