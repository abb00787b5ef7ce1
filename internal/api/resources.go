package api

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"cryptohub/internal/domain"     // Importing domain models
	"cryptohub/internal/media"      // Media delegate
	"cryptohub/internal/middleware" // Identity helpers
	"cryptohub/internal/policy"     // Ownership rules
	"cryptohub/internal/validate"   // Validation layer

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CreateResourceRequest is the payload for resource creation
type CreateResourceRequest struct {
	Title       string `form:"title" json:"title" validate:"required,min=5,max=150"`              // Title
	Description string `form:"description" json:"description" validate:"required,min=10,max=500"` // Description
	Type        string `form:"type" json:"type" validate:"required,oneof=pdf image guide"`        // File type
	Category    string `form:"category" json:"category" validate:"required,oneof=análisis-técnico fundamentos trading seguridad defi otro"` // Category
}

// UpdateResourceRequest is the partial-update payload; empty fields are untouched
type UpdateResourceRequest struct {
	Title       string `form:"title" json:"title" validate:"omitempty,min=5,max=150"`              // Title
	Description string `form:"description" json:"description" validate:"omitempty,min=10,max=500"` // Description
	Type        string `form:"type" json:"type" validate:"omitempty,oneof=pdf image guide"`        // File type
	Category    string `form:"category" json:"category" validate:"omitempty,oneof=análisis-técnico fundamentos trading seguridad defi otro"` // Category
}

// resourceKind maps a resource type onto the delegate's storage kind
func resourceKind(resourceType string) media.Kind {
	switch resourceType {
	case "pdf":
		return media.KindRaw // PDFs are stored untouched
	case "image":
		return media.KindImage // Images may be transformed by the delegate
	default:
		return media.KindAuto // Guides: let the delegate decide
	}
}

// ListResourcesHandler returns a filtered, paginated page of resources,
// newest first
func ListResourcesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, limit, offset := pageParams(c, 10) // Resources default to 10 per page
		query := db.Model(&domain.Resource{})    // Start building the query
		if resourceType := c.Query("type"); resourceType != "" {
			query = query.Where("type = ?", resourceType) // Filter by type
		}
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category) // Filter by category
		}
		if userID := c.Query("userId"); userID != "" {
			query = query.Where("user_id = ?", userID) // Filter by owner
		}
		var total int64 // Total resource count
		if err := query.Count(&total).Error; err != nil {
			internalError(c, "Failed to count resources", err)
			return
		}
		var resources []domain.Resource // Slice to hold resources
		// Fetch the page with the owner populated, newest first
		if err := query.Preload("Owner").
			Order("created_at desc").Offset(offset).Limit(limit).
			Find(&resources).Error; err != nil {
			internalError(c, "Failed to fetch resources", err)
			return
		}
		resp := make([]ResourceResponse, len(resources))
		for i, r := range resources {
			resp[i] = resourceResponse(r) // Map resources to the wire format
		}
		c.JSON(http.StatusOK, gin.H{
			"resources":  resp,                           // Page of resources
			"pagination": pagination(total, page, limit), // Pagination block
		})
	}
}

// GetResourceHandler returns a single resource with its owner populated
func GetResourceHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c, "resource") // Validate the route parameter
		if !ok {
			return
		}
		var resource domain.Resource // Fetch resource from database
		if err := db.Preload("Owner").First(&resource, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"resource": resourceResponse(resource)}) // Return the resource
	}
}

// CreateResourceHandler creates a resource; the file attachment is required
// and must be stored successfully before the record is persisted
func CreateResourceHandler(db *gorm.DB, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		var req CreateResourceRequest // Bind multipart request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Trim string fields before validation
		req.Title = strings.TrimSpace(req.Title)
		req.Description = strings.TrimSpace(req.Description)
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		// The attachment is mandatory for resources
		fh, err := c.FormFile("file")
		if err != nil || fh == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
			return
		}
		f, err := fh.Open()
		if err != nil {
			internalError(c, "Failed to read uploaded file", err)
			return
		}
		defer f.Close()
		// Upload before persisting: no record may reference an unconfirmed blob
		result, err := blobs.Upload(c.Request.Context(), f, media.FolderResources, resourceKind(req.Type))
		if err != nil {
			internalError(c, "Failed to upload file", err)
			return
		}
		resource := domain.Resource{
			UserID:      user.ID,         // Owner comes from the identity, never the client
			Title:       req.Title,       // Title
			Description: req.Description, // Description
			Type:        req.Type,        // File type
			FileUrl:     result.URL,      // Confirmed blob URL
			Category:    req.Category,    // Category
		}
		if err := db.Create(&resource).Error; err != nil {
			internalError(c, "Failed to create resource", err)
			return
		}
		// Reload with the owner populated for the response
		if err := db.Preload("Owner").First(&resource, resource.ID).Error; err != nil {
			internalError(c, "Failed to load created resource", err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"message":  "Resource created successfully", // Human-readable message
			"resource": resourceResponse(resource),      // Freshly reloaded record
		})
	}
}

// UpdateResourceHandler applies a partial update, owner or admin only
func UpdateResourceHandler(db *gorm.DB, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "resource") // Validate the route parameter
		if !ok {
			return
		}
		var resource domain.Resource // Fetch resource from database
		if err := db.First(&resource, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		// Owner-or-admin check before any mutation
		if !policy.CanManage(user, resource.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to edit this resource"})
			return
		}
		var req UpdateResourceRequest // Bind multipart request to struct
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		req.Title = strings.TrimSpace(req.Title)             // Trim before validation
		req.Description = strings.TrimSpace(req.Description) // Trim before validation
		if validationFailed(c, validate.Struct(req)) {
			return
		}
		// Partial update semantics: only provided fields change
		if req.Title != "" {
			resource.Title = req.Title
		}
		if req.Description != "" {
			resource.Description = req.Description
		}
		if req.Type != "" {
			resource.Type = req.Type
		}
		if req.Category != "" {
			resource.Category = req.Category
		}
		// Replace the attachment when a new one is provided
		if fh, err := c.FormFile("file"); err == nil && fh != nil {
			// Best-effort delete of the previous blob under its original kind
			media.DeleteByURL(c.Request.Context(), blobs, resource.FileUrl, resourceKind(resource.Type))
			f, err := fh.Open()
			if err != nil {
				internalError(c, "Failed to read uploaded file", err)
				return
			}
			defer f.Close()
			result, err := blobs.Upload(c.Request.Context(), f, media.FolderResources, resourceKind(resource.Type))
			if err != nil {
				internalError(c, "Failed to upload new file", err)
				return
			}
			resource.FileUrl = result.URL // Point at the new blob
		}
		if err := db.Save(&resource).Error; err != nil {
			internalError(c, "Failed to update resource", err)
			return
		}
		// Reload with the owner populated for the response
		if err := db.Preload("Owner").First(&resource, resource.ID).Error; err != nil {
			internalError(c, "Failed to load updated resource", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message":  "Resource updated successfully", // Human-readable message
			"resource": resourceResponse(resource),      // Freshly reloaded record
		})
	}
}

// DeleteResourceHandler removes a resource and its blob, owner or admin only
func DeleteResourceHandler(db *gorm.DB, blobs media.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c) // Get resolved identity from context
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		id, ok := parseID(c, "resource") // Validate the route parameter
		if !ok {
			return
		}
		var resource domain.Resource // Fetch resource from database
		if err := db.First(&resource, id).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
			return
		}
		// Owner-or-admin check before any mutation
		if !policy.CanManage(user, resource.UserID) {
			c.JSON(http.StatusForbidden, gin.H{"error": "You don't have permission to delete this resource"})
			return
		}
		// Best-effort delete of the file blob; failure never aborts the delete
		media.DeleteByURL(c.Request.Context(), blobs, resource.FileUrl, resourceKind(resource.Type))
		if err := db.Delete(&resource).Error; err != nil {
			internalError(c, "Failed to delete resource", err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Resource deleted successfully"})
	}
}
