package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"cryptohub/internal/validate" // Validation layer

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"gorm.io/gorm"               // GORM ORM library
)

// parseID extracts and validates the :id route parameter. A malformed ID
// yields a 400, deliberately distinct from a missing record's 404.
func parseID(c *gin.Context, entity string) (uint, bool) {
	v, err := strconv.ParseUint(c.Param("id"), 10, 32) // Parse the raw parameter
	if err != nil || v == 0 {
		// Malformed identifier syntax
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid " + entity + " ID"})
		return 0, false
	}
	return uint(v), true
}

// pageParams reads page and limit query parameters with per-resource defaults
func pageParams(c *gin.Context, defaultLimit int) (page, limit, offset int) {
	page = 1            // Default page number
	limit = defaultLimit // Default page size
	if p := c.Query("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v // Set page if valid
		}
	}
	if l := c.Query("limit"); l != "" {
		if v, err := strconv.Atoi(l); err == nil && v > 0 && v <= 100 {
			limit = v // Set limit if valid
		}
	}
	offset = (page - 1) * limit // Calculate offset for pagination
	return page, limit, offset
}

// Pagination is the block returned by every list endpoint
type Pagination struct {
	Total int64 `json:"total"` // Total matching records
	Page  int   `json:"page"`  // Current page
	Pages int   `json:"pages"` // Total pages
	Limit int   `json:"limit"` // Page size
}

// pagination computes the pagination block with pages = ceil(total/limit)
func pagination(total int64, page, limit int) Pagination {
	return Pagination{
		Total: total,                             // Total matching records
		Page:  page,                              // Current page
		Pages: (int(total) + limit - 1) / limit,  // Ceiling division
		Limit: limit,                             // Page size
	}
}

// validationFailed writes the complete field-error list when errs is non-empty
func validationFailed(c *gin.Context, errs []validate.FieldError) bool {
	if len(errs) == 0 {
		return false
	}
	c.JSON(http.StatusBadRequest, gin.H{"errors": errs}) // All violations at once
	return true
}

// isDuplicate reports a unique-index violation surfaced by gorm
func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// internalError logs the underlying failure and returns a generic 500
func internalError(c *gin.Context, msg string, err error) {
	logrus.WithFields(logrus.Fields{
		"path":  c.Request.URL.Path, // Request path
		"error": err.Error(),        // Error message
	}).Error(msg)
	c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
}
