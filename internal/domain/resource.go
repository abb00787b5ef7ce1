package domain

import "time"

// Resource types and categories
var (
	ResourceTypes      = []string{"pdf", "image", "guide"}
	ResourceCategories = []string{"análisis-técnico", "fundamentos", "trading", "seguridad", "defi", "otro"}
)

// Resource Model
type Resource struct {
	ID          uint      `gorm:"primaryKey" json:"id"`                   // Primary key
	UserID      uint      `gorm:"index;not null" json:"userId"`           // Foreign key to the owning User
	Owner       User      `gorm:"foreignKey:UserID" json:"-"`             // Owner record, populated at read time
	Title       string    `gorm:"size:150;not null" json:"title"`         // Title, 5-150 characters
	Description string    `gorm:"size:500;not null" json:"description"`   // Description, 10-500 characters
	Type        string    `gorm:"size:10;index;not null" json:"type"`     // One of ResourceTypes
	FileUrl     string    `gorm:"size:512;not null" json:"fileUrl"`       // URL of the stored file, required
	Category    string    `gorm:"size:30;index;not null" json:"category"` // One of ResourceCategories
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`                 // Timestamp of creation
	UpdatedAt   time.Time `json:"updatedAt"`                              // Timestamp of last update
}
