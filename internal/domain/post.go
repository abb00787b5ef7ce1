package domain

import "time"

// Post categories
var PostCategories = []string{"análisis", "tutorial", "experiencia", "pregunta"}

// Post Model
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`                      // Primary key
	UserID    uint       `gorm:"index;not null" json:"userId"`              // Foreign key to the authoring User
	Author    User       `gorm:"foreignKey:UserID" json:"-"`                // Author record, populated at read time
	Title     string     `gorm:"size:200;not null" json:"title"`            // Title, 5-200 characters
	Content   string     `gorm:"type:text;not null" json:"content"`         // Body, at least 10 characters
	Category  string     `gorm:"size:30;index;not null" json:"category"`    // One of PostCategories
	Image     string     `gorm:"size:512" json:"image"`                     // Optional image URL
	Likes     []PostLike `gorm:"constraint:OnDelete:CASCADE;" json:"-"`     // Like set, one row per user
	CreatedAt time.Time  `gorm:"index" json:"createdAt"`                    // Timestamp of creation
	UpdatedAt time.Time  `json:"updatedAt"`                                 // Timestamp of last update
}

// PostLike Model: one row per (post, user) pair, set semantics
type PostLike struct {
	PostID uint `gorm:"primaryKey;autoIncrement:false"` // Foreign key to Post
	UserID uint `gorm:"primaryKey;autoIncrement:false"` // Foreign key to the liking User
}
