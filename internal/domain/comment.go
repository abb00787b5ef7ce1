package domain

import "time"

// Comment Model
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`            // Primary key
	PostID    uint      `gorm:"index;not null" json:"postId"`    // Foreign key to Post
	Post      Post      `json:"-"`                               // Parent post, populated at read time
	UserID    uint      `gorm:"index;not null" json:"userId"`    // Foreign key to the authoring User
	Author    User      `gorm:"foreignKey:UserID" json:"-"`      // Author record, populated at read time
	Content   string    `gorm:"size:1000;not null" json:"content"` // Body, 1-1000 characters
	CreatedAt time.Time `gorm:"index" json:"createdAt"`          // Timestamp of creation
	UpdatedAt time.Time `json:"updatedAt"`                       // Timestamp of last update
}
