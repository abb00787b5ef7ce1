package domain

import "time"

// User roles
const (
	RoleUser  = "user"  // Regular user
	RoleAdmin = "admin" // Administrator with override rights
)

// User Model
type User struct {
	ID            uint            `gorm:"primaryKey" json:"id"`                          // Primary key
	Username      string          `gorm:"size:30;uniqueIndex;not null" json:"username"`  // Unique username
	Email         string          `gorm:"size:255;uniqueIndex;not null" json:"email"`    // Unique email, stored lowercase
	Password      string          `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	Avatar        string          `gorm:"size:512" json:"avatar"`                        // Avatar URL
	WalletAddress string          `gorm:"size:42" json:"wallet_address"`                 // Wallet address (0x + 40 hex) or empty
	Role          string          `gorm:"size:10;default:user" json:"role"`              // Role: user or admin
	Portfolio     []PortfolioItem `gorm:"constraint:OnDelete:CASCADE;" json:"portfolio"` // Tracked coin holdings
	CreatedAt     time.Time       `json:"createdAt"`                                     // Timestamp of creation
	UpdatedAt     time.Time       `json:"updatedAt"`                                     // Timestamp of last update
}

// UserSummary is the owner projection embedded in posts, comments and resources
type UserSummary struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Avatar   string `json:"avatar"`   // Avatar URL
	Email    string `json:"email"`    // Email
}

// Summary returns the projection of a user that is safe to embed in other records
func (u User) Summary() UserSummary {
	return UserSummary{
		ID:       u.ID,       // User ID
		Username: u.Username, // Username
		Avatar:   u.Avatar,   // Avatar URL
		Email:    u.Email,    // Email
	}
}
