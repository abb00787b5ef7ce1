package api

import (
	"time" // Timestamps

	"cryptohub/internal/domain" // Importing domain models
)

// UserResponse is the self/admin view of a user: everything but the password
type UserResponse struct {
	ID            uint                   `json:"id"`             // User ID
	Username      string                 `json:"username"`       // Username
	Email         string                 `json:"email"`          // Email
	Avatar        string                 `json:"avatar"`         // Avatar URL
	WalletAddress string                 `json:"wallet_address"` // Wallet address
	Role          string                 `json:"role"`           // User role
	Portfolio     []domain.PortfolioItem `json:"portfolio"`      // Coin holdings
	CreatedAt     time.Time              `json:"createdAt"`      // Timestamp of creation
	UpdatedAt     time.Time              `json:"updatedAt"`      // Timestamp of last update
}

// userResponse maps a user onto its password-free representation
func userResponse(u domain.User) UserResponse {
	portfolio := u.Portfolio
	if portfolio == nil {
		portfolio = []domain.PortfolioItem{} // Serialize as [] rather than null
	}
	return UserResponse{
		ID:            u.ID,            // User ID
		Username:      u.Username,      // Username
		Email:         u.Email,         // Email
		Avatar:        u.Avatar,        // Avatar URL
		WalletAddress: u.WalletAddress, // Wallet address
		Role:          u.Role,          // User role
		Portfolio:     portfolio,       // Coin holdings
		CreatedAt:     u.CreatedAt,     // Timestamp of creation
		UpdatedAt:     u.UpdatedAt,     // Timestamp of last update
	}
}

// PublicUserResponse is the public view of a user: email stripped as well
type PublicUserResponse struct {
	ID            uint      `json:"id"`             // User ID
	Username      string    `json:"username"`       // Username
	Avatar        string    `json:"avatar"`         // Avatar URL
	WalletAddress string    `json:"wallet_address"` // Wallet address
	Role          string    `json:"role"`           // User role
	CreatedAt     time.Time `json:"createdAt"`      // Timestamp of creation
}

// publicUserResponse maps a user onto its public representation
func publicUserResponse(u domain.User) PublicUserResponse {
	return PublicUserResponse{
		ID:            u.ID,            // User ID
		Username:      u.Username,      // Username
		Avatar:        u.Avatar,        // Avatar URL
		WalletAddress: u.WalletAddress, // Wallet address
		Role:          u.Role,          // User role
		CreatedAt:     u.CreatedAt,     // Timestamp of creation
	}
}

// PostResponse is a post with its author populated and likes flattened
type PostResponse struct {
	ID        uint               `json:"id"`        // Post ID
	UserID    uint               `json:"userId"`    // Author ID
	Author    domain.UserSummary `json:"author"`    // Author projection
	Title     string             `json:"title"`     // Title
	Content   string             `json:"content"`   // Body
	Category  string             `json:"category"`  // Category
	Image     string             `json:"image"`     // Optional image URL
	Likes     []uint             `json:"likes"`     // IDs of users who liked the post
	CreatedAt time.Time          `json:"createdAt"` // Timestamp of creation
	UpdatedAt time.Time          `json:"updatedAt"` // Timestamp of last update
}

// postResponse maps a preloaded post onto its wire representation
func postResponse(p domain.Post) PostResponse {
	likes := make([]uint, 0, len(p.Likes))
	for _, l := range p.Likes {
		likes = append(likes, l.UserID) // Flatten the like rows to user IDs
	}
	return PostResponse{
		ID:        p.ID,               // Post ID
		UserID:    p.UserID,           // Author ID
		Author:    p.Author.Summary(), // Author projection
		Title:     p.Title,            // Title
		Content:   p.Content,          // Body
		Category:  p.Category,         // Category
		Image:     p.Image,            // Optional image URL
		Likes:     likes,              // Like set
		CreatedAt: p.CreatedAt,        // Timestamp of creation
		UpdatedAt: p.UpdatedAt,        // Timestamp of last update
	}
}

// PostSummary is the parent-post projection embedded in comments
type PostSummary struct {
	ID    uint   `json:"id"`    // Post ID
	Title string `json:"title"` // Post title
}

// CommentResponse is a comment with author and parent post populated
type CommentResponse struct {
	ID        uint               `json:"id"`        // Comment ID
	PostID    uint               `json:"postId"`    // Parent post ID
	Post      PostSummary        `json:"post"`      // Parent post projection
	UserID    uint               `json:"userId"`    // Author ID
	Author    domain.UserSummary `json:"author"`    // Author projection
	Content   string             `json:"content"`   // Body
	CreatedAt time.Time          `json:"createdAt"` // Timestamp of creation
	UpdatedAt time.Time          `json:"updatedAt"` // Timestamp of last update
}

// commentResponse maps a preloaded comment onto its wire representation
func commentResponse(cm domain.Comment) CommentResponse {
	return CommentResponse{
		ID:        cm.ID,                                         // Comment ID
		PostID:    cm.PostID,                                     // Parent post ID
		Post:      PostSummary{ID: cm.Post.ID, Title: cm.Post.Title}, // Parent projection
		UserID:    cm.UserID,                                     // Author ID
		Author:    cm.Author.Summary(),                           // Author projection
		Content:   cm.Content,                                    // Body
		CreatedAt: cm.CreatedAt,                                  // Timestamp of creation
		UpdatedAt: cm.UpdatedAt,                                  // Timestamp of last update
	}
}

// ResourceResponse is a resource with its owner populated
type ResourceResponse struct {
	ID          uint               `json:"id"`          // Resource ID
	UserID      uint               `json:"userId"`      // Owner ID
	Owner       domain.UserSummary `json:"owner"`       // Owner projection
	Title       string             `json:"title"`       // Title
	Description string             `json:"description"` // Description
	Type        string             `json:"type"`        // pdf, image or guide
	FileUrl     string             `json:"fileUrl"`     // Stored file URL
	Category    string             `json:"category"`    // Category
	CreatedAt   time.Time          `json:"createdAt"`   // Timestamp of creation
	UpdatedAt   time.Time          `json:"updatedAt"`   // Timestamp of last update
}

// resourceResponse maps a preloaded resource onto its wire representation
func resourceResponse(r domain.Resource) ResourceResponse {
	return ResourceResponse{
		ID:          r.ID,              // Resource ID
		UserID:      r.UserID,          // Owner ID
		Owner:       r.Owner.Summary(), // Owner projection
		Title:       r.Title,           // Title
		Description: r.Description,     // Description
		Type:        r.Type,            // Type
		FileUrl:     r.FileUrl,         // Stored file URL
		Category:    r.Category,        // Category
		CreatedAt:   r.CreatedAt,       // Timestamp of creation
		UpdatedAt:   r.UpdatedAt,       // Timestamp of last update
	}
}
