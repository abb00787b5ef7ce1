package domain

import "time"

// PortfolioItem Model
type PortfolioItem struct {
	ID      uint      `gorm:"primaryKey" json:"-"`          // Primary key
	UserID  uint      `gorm:"index;not null" json:"-"`      // Foreign key to User
	CoinID  string    `gorm:"size:100;not null" json:"coinId"` // Coin identifier (e.g. "bitcoin")
	Amount  float64   `gorm:"not null" json:"amount"`       // Held amount, never negative
	AddedAt time.Time `json:"addedAt"`                      // Server-stamped at replace time
}
