package db

import (
	"cryptohub/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// AutoMigrate creates tables, constraints and indexes for all models.
// The unique indexes on username and email are the final authority on
// uniqueness; handler pre-checks are only a fast path.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&domain.User{},
		&domain.PortfolioItem{},
		&domain.Post{},
		&domain.PostLike{},
		&domain.Comment{},
		&domain.Resource{},
	)
}

// Migrate opens a MySQL connection and performs the automatic migration
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	if err := AutoMigrate(db); err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}
