package database

import (
	"bookforum/internal/config"
	"bookforum/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Initialize sets up the database connection and runs migrations
func Initialize(cfg *config.Config) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(cfg.DatabasePath), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect database")
	}

	// AutoMigrate the schema
	err = db.AutoMigrate(
		&models.User{},
		&models.ForumCategory{},
		&models.ForumPost{},
		&models.ForumReply{},
	)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	return db
}
