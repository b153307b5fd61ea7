package db

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lunary-backend/config"
	"lunary-backend/internal/model"
)

// Init initializes the database connection and runs migrations.
// A postgres DSN selects the postgres driver; anything else is treated as
// a sqlite file path for local development.
func Init(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(cfg.DSN, "postgres://") || strings.Contains(cfg.DSN, "host=") {
		dialector = postgres.Open(cfg.DSN)
	} else {
		dialector = sqlite.Open(cfg.DSN)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetimeMinutes) * time.Minute)

	log.Println("Running database migrations...")
	if err := db.AutoMigrate(
		&model.GlobalCosmicData{},
		&model.CosmicSnapshot{},
		&model.Subscriber{},
		&model.PushSubscription{},
		&model.SynastryReport{},
		&model.DailyHoroscope{},
		&model.MonthlyInsight{},
		&model.CosmicReport{},
		&model.JournalPattern{},
		&model.PatternAnalysis{},
		&model.YearAnalysis{},
		&model.FriendConnection{},
	); err != nil {
		return nil, fmt.Errorf("automigrate failed: %w", err)
	}

	log.Println("Database initialization complete.")
	return db, nil
}
