package database

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"spothunt-backend/config"
	"spothunt-backend/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// DemoUserID is the id of the user created by SeedDemoUser
const DemoUserID = "demo-user"

// InitDB initializes the database connection
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	db, err := Open(cfg.DatabasePath)
	if err != nil {
		return nil, err
	}

	log.Println("Database initialized successfully")
	return db, nil
}

// Open connects to a sqlite database and migrates the schema. sqlite has a
// single writer, so the pool is capped at one connection.
func Open(dsn string) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
		// sqlite compares stored times as text
		NowFunc: func() time.Time { return time.Now().UTC() },
	}

	db, err := gorm.Open(sqlite.Open(dsn), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Auto migrate schemas
	err = db.AutoMigrate(
		&models.Spot{},
		&models.User{},
		&models.SpotHunt{},
		&models.UserBadge{},
		&models.Notification{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// LoadSpotData loads the static fallback spot list from a JSON file. It
// only runs against an empty spot table.
func LoadSpotData(db *gorm.DB, filePath string) error {
	// Check if data already exists
	var count int64
	db.Model(&models.Spot{}).Count(&count)
	if count > 0 {
		log.Printf("Database already contains %d spots, skipping data load", count)
		return nil
	}

	log.Println("Loading spot data from file:", filePath)

	raw, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			log.Printf("No seed file at %s, starting without stored spots", filePath)
			return nil
		}
		return fmt.Errorf("failed to read data file: %w", err)
	}

	var spots []models.Spot
	if err := json.Unmarshal(raw, &spots); err != nil {
		return fmt.Errorf("failed to parse JSON: %w", err)
	}

	log.Printf("Parsed %d spots from file", len(spots))

	// Insert spots in batches
	batchSize := 100
	successCount := 0
	errorCount := 0

	for i := 0; i < len(spots); i += batchSize {
		end := i + batchSize
		if end > len(spots) {
			end = len(spots)
		}

		batch := spots[i:end]
		for j := range batch {
			if batch[j].Source == "" {
				batch[j].Source = models.SourceStored
			}
			if len(batch[j].Ambiance) == 0 {
				batch[j].Ambiance = models.StringSet{"trendy"}
			}
		}
		if err := db.Create(&batch).Error; err != nil {
			log.Printf("Failed to insert batch: %v", err)
			errorCount += len(batch)
		} else {
			successCount += len(batch)
		}
	}

	log.Printf("Data load complete: %d successful, %d errors", successCount, errorCount)
	return nil
}

// SeedDemoUser creates the demo hunter used by local clients
func SeedDemoUser(db *gorm.DB) error {
	demo := models.User{
		ID:       DemoUserID,
		Username: "demo",
		Avatar:   "https://api.dicebear.com/7.x/avataaars/svg?seed=demo",
		Level:    1,
	}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&demo).Error; err != nil {
		return fmt.Errorf("failed to seed demo user: %w", err)
	}
	return nil
}
