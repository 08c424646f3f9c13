// internal/database/connection.go
package database

import (
	"fmt"
	"log"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/isabitv/isabitv-backend/internal/config"
	"github.com/isabitv/isabitv-backend/internal/models"
)

var DB *gorm.DB

func Initialize(cfg config.DatabaseConfig) (*gorm.DB, error) {
	var err error
	var gormConfig *gorm.Config

	// Configure GORM logger
	if cfg.LogLevel == "silent" {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		}
	} else {
		gormConfig = &gorm.Config{
			Logger: logger.Default.LogMode(logger.Info),
		}
	}

	// Connect to database
	DB, err = gorm.Open(postgres.Open(cfg.DSN()), gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying sql.DB
	sqlDB, err := DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	// Configure connection pool
	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Duration(cfg.MaxLifetime) * time.Second)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("Database connection established successfully")
	return DB, nil
}

func Close(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		log.Printf("Error getting underlying sql.DB: %v", err)
		return
	}

	if err := sqlDB.Close(); err != nil {
		log.Printf("Error closing database connection: %v", err)
	} else {
		log.Println("Database connection closed successfully")
	}
}

func RunMigrations(db *gorm.DB) error {
	log.Println("Running database migrations...")

	// Enable UUID extension
	if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\"").Error; err != nil {
		return fmt.Errorf("failed to create UUID extension: %w", err)
	}

	// Run auto-migrations
	err := db.AutoMigrate(
		&models.User{},
		&models.Video{},
		&models.Contest{},
		&models.ContestEntry{},
		&models.Report{},
		&models.Earning{},
		&models.Payout{},
		&models.PlatformSetting{},
		&models.AuditLog{},
		&models.AdminNotification{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Create indexes
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	log.Println("Database migrations completed successfully")
	return nil
}

func createIndexes(db *gorm.DB) error {
	indexes := []string{
		// User indexes
		"CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)",
		"CREATE INDEX IF NOT EXISTS idx_users_username ON users(username)",
		"CREATE INDEX IF NOT EXISTS idx_users_role_status ON users(role, status)",

		// Video indexes
		"CREATE INDEX IF NOT EXISTS idx_videos_creator ON videos(creator_id)",
		"CREATE INDEX IF NOT EXISTS idx_videos_category ON videos(category)",
		"CREATE INDEX IF NOT EXISTS idx_videos_created_at ON videos(created_at DESC)",

		// Contest indexes
		"CREATE INDEX IF NOT EXISTS idx_contests_status ON contests(status)",
		"CREATE INDEX IF NOT EXISTS idx_contests_category_status ON contests(category, status)",
		"CREATE INDEX IF NOT EXISTS idx_contests_deadline ON contests(submission_deadline)",

		// Entry indexes
		"CREATE INDEX IF NOT EXISTS idx_entries_contest_status ON contest_entries(contest_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_entries_creator ON contest_entries(creator_id)",
		"CREATE INDEX IF NOT EXISTS idx_entries_score ON contest_entries(judge_score DESC NULLS LAST)",

		// Report indexes
		"CREATE INDEX IF NOT EXISTS idx_reports_status ON reports(status, created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_reports_target ON reports(target_type, target_id)",
		"CREATE INDEX IF NOT EXISTS idx_reports_severity ON reports(severity, status)",

		// Admin indexes
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_user_action ON audit_logs(user_id, action)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_resource ON audit_logs(resource_type, resource_id)",
		"CREATE INDEX IF NOT EXISTS idx_audit_logs_created ON audit_logs(created_at DESC)",
		"CREATE INDEX IF NOT EXISTS idx_admin_notifications_status ON admin_notifications(status, priority)",
		"CREATE INDEX IF NOT EXISTS idx_platform_settings_category ON platform_settings(category, key)",

		// Payout indexes
		"CREATE INDEX IF NOT EXISTS idx_payouts_user_status ON payouts(user_id, status)",
		"CREATE INDEX IF NOT EXISTS idx_earnings_user ON earnings(user_id, created_at DESC)",

		// Full-text search indexes
		"CREATE INDEX IF NOT EXISTS idx_contests_search ON contests USING GIN(to_tsvector('english', title || ' ' || description))",
		"CREATE INDEX IF NOT EXISTS idx_videos_search ON videos USING GIN(to_tsvector('english', title || ' ' || description))",
	}

	for _, index := range indexes {
		if err := db.Exec(index).Error; err != nil {
			log.Printf("Warning: Failed to create index: %s, Error: %v", index, err)
			// Continue with other indexes instead of failing completely
		}
	}

	return nil
}

// Seed initial data
func SeedInitialData(db *gorm.DB) error {
	log.Println("Seeding initial data...")

	// Create default super admin user
	var adminCount int64
	db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&adminCount)

	if adminCount == 0 {
		admin := &models.User{
			Username:   "admin",
			Email:      "admin@isabitv.com",
			FirstName:  "Platform",
			LastName:   "Administrator",
			Role:       models.RoleSuperAdmin,
			Status:     models.UserStatusActive,
			IsVerified: true,
		}

		if err := admin.SetPassword("admin123!@#"); err != nil {
			return fmt.Errorf("failed to set admin password: %w", err)
		}

		if err := db.Create(admin).Error; err != nil {
			return fmt.Errorf("failed to create admin user: %w", err)
		}

		log.Println("Default super admin user created successfully")
	}

	// Create default platform settings
	defaultSettings := []models.PlatformSetting{
		{
			Category:    "general",
			Key:         "platform_name",
			Value:       models.JSONB{"value": "iSabiTV"},
			DataType:    "string",
			Description: "Platform name displayed to users",
		},
		{
			Category:    "general",
			Key:         "platform_tagline",
			Value:       models.JSONB{"value": "Share your story with the world"},
			DataType:    "string",
			Description: "Platform tagline for marketing pages",
		},
		{
			Category:    "contests",
			Key:         "winner_pool_size",
			Value:       models.JSONB{"value": 10},
			DataType:    "integer",
			Description: "Number of ranked candidates shown during winner selection",
		},
		{
			Category:    "payments",
			Key:         "minimum_payout",
			Value:       models.JSONB{"value": 25.0},
			DataType:    "float",
			Description: "Minimum amount for payout requests",
		},
		{
			Category:    "content",
			Key:         "max_video_size_mb",
			Value:       models.JSONB{"value": 500},
			DataType:    "integer",
			Description: "Maximum video file size in MB for uploads",
		},
		{
			Category:    "content",
			Key:         "auto_approve_entries",
			Value:       models.JSONB{"value": false},
			DataType:    "boolean",
			Description: "Automatically approve new contest entries",
		},
	}

	for _, setting := range defaultSettings {
		var count int64
		db.Model(&models.PlatformSetting{}).Where("category = ? AND key = ?", setting.Category, setting.Key).Count(&count)

		if count == 0 {
			var admin models.User
			if err := db.Where("role = ?", models.RoleSuperAdmin).First(&admin).Error; err == nil {
				setting.UpdatedBy = admin.ID
				if err := db.Create(&setting).Error; err != nil {
					log.Printf("Warning: Failed to create setting %s.%s: %v", setting.Category, setting.Key, err)
				}
			}
		}
	}

	log.Println("Initial data seeding completed")
	return nil
}

// Transaction helper
func WithTransaction(db *gorm.DB, fn func(*gorm.DB) error) error {
	tx := db.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	return tx.Commit().Error
}
