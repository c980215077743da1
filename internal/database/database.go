package database

import (
	"context"
	"fmt"
	"time"

	"ambulance-request-backend/internal/config"
	"ambulance-request-backend/internal/models"

	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect initializes and returns a GORM database connection
func Connect(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.Database,
	)

	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.Server.GinMode == "release" {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	// Set connection pool settings
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().Str("host", cfg.Database.Host).Str("database", cfg.Database.Database).Msg("connected to database")

	return db, nil
}

// Migrate creates or updates the schema and rewrites legacy ambulance statuses.
func Migrate(ctx context.Context, db *gorm.DB) error {
	if err := db.WithContext(ctx).AutoMigrate(
		&models.User{},
		&models.Hospital{},
		&models.Ambulance{},
		&models.Request{},
		&models.Session{},
		&models.AuditLog{},
	); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}

	migrated, err := NormalizeAmbulanceStatuses(ctx, db)
	if err != nil {
		return err
	}
	if migrated > 0 {
		log.Info().Int64("rows", migrated).Msg("migrated legacy ambulance statuses")
	}
	return nil
}

// NormalizeAmbulanceStatuses rewrites statuses stored under the legacy vocabulary.
// The comparison is binary so canonical rows are never touched under a
// case-insensitive collation.
func NormalizeAmbulanceStatuses(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for target, legacy := range models.LegacyAmbulanceStatuses() {
			result := tx.Model(&models.Ambulance{}).
				Where("BINARY status IN ?", legacy).
				Update("status", target)
			if result.Error != nil {
				return result.Error
			}
			total += result.RowsAffected
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to normalize ambulance statuses: %w", err)
	}
	return total, nil
}
