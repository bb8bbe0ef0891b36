package database

import (
	"fmt"
	"time"

	"github.com/rkstores/billing-api/internal/config"
	"github.com/rkstores/billing-api/internal/domain/entity"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewPostgresDB creates a new postgres database connection
func NewPostgresDB(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	return db, nil
}

// AutoMigrate runs database migrations for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.Tenant{},
		&entity.TransactionDocument{},
		&entity.TransactionLine{},
		&entity.NumberSeries{},
		&entity.DiscountOtpChallenge{},
		&entity.NotificationOutbox{},
		&entity.IdempotencyKey{},
	)
}

// SeedDefaultData creates a default tenant when the database is empty
func SeedDefaultData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Tenant{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	tenant := &entity.Tenant{
		Name: "Default Store",
		Slug: "default",
		Settings: entity.TenantConfig{
			StoreName:      "Default Store",
			Currency:       "INR",
			NotifyCustomer: false,
		},
	}
	return db.Create(tenant).Error
}
