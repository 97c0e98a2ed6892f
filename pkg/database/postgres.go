package database

import (
	"log"
	"time"

	"github.com/Eursukkul/coaching-service/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func NewPostgresDB(dsn string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	if err := Migrate(db); err != nil {
		log.Fatalf("failed to auto-migrate: %v", err)
	}

	return db
}

// Migrate creates the lifecycle tables and the indexes AutoMigrate cannot express.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Package{}, &models.Subscription{}, &models.Booking{}, &models.Payment{}); err != nil {
		return err
	}

	// Partial unique index: a subscription has at most one open charge
	return db.Exec(`
		CREATE UNIQUE INDEX IF NOT EXISTS idx_payment_pending_subscription
		ON payments (subscription_id)
		WHERE status = 'pending' AND type = 'subscription'
	`).Error
}
