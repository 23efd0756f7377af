package database

import (
	"time"

	"mishtee/internal/model"

	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewConnection opens a GORM connection pool. Storefront tables are owned by the
// remote backend, so migration only runs when autoMigrate is set.
func NewConnection(dsn string, autoMigrate bool) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(10)
	sqlDB.SetConnMaxIdleTime(5 * time.Minute)

	if autoMigrate {
		if err := Migrate(db); err != nil {
			log.WithError(err).Warn("failed to auto-migrate storefront models")
		}
	}

	return db, nil
}

// Migrate creates or updates the storefront tables
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Customer{},
		&model.Product{},
		&model.Order{},
	)
}
