package config

import (
	"fmt"

	"github.com/Govind-619/ShipSphere/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DSN builds the postgres connection string
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}

// OpenDB opens the database configured by DB_DRIVER
func OpenDB(c *Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{}
	if c.IsProduction() {
		gormConfig.Logger = logger.Default.LogMode(logger.Silent)
	}

	var dialector gorm.Dialector
	switch c.DBDriver {
	case "sqlite":
		dialector = sqlite.Open(c.DBName)
	default:
		dialector = postgres.Open(c.DSN())
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate auto-migrates the schema
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.ShippingRate{},
		&models.Admin{},
		&models.BlacklistedToken{},
	); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
