package repository

import (
	"path/filepath"
	"testing"

	"github.com/Govind-619/ShipSphere/config"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(&config.Config{
		DBDriver: "sqlite",
		DBName:   filepath.Join(t.TempDir(), "shipsphere.db"),
		Env:      "production",
	})
	require.NoError(t, err)
	require.NoError(t, config.Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}
