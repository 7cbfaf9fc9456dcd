package main

import (
	"fmt"
	"os"

	"github.com/Govind-619/ShipSphere/config"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:           "shipsphere",
	Short:         "Pincode based shipping rates and checkout quotes",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, quoteCmd, seedAdminCmd, logsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, starts logging and opens the database
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("error loading config: %w", err)
	}

	if err := utils.InitLogger(cfg.LogDir, cfg.LogLevel); err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		utils.LogError("Failed to connect to database: %v", err)
		return nil, nil, err
	}
	utils.LogInfo("Connected to %s database", cfg.DBDriver)
	return cfg, db, nil
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
