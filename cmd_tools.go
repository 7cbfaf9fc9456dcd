package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Govind-619/ShipSphere/config"
	"github.com/Govind-619/ShipSphere/repository"
	"github.com/Govind-619/ShipSphere/services"
	"github.com/Govind-619/ShipSphere/utils"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)
		if err := config.Migrate(db); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Database migrated")
		return nil
	},
}

var quoteCmd = &cobra.Command{
	Use:   "quote <pincode> <subtotal>",
	Short: "Resolve the shipping quote for a pincode and order subtotal",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		subtotal, err := utils.ParseAmount(args[1])
		if err != nil {
			return fmt.Errorf("invalid subtotal: %w", err)
		}

		_, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)

		resolver := services.NewShippingResolver(repository.NewShippingRateRepository(db))
		quote, err := resolver.Resolve(cmd.Context(), args[0], subtotal)
		if errors.Is(err, services.ErrNoShippingRate) {
			return fmt.Errorf("shipping not available for pincode %q", args[0])
		}
		if err != nil {
			return err
		}

		out, err := json.MarshalIndent(quote, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var seedAdminCmd = &cobra.Command{
	Use:   "seed-admin",
	Short: "Create or refresh the admin account from ADMIN_* settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		defer closeDB(db)

		if !cfg.Admin.Enabled() {
			return errors.New("ADMIN_EMAIL and ADMIN_PASSWORD must be set")
		}
		if err := config.Migrate(db); err != nil {
			return err
		}

		auth := services.NewAdminAuthService(repository.NewAdminRepository(db), repository.NewGormTokenBlacklist(db), cfg.JWTSecret)
		admin, err := auth.SeedAdmin(cmd.Context(), cfg.Admin.Email, cfg.Admin.Password, cfg.Admin.FirstName, cfg.Admin.LastName)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Admin %s ready (id %d)\n", admin.Email, admin.ID)
		return nil
	},
}

var (
	logsDir  string
	logsDate string
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Summarise a day of server logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		day := time.Now()
		if logsDate != "" {
			parsed, err := time.Parse("2006-01-02", logsDate)
			if err != nil {
				return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", logsDate)
			}
			day = parsed
		}

		stats, err := utils.AnalyzeLogs(logsDir, day)
		if err != nil {
			return err
		}
		stats.WriteReport(cmd.OutOrStdout())
		return nil
	},
}

func init() {
	logsCmd.Flags().StringVar(&logsDir, "dir", "logs", "directory the server writes logs to")
	logsCmd.Flags().StringVar(&logsDate, "date", "", "day to analyse (YYYY-MM-DD), defaults to today")
}
