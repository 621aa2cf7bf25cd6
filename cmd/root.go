package cmd

import (
	"fmt"
	"os"

	"github.com/dairymanager/dairy-api/config"
	"github.com/dairymanager/dairy-api/logger"
	"github.com/dairymanager/dairy-api/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "dairy-api",
	Short: "Dairy Manager API - billing backend for milk delivery businesses",
	Long: `Dairy Manager API keeps the books of a dairy delivery business:
customers and their running dues, daily orders, payments, expenses
and the day dashboard.

Run "dairy-api serve" to start the HTTP server.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// bootstrap loads the configuration, builds the logger and opens the database
func bootstrap() (*config.Config, *zap.Logger, *gorm.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log := logger.New(logger.ForEnvironment(cfg.GoEnv, cfg.LogLevel, cfg.LogFormat))

	if err := config.ConnectDatabase(cfg); err != nil {
		return nil, nil, nil, err
	}
	log.Info("Database connection established", zap.Bool("postgres", config.IsPostgresURL(cfg.DatabaseURL)))

	return cfg, log, config.GetDB(), nil
}

// migrate brings the schema up to date
func migrate(db *gorm.DB, log *zap.Logger) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	log.Info("Database migration completed successfully")
	return nil
}
