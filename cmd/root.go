package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/kitchen-service/kitchen/kitchen"
	"github.com/kitchen-service/kitchen/kitchen/database"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var (
	configPath string
	envFile    string

	cfg *kitchen.Config

	version = "dev"
	commit  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:           "kitchen",
	Short:         "Restaurant kitchen records: cooks, dishes, dish types and ingredients",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}
		}

		loaded, err := kitchen.LoadConfig(configPath)
		if err != nil {
			return err
		}
		cfg = loaded

		slog.SetDefault(logger.New("Kitchen", cfg.Log.Format, cfg.Log.Level, cfg.Log.AddSource))
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "path to config")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "environment overrides, skipped when missing")
}

// Execute runs the command line with the build information of the binary.
func Execute(v, c string) {
	version, commit = v, c
	if err := rootCmd.Execute(); err != nil {
		slog.Error("Command failed",
			slog.String("type", "sys"),
			slog.Any("error", err))
		os.Exit(1)
	}
}

// openDB connects with the loaded database settings.
func openDB(ctx context.Context) (*database.DB, error) {
	db, err := database.New(ctx, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	logger.LogSystem("Database connected",
		slog.String("database", cfg.DB.Database),
		slog.String("host", cfg.DB.Host))
	return db, nil
}
