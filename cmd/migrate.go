package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var migrateCMD = &cobra.Command{
	Use:   "migrate",
	Short: "create the kitchen tables and indexes",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), config.SchemaTimeout)
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.InitializeSchema(ctx); err != nil {
			logger.LogError("Migration failed", err)
			return err
		}

		logger.LogSystem("Migration completed successfully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCMD)
}
