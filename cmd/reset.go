package cmd

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var resetConfirmed bool

var resetCMD = &cobra.Command{
	Use:   "reset",
	Short: "delete every cook, dish, dish type and ingredient",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !resetConfirmed {
			return errors.New("reset deletes all data, pass --yes to confirm")
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.SchemaTimeout)
		defer cancel()

		db, err := openDB(ctx)
		if err != nil {
			return err
		}
		defer db.Close()

		if err := db.ResetAppTables(ctx); err != nil {
			return err
		}
		logger.LogSystem("Kitchen data reset")
		return nil
	},
}

func init() {
	resetCMD.Flags().BoolVar(&resetConfirmed, "yes", false, "confirm deleting all data")
	rootCmd.AddCommand(resetCMD)
}
