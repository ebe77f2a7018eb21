package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kitchen-service/kitchen/backend"
	webconfig "github.com/kitchen-service/kitchen/backend/config"
	"github.com/kitchen-service/kitchen/backend/handlers"
	webmodels "github.com/kitchen-service/kitchen/backend/models"
	"github.com/kitchen-service/kitchen/kitchen/config"
	"github.com/kitchen-service/kitchen/kitchen/database/repositories"
	"github.com/kitchen-service/kitchen/kitchen/logger"
)

var serveMigrate bool

var serveCMD = &cobra.Command{
	Use:   "serve",
	Short: "serve the kitchen web application",
	RunE: func(cmd *cobra.Command, args []string) error {
		logger.LogSystem("Starting Kitchen",
			slog.String("version", version),
			slog.String("commit", commit))

		ctx, cancel := context.WithTimeout(cmd.Context(), config.SchemaTimeout)
		db, err := openDB(ctx)
		if err != nil {
			cancel()
			return err
		}
		defer db.Close()

		if serveMigrate {
			if err := db.InitializeSchema(ctx); err != nil {
				cancel()
				return fmt.Errorf("failed to initialize schema: %w", err)
			}
		}
		cancel()

		bunDB := db.BunDB()
		repos := webmodels.NewRepositories(
			repositories.NewCookRepository(bunDB),
			repositories.NewDishRepository(bunDB),
			repositories.NewDishTypeRepository(bunDB),
			repositories.NewIngredientRepository(bunDB),
		)

		webCfg := webconfig.NewWebAppConfig(cfg)
		webApp := handlers.NewWebApp(webCfg, db, repos, version, commit)
		app := backend.NewApp(webApp)

		address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
		logger.LogSystem("Starting web server",
			slog.String("address", address),
			slog.String("environment", webCfg.Environment))

		listenErr := make(chan error, 1)
		go func() {
			listenErr <- app.Listen(address)
		}()

		// Graceful shutdown
		stop := make(chan os.Signal, 1)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case err := <-listenErr:
			return fmt.Errorf("web server stopped: %w", err)
		case <-stop:
		}

		logger.LogSystem("Shutting down web server...")
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer shutdownCancel()

		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			logger.LogError("Server shutdown error", err)
		}

		logger.LogSystem("Web server shutdown complete")
		return nil
	},
}

func init() {
	serveCMD.Flags().BoolVar(&serveMigrate, "migrate", false, "create tables and indexes before serving")
	rootCmd.AddCommand(serveCMD)
}
