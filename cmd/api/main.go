// Command api runs the Betis Escocia backend: the HTTP API with its
// background workers, database migrations, and one-off football-data syncs.
package main

import (
	"fmt"
	"os"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "betis",
	Short: "Betis Escocia supporters club backend",
	Long: `Backend for the Peña Bética Escocesa website.

Available commands:
  serve   - Run the HTTP API, job workers and the sync scheduler
  migrate - Apply database migrations
  sync    - Pull matches or the squad from football-data.org once
  email   - Render email templates with sample data`,
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(serveCmd, migrateCmd, syncCmd, emailCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// bootstrap loads the config and builds the process logger. The returned
// LoggerService must be shut down by the caller to flush New Relic.
func bootstrap() (*config.Config, *zerolog.Logger, *logger.LoggerService, error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, nil, fmt.Errorf("loading config: %w", err)
	}

	loggerService := logger.NewLoggerService(cfg.Observability)
	log := logger.NewLoggerWithService(cfg.Observability, loggerService)

	return cfg, &log, loggerService, nil
}
