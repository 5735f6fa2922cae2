package main

import (
	"github.com/betis-escocia/backend/internal/database"
	"github.com/spf13/cobra"
)

var migrateTarget int32

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply database migrations",
	Long: `Apply the embedded SQL migrations with tern.

Without --target every pending migration runs.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, loggerService, err := bootstrap()
		if err != nil {
			return err
		}
		defer loggerService.Shutdown()

		if err := database.Migrate(cmd.Context(), log, cfg, migrateTarget); err != nil {
			log.Error().Err(err).Msg("migration failed")
			return err
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().Int32Var(&migrateTarget, "target", 0, "migrate to this version (0 = latest)")
}
