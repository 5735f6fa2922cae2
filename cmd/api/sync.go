package main

import (
	"context"
	"fmt"

	"github.com/betis-escocia/backend/internal/lib/utils"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/repository"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:   "sync [matches|squad]",
	Short: "Pull matches or the squad from football-data.org once",
	Long: `Run a football-data.org sync in the foreground and print the result.

The scheduled sync does the same work through the job queue; this command is
for the first import and for checking the API key.`,
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"matches", "squad"},
	RunE:      runSync,
}

func runSync(cmd *cobra.Command, args []string) error {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		return err
	}
	defer func() {
		if err := srv.Shutdown(context.Background()); err != nil {
			log.Warn().Err(err).Msg("shutdown after sync")
		}
	}()

	services, err := service.NewService(srv, repository.NewRepositories(srv))
	if err != nil {
		return err
	}

	var result *model.SyncResult
	switch args[0] {
	case "matches":
		result, err = services.Match.Sync(cmd.Context(), srv.DB.Service())
	case "squad":
		result, err = services.Squad.Sync(cmd.Context(), srv.DB.Service())
	default:
		return fmt.Errorf("unknown sync target %q", args[0])
	}
	if err != nil {
		log.Error().Err(err).Str("target", args[0]).Msg("sync failed")
		return err
	}

	utils.PrintJSON(result)
	return nil
}
