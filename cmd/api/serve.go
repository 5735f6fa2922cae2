package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/betis-escocia/backend/internal/handler"
	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/betis-escocia/backend/internal/repository"
	"github.com/betis-escocia/backend/internal/router"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/service"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 30 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API, job workers and the sync scheduler",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, log, loggerService, err := bootstrap()
	if err != nil {
		return err
	}
	defer loggerService.Shutdown()

	srv, err := server.New(cfg, log, loggerService)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize server")
		return err
	}

	repos := repository.NewRepositories(srv)

	services, err := service.NewService(srv, repos)
	if err != nil {
		log.Error().Err(err).Msg("could not create services")
		return err
	}

	handlers := handler.NewHandlers(srv, services)
	srv.SetupHTTPServer(router.NewRouter(srv, handlers))

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := services.Job.Start(); err != nil {
		log.Error().Err(err).Msg("failed to start job workers")
		return err
	}

	if spec := cfg.Integration.MatchSyncCron; spec != "" {
		if err := srv.Scheduler.Every(spec, job.TaskSyncMatches); err != nil {
			log.Error().Err(err).Str("cron", spec).Msg("invalid match sync schedule")
			return err
		}
	}
	srv.Scheduler.Start()

	services.Standings.Start(ctx)
	defer services.Standings.Close()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped unexpectedly")
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		return err
	}

	log.Info().Msg("server exited properly")
	return nil
}
