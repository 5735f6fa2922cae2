// Package server defines the core Server struct that composes the app's main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - database pool
//   - redis client
//   - feature flag resolver
//   - outbound clients (Resend, OneSignal, football-data.org)
//   - background job service (asynq) and the cron scheduler
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/lib/email"
	"github.com/betis-escocia/backend/internal/lib/flags"
	"github.com/betis-escocia/backend/internal/lib/footballdata"
	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/betis-escocia/backend/internal/lib/push"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/betis-escocia/backend/internal/logger"
)

// Server is the application container that holds shared resources.
//
// It is not the HTTP server itself; the *http.Server is configured in
// SetupHTTPServer and started in Start.
type Server struct {
	// Config holds all environment/config values for the app.
	Config *config.Config

	// Logger is the application's main structured logger.
	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Redis backs the flag and football-data caches, and asynq.
	Redis *redis.Client

	// Flags is constructed once here and threaded to every caller.
	Flags *flags.Resolver

	Email        *email.Client
	Push         *push.Client
	FootballData *footballdata.Client

	// Job enqueues tasks and runs the asynq workers.
	Job *job.JobService

	// Scheduler enqueues periodic sync tasks.
	Scheduler *job.Scheduler

	httpServer *http.Server
}

// New constructs a Server and initializes core dependencies.
//
// It does NOT start the HTTP server or the job workers. Workers are started
// by the serve command once the services have registered their sync
// functions.
//
// Redis connection failure does not block startup: flags fall back to their
// in-process copy and football-data responses are simply not cached.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	db, err := database.New(cfg, logger, loggerService)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	redisClient := newRedisClient(cfg, loggerService)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}

	flagResolver, err := flags.NewResolver(cfg.Flags, redisClient, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize feature flags: %w", err)
	}

	emailClient := email.NewClient(cfg, logger)
	pushClient := push.NewClient(cfg, logger)

	jobService := job.NewJobService(logger, cfg)
	jobService.InitHandlers(job.HandlerDeps{
		Email: emailClient,
		Push:  pushClient,
		PushEnabled: func(ctx context.Context) bool {
			return flagResolver.IsEnabled(ctx, string(flags.PushNotifications))
		},
	})

	return &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		DB:            db,
		Redis:         redisClient,
		Flags:         flagResolver,
		Email:         emailClient,
		Push:          pushClient,
		FootballData:  footballdata.NewClient(cfg, redisClient, logger),
		Job:           jobService,
		Scheduler:     job.NewScheduler(jobService.Dispatcher(), logger),
	}, nil
}

func newRedisClient(cfg *config.Config, loggerService *loggerPkg.LoggerService) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if loggerService != nil && loggerService.GetApplication() != nil {
		client.AddHook(nrredis.NewHook(client.Options()))
	}

	return client
}

// SetupHTTPServer configures the internal net/http server around handler.
// Config timeouts are expressed in seconds.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then releases the scheduler, workers, database and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Scheduler != nil {
		s.Scheduler.Stop()
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database connection: %w", err)
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			s.Logger.Warn().Err(err).Msg("closing redis client")
		}
	}

	return nil
}
