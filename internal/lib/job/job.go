// Package job provides background job processing using Asynq.
//
// Asynq is a Redis-backed job queue:
//   - Request handlers enqueue side effects through a Dispatcher (producer).
//   - The JobService runs workers that process those tasks (consumer).
//   - The Scheduler enqueues periodic tasks from cron expressions.
package job

import (
	"fmt"
	"sync"

	"github.com/betis-escocia/backend/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// JobService holds the Asynq client (enqueue) and server (worker execution)
// plus the dependencies task handlers need.
type JobService struct {
	// Client is used to enqueue tasks into Redis.
	Client *asynq.Client

	server *asynq.Server
	logger *zerolog.Logger

	mu       sync.RWMutex
	deps     HandlerDeps
	syncers  map[string]SyncFunc
	admins   RecipientsFunc
	dispatch *Dispatcher
}

func redisOpt(cfg *config.Config) asynq.RedisClientOpt {
	return asynq.RedisClientOpt{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
}

// NewJobService creates a JobService configured to use Redis from cfg.
//
// Concurrency = 10 workers, shared across queues by weight:
// critical 6, default 3, low 1.
func NewJobService(logger *zerolog.Logger, cfg *config.Config) *JobService {
	client := asynq.NewClient(redisOpt(cfg))

	server := asynq.NewServer(
		redisOpt(cfg),
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				QueueCritical: 6, // supporter-facing emails
				QueueDefault:  3, // admin notifications
				QueueLow:      1, // football-data syncs
			},
			Logger:   asynqLogger{logger},
			LogLevel: asynq.WarnLevel,
		},
	)

	return &JobService{
		Client:   client,
		server:   server,
		logger:   logger,
		syncers:  map[string]SyncFunc{},
		dispatch: NewDispatcher(client, logger),
	}
}

// Dispatcher returns the best-effort dispatcher bound to this service's client.
func (j *JobService) Dispatcher() *Dispatcher {
	return j.dispatch
}

// Start registers task handlers and starts the worker server. Asynq runs
// workers in the background; Start returns once they are up.
func (j *JobService) Start() error {
	mux := asynq.NewServeMux()

	mux.HandleFunc(TaskRSVPConfirmation, j.handleRSVPConfirmationTask)
	mux.HandleFunc(TaskContactNotification, j.handleContactNotificationTask)
	mux.HandleFunc(TaskAdminPush, j.handleAdminPushTask)
	mux.HandleFunc(TaskSyncMatches, j.handleSyncTask)
	mux.HandleFunc(TaskSyncSquad, j.handleSyncTask)

	j.logger.Info().Msg("Starting background job server")

	if err := j.server.Start(mux); err != nil {
		return err
	}

	return nil
}

// Stop gracefully stops the job server and closes client resources.
func (j *JobService) Stop() {
	j.logger.Info().Msg("Stopping background job server")
	j.server.Shutdown()
	if err := j.Client.Close(); err != nil {
		j.logger.Warn().Err(err).Msg("closing job client")
	}
}

// asynqLogger routes asynq's internal logging through zerolog.
type asynqLogger struct {
	l *zerolog.Logger
}

func (a asynqLogger) Debug(args ...any) { a.l.Debug().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Info(args ...any)  { a.l.Info().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Warn(args ...any)  { a.l.Warn().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Error(args ...any) { a.l.Error().Msg(fmt.Sprint(args...)) }
func (a asynqLogger) Fatal(args ...any) { a.l.Fatal().Msg(fmt.Sprint(args...)) }
