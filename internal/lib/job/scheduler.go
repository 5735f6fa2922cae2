package job

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler enqueues periodic tasks from standard five-field cron
// expressions. Work itself always happens in the asynq workers, so several
// API replicas may run a Scheduler; NewSyncTask's uniqueness window
// collapses the duplicates.
type Scheduler struct {
	cron       *cron.Cron
	dispatcher *Dispatcher
	logger     *zerolog.Logger
}

// NewScheduler creates a Scheduler that dispatches through d.
func NewScheduler(d *Dispatcher, logger *zerolog.Logger) *Scheduler {
	cl := cronLogger{logger}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		dispatcher: d,
		logger:     logger,
	}
}

// Every registers taskType to be enqueued on spec.
func (s *Scheduler) Every(spec, taskType string) error {
	id, err := s.cron.AddFunc(spec, func() {
		s.dispatcher.Sync(context.Background(), taskType)
	})
	if err != nil {
		return fmt.Errorf("scheduling %s with %q: %w", taskType, spec, err)
	}

	s.logger.Info().
		Str("task", taskType).
		Str("spec", spec).
		Int("entry_id", int(id)).
		Msg("scheduled periodic task")
	return nil
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	l *zerolog.Logger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug().Fields(keysAndValues).Msg(msg)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
