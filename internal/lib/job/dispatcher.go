package job

import (
	"context"
	"errors"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
)

// Enqueuer is satisfied by *asynq.Client.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// Dispatcher enqueues side-effect tasks on a best-effort basis: a failure to
// enqueue is logged as a warning and never returned, so the request that
// triggered it still succeeds.
type Dispatcher struct {
	client Enqueuer
	logger *zerolog.Logger
}

// NewDispatcher wraps client. A nil client turns every dispatch into a
// logged no-op.
func NewDispatcher(client Enqueuer, logger *zerolog.Logger) *Dispatcher {
	return &Dispatcher{client: client, logger: logger}
}

// RSVPConfirmation enqueues TaskRSVPConfirmation.
func (d *Dispatcher) RSVPConfirmation(ctx context.Context, p RSVPConfirmationPayload) {
	task, err := NewRSVPConfirmationTask(p)
	d.dispatch(ctx, TaskRSVPConfirmation, task, err)
}

// ContactNotification enqueues TaskContactNotification.
func (d *Dispatcher) ContactNotification(ctx context.Context, p ContactNotificationPayload) {
	task, err := NewContactNotificationTask(p)
	d.dispatch(ctx, TaskContactNotification, task, err)
}

// AdminPush enqueues TaskAdminPush.
func (d *Dispatcher) AdminPush(ctx context.Context, p AdminPushPayload) {
	task, err := NewAdminPushTask(p)
	d.dispatch(ctx, TaskAdminPush, task, err)
}

// Sync enqueues one of the sync task types.
func (d *Dispatcher) Sync(ctx context.Context, taskType string) {
	task, err := NewSyncTask(taskType)
	d.dispatch(ctx, taskType, task, err)
}

func (d *Dispatcher) dispatch(ctx context.Context, taskType string, task *asynq.Task, buildErr error) {
	if buildErr != nil {
		d.logger.Warn().Err(buildErr).Str("task", taskType).Msg("could not build background task")
		return
	}
	if d.client == nil {
		d.logger.Warn().Str("task", taskType).Msg("job queue unavailable, dropping task")
		return
	}

	info, err := d.client.EnqueueContext(ctx, task)
	switch {
	case errors.Is(err, asynq.ErrDuplicateTask):
		d.logger.Debug().Str("task", taskType).Msg("task already queued")
	case err != nil:
		d.logger.Warn().Err(err).Str("task", taskType).Msg("failed to enqueue background task")
	default:
		d.logger.Debug().
			Str("task", taskType).
			Str("task_id", info.ID).
			Str("queue", info.Queue).
			Msg("background task enqueued")
	}
}
