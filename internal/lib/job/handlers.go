package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/betis-escocia/backend/internal/lib/email"
	"github.com/betis-escocia/backend/internal/lib/push"
	"github.com/hibiken/asynq"
)

// Mailer is the part of *email.Client used by task handlers.
type Mailer interface {
	SendRSVPConfirmation(ctx context.Context, to string, data email.RSVPConfirmationData) error
	SendContactNotification(ctx context.Context, data email.ContactNotificationData) error
}

// Pusher is the part of *push.Client used by task handlers.
type Pusher interface {
	Send(ctx context.Context, n push.Notification) (string, error)
}

// SyncFunc runs one football-data sync.
type SyncFunc func(ctx context.Context) error

// RecipientsFunc lists the user ids that should receive admin pushes.
type RecipientsFunc func(ctx context.Context) ([]string, error)

// HandlerDeps are the clients task handlers call out to.
//
// PushEnabled is consulted when an admin push runs, so turning the
// push-notifications flag off also drops pushes already queued. nil means
// enabled.
type HandlerDeps struct {
	Email       Mailer
	Push        Pusher
	PushEnabled func(ctx context.Context) bool
}

// InitHandlers sets the dependencies required by task handlers. It must be
// called before Start.
func (j *JobService) InitHandlers(deps HandlerDeps) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.deps = deps
}

// RegisterSync binds a sync task type to the service that performs it. The
// services live above this package, so they register themselves at wiring
// time instead of being imported here.
func (j *JobService) RegisterSync(taskType string, fn SyncFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.syncers[taskType] = fn
}

// SetAdminRecipients sets how admin push recipients are resolved.
func (j *JobService) SetAdminRecipients(fn RecipientsFunc) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.admins = fn
}

func decode[T any](t *asynq.Task) (T, error) {
	var p T
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		// A malformed payload never becomes valid, so do not retry it.
		return p, fmt.Errorf("failed to unmarshal %s payload: %v: %w", t.Type(), err, asynq.SkipRetry)
	}
	return p, nil
}

func (j *JobService) handleRSVPConfirmationTask(ctx context.Context, t *asynq.Task) error {
	p, err := decode[RSVPConfirmationPayload](t)
	if err != nil {
		return err
	}

	j.logger.Info().
		Str("type", t.Type()).
		Str("event_id", p.EventID).
		Msg("Processing RSVP confirmation email task")

	j.mu.RLock()
	mailer := j.deps.Email
	j.mu.RUnlock()

	err = mailer.SendRSVPConfirmation(ctx, p.To, email.RSVPConfirmationData{
		Name:             p.Name,
		Attendees:        p.Attendees,
		EventID:          p.EventID,
		Message:          p.Message,
		WhatsAppInterest: p.WhatsAppInterest,
	})
	if err != nil {
		j.logger.Error().
			Str("type", t.Type()).
			Err(err).
			Msg("Failed to send RSVP confirmation email")
		return err // asynq marks the task failed and schedules a retry
	}

	j.logger.Info().Str("type", t.Type()).Msg("Successfully sent RSVP confirmation email")
	return nil
}

func (j *JobService) handleContactNotificationTask(ctx context.Context, t *asynq.Task) error {
	p, err := decode[ContactNotificationPayload](t)
	if err != nil {
		return err
	}

	j.mu.RLock()
	mailer := j.deps.Email
	j.mu.RUnlock()

	err = mailer.SendContactNotification(ctx, email.ContactNotificationData{
		Name:        p.Name,
		Email:       p.Email,
		Phone:       p.Phone,
		Type:        p.Type,
		Subject:     p.Subject,
		Message:     p.Message,
		SubmittedAt: p.SubmittedAt,
	})
	if err != nil {
		j.logger.Error().
			Str("type", t.Type()).
			Str("contact_type", p.Type).
			Err(err).
			Msg("Failed to send contact notification email")
		return err
	}

	j.logger.Info().Str("type", t.Type()).Msg("Successfully sent contact notification email")
	return nil
}

func (j *JobService) handleAdminPushTask(ctx context.Context, t *asynq.Task) error {
	p, err := decode[AdminPushPayload](t)
	if err != nil {
		return err
	}

	j.mu.RLock()
	pusher, admins, enabled := j.deps.Push, j.admins, j.deps.PushEnabled
	j.mu.RUnlock()

	if enabled != nil && !enabled(ctx) {
		j.logger.Debug().Str("kind", p.Kind).Msg("push notifications disabled, dropping task")
		return nil
	}

	if pusher == nil || admins == nil {
		j.logger.Warn().Str("type", t.Type()).Msg("push not configured, dropping task")
		return nil
	}

	recipients, err := admins(ctx)
	if err != nil {
		return fmt.Errorf("resolving push recipients: %w", err)
	}
	if len(recipients) == 0 {
		j.logger.Debug().Str("kind", p.Kind).Msg("no admin has push enabled")
		return nil
	}

	id, err := pusher.Send(ctx, push.Notification{
		Heading:     p.Heading,
		Content:     p.Content,
		URL:         p.URL,
		ExternalIDs: recipients,
		Data:        map[string]any{"kind": p.Kind},
	})
	if err != nil {
		j.logger.Error().Str("kind", p.Kind).Err(err).Msg("Failed to send admin push notification")
		return err
	}

	j.logger.Info().
		Str("kind", p.Kind).
		Str("notification_id", id).
		Int("recipients", len(recipients)).
		Msg("Successfully sent admin push notification")
	return nil
}

func (j *JobService) handleSyncTask(ctx context.Context, t *asynq.Task) error {
	j.mu.RLock()
	fn, ok := j.syncers[t.Type()]
	j.mu.RUnlock()

	if !ok {
		return fmt.Errorf("no syncer registered for %s: %w", t.Type(), asynq.SkipRetry)
	}

	j.logger.Info().Str("type", t.Type()).Msg("Processing sync task")

	if err := fn(ctx); err != nil {
		j.logger.Error().Str("type", t.Type()).Err(err).Msg("Sync task failed")
		return err
	}
	return nil
}
