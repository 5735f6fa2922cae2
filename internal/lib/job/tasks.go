package job

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// Task type names stored in Redis. Asynq routes tasks to handlers by type.
const (
	TaskRSVPConfirmation    = "email:rsvp_confirmation"
	TaskContactNotification = "email:contact_notification"
	TaskAdminPush           = "push:admin_notification"
	TaskSyncMatches         = "sync:matches"
	TaskSyncSquad           = "sync:squad"
)

// Queue names and their worker share (see NewJobService).
const (
	QueueCritical = "critical"
	QueueDefault  = "default"
	QueueLow      = "low"
)

// RSVPConfirmationPayload is the JSON payload of TaskRSVPConfirmation.
type RSVPConfirmationPayload struct {
	To               string `json:"to"`
	Name             string `json:"name"`
	Attendees        int    `json:"attendees"`
	EventID          string `json:"event_id"`
	Message          string `json:"message,omitempty"`
	WhatsAppInterest bool   `json:"whatsapp_interest"`
}

// ContactNotificationPayload is the JSON payload of TaskContactNotification.
type ContactNotificationPayload struct {
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Type        string    `json:"type"`
	Subject     string    `json:"subject"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AdminPushPayload is the JSON payload of TaskAdminPush. Recipients are
// resolved when the task runs, from the admins' notification preferences.
type AdminPushPayload struct {
	Kind    string `json:"kind"`
	Heading string `json:"heading"`
	Content string `json:"content"`
	URL     string `json:"url,omitempty"`
}

// NewRSVPConfirmationTask builds the confirmation email task. Confirmations
// go to the critical queue so supporters get them quickly.
func NewRSVPConfirmationTask(p RSVPConfirmationPayload) (*asynq.Task, error) {
	return newTask(TaskRSVPConfirmation, p,
		asynq.MaxRetry(3),
		asynq.Queue(QueueCritical),
		asynq.Timeout(30*time.Second),
	)
}

// NewContactNotificationTask builds the admin email task for a contact
// submission.
func NewContactNotificationTask(p ContactNotificationPayload) (*asynq.Task, error) {
	return newTask(TaskContactNotification, p,
		asynq.MaxRetry(3),
		asynq.Queue(QueueDefault),
		asynq.Timeout(30*time.Second),
	)
}

// NewAdminPushTask builds the push notification task.
func NewAdminPushTask(p AdminPushPayload) (*asynq.Task, error) {
	return newTask(TaskAdminPush, p,
		asynq.MaxRetry(2),
		asynq.Queue(QueueDefault),
		asynq.Timeout(15*time.Second),
	)
}

// NewSyncTask builds a football-data sync task. Unique keeps a slow sync
// from piling up behind the scheduler.
func NewSyncTask(taskType string) (*asynq.Task, error) {
	return newTask(taskType, struct{}{},
		asynq.MaxRetry(1),
		asynq.Queue(QueueLow),
		asynq.Timeout(2*time.Minute),
		asynq.Unique(10*time.Minute),
	)
}

func newTask(taskType string, payload any, opts ...asynq.Option) (*asynq.Task, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(taskType, b, opts...), nil
}
