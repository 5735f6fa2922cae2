package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
)

type notificationStore interface {
	Get(ctx context.Context, scope database.Scope, userID string) (*model.NotificationPreference, error)
	Upsert(ctx context.Context, scope database.Scope, userID string, enabled bool) (*model.NotificationPreference, error)
	EnabledUserIDs(ctx context.Context, scope database.Scope) ([]string, error)
}

type NotificationService struct {
	repo notificationStore
}

func NewNotificationService(repo notificationStore) *NotificationService {
	return &NotificationService{repo: repo}
}

func (s *NotificationService) Preference(ctx context.Context, scope database.Scope, userID string) (*model.NotificationPreference, error) {
	return s.repo.Get(ctx, scope, userID)
}

func (s *NotificationService) SetPreference(ctx context.Context, scope database.Scope, userID string, enabled bool) (*model.NotificationPreference, error) {
	return s.repo.Upsert(ctx, scope, userID, enabled)
}

// Recipients lists the admins who opted in to push notifications. The push
// worker calls it when an admin notification task runs.
func (s *NotificationService) Recipients(ctx context.Context, scope database.Scope) ([]string, error) {
	return s.repo.EnabledUserIDs(ctx, scope)
}
