package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/lib/job"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/google/uuid"
)

type contactStore interface {
	Create(ctx context.Context, scope database.Scope, req *model.CreateContactRequest, userID *string) (*model.ContactSubmission, error)
	List(ctx context.Context, scope database.Scope, q *model.ContactQuery) ([]model.ContactSubmission, error)
	UpdateStatus(ctx context.Context, scope database.Scope, id uuid.UUID, status string) (*model.ContactSubmission, error)
}

type ContactService struct {
	repo contactStore
	jobs jobDispatcher
}

func NewContactService(repo contactStore, jobs jobDispatcher) *ContactService {
	return &ContactService{repo: repo, jobs: jobs}
}

// Submit stores the message and notifies the admins by email and push.
func (s *ContactService) Submit(ctx context.Context, scope database.Scope, req *model.CreateContactRequest, userID string) (*model.ContactSubmission, error) {
	var owner *string
	if userID != "" {
		owner = &userID
	}

	sub, err := s.repo.Create(ctx, scope, req, owner)
	if err != nil {
		return nil, err
	}

	s.jobs.ContactNotification(ctx, job.ContactNotificationPayload{
		Name:        sub.Name,
		Email:       sub.Email,
		Phone:       sub.Phone,
		Type:        sub.Type,
		Subject:     sub.Subject,
		Message:     sub.Message,
		SubmittedAt: sub.CreatedAt,
	})
	s.jobs.AdminPush(ctx, job.AdminPushPayload{
		Kind:    "contact",
		Heading: "Nuevo mensaje de contacto",
		Content: sub.Name + ": " + sub.Subject,
		URL:     "/admin",
	})
	return sub, nil
}

func (s *ContactService) List(ctx context.Context, scope database.Scope, q *model.ContactQuery) ([]model.ContactSubmission, error) {
	subs, err := s.repo.List(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	if subs == nil {
		subs = []model.ContactSubmission{}
	}
	return subs, nil
}

func (s *ContactService) UpdateStatus(ctx context.Context, scope database.Scope, id uuid.UUID, status string) (*model.ContactSubmission, error) {
	return s.repo.UpdateStatus(ctx, scope, id, status)
}
