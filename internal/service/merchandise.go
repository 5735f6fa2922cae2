package service

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/google/uuid"
)

type merchandiseStore interface {
	List(ctx context.Context, scope database.Scope, q *model.MerchandiseQuery) ([]model.Merchandise, error)
	Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*model.Merchandise, error)
	Create(ctx context.Context, scope database.Scope, req *model.MerchandiseRequest) (*model.Merchandise, error)
	Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.MerchandiseRequest) (*model.Merchandise, error)
	Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error
}

// MerchandiseService is a thin pass-through; validation lives on the request
// types and constraints in the table.
type MerchandiseService struct {
	repo merchandiseStore
}

func NewMerchandiseService(repo merchandiseStore) *MerchandiseService {
	return &MerchandiseService{repo: repo}
}

func (s *MerchandiseService) List(ctx context.Context, scope database.Scope, q *model.MerchandiseQuery) ([]model.Merchandise, error) {
	items, err := s.repo.List(ctx, scope, q)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []model.Merchandise{}
	}
	return items, nil
}

func (s *MerchandiseService) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*model.Merchandise, error) {
	return s.repo.Get(ctx, scope, id)
}

func (s *MerchandiseService) Create(ctx context.Context, scope database.Scope, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	return s.repo.Create(ctx, scope, req)
}

func (s *MerchandiseService) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	return s.repo.Update(ctx, scope, id, req)
}

func (s *MerchandiseService) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	return s.repo.Delete(ctx, scope, id)
}
