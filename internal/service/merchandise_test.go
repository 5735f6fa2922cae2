package service

import (
	"context"
	"errors"
	"testing"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryMerchandise struct {
	items   map[uuid.UUID]model.Merchandise
	listErr error
}

func newMemoryMerchandise() *memoryMerchandise {
	return &memoryMerchandise{items: map[uuid.UUID]model.Merchandise{}}
}

func (m *memoryMerchandise) List(_ context.Context, _ database.Scope, q *model.MerchandiseQuery) ([]model.Merchandise, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	var out []model.Merchandise
	for _, it := range m.items {
		if q.Category != "" && it.Category != q.Category {
			continue
		}
		if q.Available != nil && it.Available != *q.Available {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func (m *memoryMerchandise) Get(_ context.Context, _ database.Scope, id uuid.UUID) (*model.Merchandise, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return &it, nil
}

func (m *memoryMerchandise) Create(_ context.Context, _ database.Scope, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	it := model.Merchandise{Name: req.Name, Price: req.Price, Category: req.Category, Available: req.IsAvailable()}
	it.ID = uuid.New()
	m.items[it.ID] = it
	return &it, nil
}

func (m *memoryMerchandise) Update(_ context.Context, _ database.Scope, id uuid.UUID, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	it, ok := m.items[id]
	if !ok {
		return nil, errors.New("not found")
	}
	it.Name, it.Price, it.Category, it.Available = req.Name, req.Price, req.Category, req.IsAvailable()
	m.items[id] = it
	return &it, nil
}

func (m *memoryMerchandise) Delete(_ context.Context, _ database.Scope, id uuid.UUID) error {
	delete(m.items, id)
	return nil
}

func TestMerchandiseService_EmptyCatalogueIsNotNil(t *testing.T) {
	svc := NewMerchandiseService(newMemoryMerchandise())

	items, err := svc.List(context.Background(), database.Scope{}, &model.MerchandiseQuery{})
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestMerchandiseService_ListError(t *testing.T) {
	store := newMemoryMerchandise()
	store.listErr = errors.New("connection reset")
	svc := NewMerchandiseService(store)

	items, err := svc.List(context.Background(), database.Scope{}, &model.MerchandiseQuery{})
	require.Error(t, err)
	assert.Nil(t, items)
}

func TestMerchandiseService_Lifecycle(t *testing.T) {
	svc := NewMerchandiseService(newMemoryMerchandise())
	ctx := context.Background()
	scope := database.Scope{}

	scarf, err := svc.Create(ctx, scope, &model.MerchandiseRequest{
		Name:     "Bufanda Betis Escocia",
		Price:    decimal.RequireFromString("15.00"),
		Category: "accessories",
	})
	require.NoError(t, err)

	soldOut := false
	_, err = svc.Create(ctx, scope, &model.MerchandiseRequest{
		Name:      "Camiseta 2024",
		Price:     decimal.RequireFromString("35.50"),
		Category:  "clothing",
		Available: &soldOut,
	})
	require.NoError(t, err)

	items, err := svc.List(ctx, scope, &model.MerchandiseQuery{Category: "accessories"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, scarf.ID, items[0].ID)

	available := true
	items, err = svc.List(ctx, scope, &model.MerchandiseQuery{Available: &available})
	require.NoError(t, err)
	assert.Len(t, items, 1)

	updated, err := svc.Update(ctx, scope, scarf.ID, &model.MerchandiseRequest{
		Name:     "Bufanda Betis Escocia",
		Price:    decimal.RequireFromString("12.00"),
		Category: "accessories",
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12").Equal(updated.Price))

	got, err := svc.Get(ctx, scope, scarf.ID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12").Equal(got.Price))

	require.NoError(t, svc.Delete(ctx, scope, scarf.ID))
	_, err = svc.Get(ctx, scope, scarf.ID)
	assert.Error(t, err)
}
