package repository

import (
	"context"

	"github.com/betis-escocia/backend/internal/database"
	"github.com/betis-escocia/backend/internal/model"
	"github.com/betis-escocia/backend/internal/server"
	"github.com/betis-escocia/backend/internal/sqlerr"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// price is read as text so decimal.Decimal scans it without float rounding.
const merchandiseColumns = `id, name, description, price::text AS price, image_url, category,
	available, stock_quantity, sizes, colors, created_at, updated_at`

type MerchandiseRepository struct {
	server *server.Server
}

func NewMerchandiseRepository(s *server.Server) *MerchandiseRepository {
	return &MerchandiseRepository{server: s}
}

func (r *MerchandiseRepository) List(ctx context.Context, scope database.Scope, q *model.MerchandiseQuery) ([]model.Merchandise, error) {
	stmt := `
		SELECT ` + merchandiseColumns + `
		FROM merchandise
		WHERE (@category::text = '' OR category = @category)
		  AND (@available::boolean IS NULL OR available = @available)
		ORDER BY category, name`

	var out []model.Merchandise
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, pgx.NamedArgs{
			"category":  q.Category,
			"available": q.Available,
		})
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Merchandise])
		return err
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return out, nil
}

func (r *MerchandiseRepository) Get(ctx context.Context, scope database.Scope, id uuid.UUID) (*model.Merchandise, error) {
	stmt := `SELECT ` + merchandiseColumns + ` FROM merchandise WHERE id = $1`
	return r.one(ctx, scope, stmt, id)
}

func (r *MerchandiseRepository) Create(ctx context.Context, scope database.Scope, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	stmt := `
		INSERT INTO merchandise (name, description, price, image_url, category, available, stock_quantity, sizes, colors)
		VALUES (@name, @description, @price::numeric, @image_url, @category, @available, @stock_quantity, @sizes, @colors)
		RETURNING ` + merchandiseColumns
	return r.one(ctx, scope, stmt, merchandiseArgs(req))
}

func (r *MerchandiseRepository) Update(ctx context.Context, scope database.Scope, id uuid.UUID, req *model.MerchandiseRequest) (*model.Merchandise, error) {
	stmt := `
		UPDATE merchandise SET
			name = @name,
			description = @description,
			price = @price::numeric,
			image_url = @image_url,
			category = @category,
			available = @available,
			stock_quantity = @stock_quantity,
			sizes = @sizes,
			colors = @colors
		WHERE id = @id
		RETURNING ` + merchandiseColumns

	args := merchandiseArgs(req)
	args["id"] = id
	return r.one(ctx, scope, stmt, args)
}

func (r *MerchandiseRepository) Delete(ctx context.Context, scope database.Scope, id uuid.UUID) error {
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM merchandise WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return sqlerr.NoRows("merchandise")
		}
		return nil
	})
	if err != nil {
		return sqlerr.HandleError(err)
	}
	return nil
}

func (r *MerchandiseRepository) one(ctx context.Context, scope database.Scope, stmt string, args ...any) (*model.Merchandise, error) {
	var item model.Merchandise
	err := scope.Tx(ctx, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, stmt, args...)
		if err != nil {
			return err
		}
		item, err = pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Merchandise])
		if err != nil {
			return wrapNoRows(err, "merchandise")
		}
		return nil
	})
	if err != nil {
		return nil, sqlerr.HandleError(err)
	}
	return &item, nil
}

func merchandiseArgs(req *model.MerchandiseRequest) pgx.NamedArgs {
	sizes, colors := req.Sizes, req.Colors
	if sizes == nil {
		sizes = []string{}
	}
	if colors == nil {
		colors = []string{}
	}
	return pgx.NamedArgs{
		"name":           req.Name,
		"description":    req.Description,
		"price":          req.Price.StringFixed(2),
		"image_url":      req.ImageURL,
		"category":       req.Category,
		"available":      req.IsAvailable(),
		"stock_quantity": req.StockQuantity,
		"sizes":          sizes,
		"colors":         colors,
	}
}
