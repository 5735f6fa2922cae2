package model

import (
	"github.com/betis-escocia/backend/internal/validation"
	"github.com/shopspring/decimal"
)

// Merchandise categories.
const (
	CategoryClothing     = "clothing"
	CategoryAccessories  = "accessories"
	CategoryCollectibles = "collectibles"
)

// Merchandise is a row of the merchandise table.
type Merchandise struct {
	Base
	Name          string          `json:"name" db:"name"`
	Description   string          `json:"description" db:"description"`
	Price         decimal.Decimal `json:"price" db:"price"`
	ImageURL      string          `json:"imageUrl" db:"image_url"`
	Category      string          `json:"category" db:"category"`
	Available     bool            `json:"available" db:"available"`
	StockQuantity int             `json:"stockQuantity" db:"stock_quantity"`
	Sizes         []string        `json:"sizes" db:"sizes"`
	Colors        []string        `json:"colors" db:"colors"`
}

// MerchandiseQuery filters GET /api/merchandise.
type MerchandiseQuery struct {
	Category  string `query:"category" validate:"omitempty,oneof=clothing accessories collectibles"`
	Available *bool  `query:"available"`
}

func (q *MerchandiseQuery) Validate() error {
	return validation.Struct(q)
}

// MerchandiseRequest is the body of POST and PUT /api/merchandise.
type MerchandiseRequest struct {
	ID            string          `param:"id" json:"-" validate:"omitempty,uuid"`
	Name          string          `json:"name" validate:"required,min=2,max=120"`
	Description   string          `json:"description" validate:"max=2000"`
	Price         decimal.Decimal `json:"price" validate:"gt=0"`
	ImageURL      string          `json:"imageUrl" validate:"omitempty,url"`
	Category      string          `json:"category" validate:"required,oneof=clothing accessories collectibles"`
	Available     *bool           `json:"available"`
	StockQuantity int             `json:"stockQuantity" validate:"min=0"`
	Sizes         []string        `json:"sizes" validate:"max=12,dive,min=1,max=10"`
	Colors        []string        `json:"colors" validate:"max=12,dive,min=1,max=30"`
}

func (r *MerchandiseRequest) Validate() error {
	return validation.Struct(r)
}

// IsAvailable defaults Available to true.
func (r *MerchandiseRequest) IsAvailable() bool {
	return r.Available == nil || *r.Available
}
