package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateMaterialRequest body para POST /api/materials.
type CreateMaterialRequest struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Code        string          `json:"code,omitempty"`
	EAN         string          `json:"ean,omitempty"`
	Price       decimal.Decimal `json:"price"`
}

// MaterialResponse material en respuestas, con el precio formateado en la
// moneda pedida cuando aplica.
type MaterialResponse struct {
	ID          string          `json:"id"`
	CompanyID   string          `json:"company_id"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Code        string          `json:"code,omitempty"`
	EAN         string          `json:"ean,omitempty"`
	Price       decimal.Decimal `json:"price"`
	PriceText   string          `json:"price_text,omitempty"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}

// CreateShelfRequest body para POST /api/shelves.
type CreateShelfRequest struct {
	Name string `json:"name"`
}

// ShelfResponse estante en respuestas.
type ShelfResponse struct {
	ID        string    `json:"id"`
	CompanyID string    `json:"company_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
