package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementRequest body para POST /api/stock/movements.
type MovementRequest struct {
	MaterialID string          `json:"material_id"`
	ShelfID    string          `json:"shelf_id,omitempty"` // vacío = movimiento sin estante
	Direction  string          `json:"direction"`          // in | out
	Amount     decimal.Decimal `json:"amount"`
	Expiration *time.Time      `json:"expiration,omitempty"` // nil = sin vencimiento
	Date       *time.Time      `json:"date,omitempty"`
	Note       string          `json:"note,omitempty"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID         string          `json:"id"`
	MaterialID string          `json:"material_id"`
	ShelfID    string          `json:"shelf_id,omitempty"`
	Direction  string          `json:"direction"`
	Amount     decimal.Decimal `json:"amount"`
	Expiration *time.Time      `json:"expiration,omitempty"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
}

// LotDTO lote vivo de un material.
type LotDTO struct {
	ShelfID    string          `json:"shelf_id,omitempty"`
	Expiration *time.Time      `json:"expiration,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// MaterialStockResponse respuesta de GET /api/stock/materials/:id.
type MaterialStockResponse struct {
	MaterialID         string          `json:"material_id"`
	CurrentStock       decimal.Decimal `json:"current_stock"`
	EarliestExpiration *time.Time      `json:"earliest_expiration,omitempty"`
	Lots               []LotDTO        `json:"lots"`
}

// ShelfContentDTO contenido de un estante para un (material, vencimiento).
type ShelfContentDTO struct {
	MaterialID string          `json:"material_id"`
	Expiration *time.Time      `json:"expiration,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
}

// ShelfContentsResponse respuesta de GET /api/stock/shelves/:id.
type ShelfContentsResponse struct {
	ShelfID  string            `json:"shelf_id"`
	Contents []ShelfContentDTO `json:"contents"`
}
