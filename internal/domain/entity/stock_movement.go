package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
)

// Direcciones de movimiento de stock.
const (
	MovementIn  = "in"  // entrada
	MovementOut = "out" // salida
)

// StockMovement es un evento atómico del ledger de inventario. Inmutable una
// vez creado; solo se elimina en cascada al borrar la línea de documento que
// lo originó (sin movimiento compensatorio automático).
type StockMovement struct {
	ID         string
	CompanyID  string
	MaterialID string
	ShelfID    string // vacío = stock sin estante asignado
	Amount     decimal.Decimal
	Direction  string     // in | out
	Expiration *time.Time // fecha de vencimiento del lote (opcional)
	Date       time.Time
	LineItemID string // línea de documento que originó el movimiento (opcional)
	Note       string
	CreatedBy  string
	CreatedAt  time.Time
}

// Validate verifica los invariantes del movimiento antes de tocar el ledger.
func (m *StockMovement) Validate() error {
	if m.MaterialID == "" || m.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	if m.Direction != MovementIn && m.Direction != MovementOut {
		return domain.ErrInvalidInput
	}
	if !m.Amount.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}
