package ledger

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// Draw es la porción de un retiro asignada a un lote concreto (estante, vencimiento).
type Draw struct {
	ShelfID    string
	Expiration *time.Time
	Amount     decimal.Decimal
}

// PlanWithdrawal reparte un retiro entre los lotes de un estante en orden de
// vencimiento (primero-en-vencer, primero-en-salir; lotes sin vencimiento al
// final). Devuelve un draw por lote tocado. Si el estante no alcanza a cubrir
// la cantidad completa falla con ErrInconsistentWithdrawal, sin retiro parcial.
func PlanWithdrawal(view *entity.MaterialStockView, shelfID string, amount decimal.Decimal) ([]Draw, error) {
	if !amount.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidInput
	}

	// Los lotes ya vienen ordenados por vencimiento (nil al final).
	rest := amount
	var draws []Draw
	for _, lot := range view.Lots {
		if lot.ShelfID != shelfID {
			continue
		}
		take := lot.Amount
		if take.GreaterThan(rest) {
			take = rest
		}
		draws = append(draws, Draw{ShelfID: shelfID, Expiration: copyTime(lot.Expiration), Amount: take})
		rest = rest.Sub(take)
		if rest.IsZero() {
			return draws, nil
		}
	}
	return nil, domain.ErrInconsistentWithdrawal
}
