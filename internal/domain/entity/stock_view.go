package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Lot es la cantidad de un material en un (estante, vencimiento) concreto.
// Invariante: Amount > 0; un lote que llega a <= 0 se elimina de la vista.
type Lot struct {
	ShelfID    string
	Expiration *time.Time // nil = sin vencimiento ("nunca vence", ordena al final)
	Amount     decimal.Decimal
}

// MaterialStockView es la vista materializada por material: lista de lotes
// ordenada por vencimiento (nil al final) y el vencimiento más próximo.
// Propiedad exclusiva del Stock Ledger; reconstruible reproduciendo el log.
type MaterialStockView struct {
	CompanyID          string
	MaterialID         string
	Lots               []Lot
	EarliestExpiration *time.Time // nil si no hay lotes con vencimiento
	UpdatedAt          time.Time
}

// Content es la cantidad de un material (con su vencimiento) dentro de un estante.
type Content struct {
	MaterialID string
	Expiration *time.Time
	Amount     decimal.Decimal
}

// ShelfContentsView es la vista materializada por estante, espejo de los
// lotes del lado material para el mismo triple (material, estante, vencimiento).
type ShelfContentsView struct {
	CompanyID string
	ShelfID   string
	Contents  []Content
	UpdatedAt time.Time
}

// CurrentStock devuelve la suma de los lotes (todos positivos por invariante).
func (v *MaterialStockView) CurrentStock() decimal.Decimal {
	total := decimal.Zero
	for _, lot := range v.Lots {
		total = total.Add(lot.Amount)
	}
	return total
}

// Clone devuelve una copia profunda de la vista (los updates del ledger son
// copy-on-write: nunca se muta la vista leída).
func (v *MaterialStockView) Clone() *MaterialStockView {
	out := &MaterialStockView{
		CompanyID:  v.CompanyID,
		MaterialID: v.MaterialID,
		UpdatedAt:  v.UpdatedAt,
	}
	out.Lots = make([]Lot, len(v.Lots))
	copy(out.Lots, v.Lots)
	if v.EarliestExpiration != nil {
		t := *v.EarliestExpiration
		out.EarliestExpiration = &t
	}
	return out
}

// Clone devuelve una copia profunda de la vista de estante.
func (v *ShelfContentsView) Clone() *ShelfContentsView {
	out := &ShelfContentsView{
		CompanyID: v.CompanyID,
		ShelfID:   v.ShelfID,
		UpdatedAt: v.UpdatedAt,
	}
	out.Contents = make([]Content, len(v.Contents))
	copy(out.Contents, v.Contents)
	return out
}
