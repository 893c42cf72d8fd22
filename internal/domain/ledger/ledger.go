// Package ledger aplica movimientos de stock sobre las dos vistas
// materializadas (lotes por material, contenido por estante). El log de
// movimientos es la fuente de verdad; estas vistas son cachés reconstruibles
// reproduciendo el log, que es el procedimiento de recuperación ante
// cualquier divergencia detectada.
package ledger

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// Apply aplica un movimiento sobre copias de ambas vistas y devuelve las
// vistas nuevas. Copy-on-write: las vistas de entrada no se mutan, así el
// commit del par es todo-o-nada (el caller persiste ambas o ninguna).
//
// shelfView puede ser nil cuando el movimiento no tiene estante asignado; en
// ese caso solo cambia la vista del material.
//
// Una salida sobre un lote inexistente o insuficiente se rechaza con
// ErrInconsistentWithdrawal: nunca se crea un lote negativo ni se elimina
// silenciosamente el lote (ese comportamiento oculta errores de inventario).
func Apply(matView *entity.MaterialStockView, shelfView *entity.ShelfContentsView, mov *entity.StockMovement) (*entity.MaterialStockView, *entity.ShelfContentsView, error) {
	if err := mov.Validate(); err != nil {
		return nil, nil, err
	}
	if mov.ShelfID != "" && shelfView == nil {
		return nil, nil, domain.ErrInvalidInput
	}

	newMat := matView.Clone()
	if err := applyToLots(newMat, mov); err != nil {
		return nil, nil, err
	}
	sortLots(newMat.Lots)
	newMat.EarliestExpiration = earliestExpiration(newMat.Lots)
	newMat.UpdatedAt = mov.Date

	var newShelf *entity.ShelfContentsView
	if mov.ShelfID != "" {
		newShelf = shelfView.Clone()
		if err := applyToContents(newShelf, mov); err != nil {
			return nil, nil, err
		}
		sortContents(newShelf.Contents)
		newShelf.UpdatedAt = mov.Date
	}
	return newMat, newShelf, nil
}

// applyToLots localiza el lote por clave (estante, vencimiento) y aplica la
// entrada o salida. Un lote cuya cantidad queda en <= 0 se elimina por
// completo: no se conservan residuos cero ni negativos.
func applyToLots(view *entity.MaterialStockView, mov *entity.StockMovement) error {
	idx := -1
	for i, lot := range view.Lots {
		if lot.ShelfID == mov.ShelfID && sameExpiration(lot.Expiration, mov.Expiration) {
			idx = i
			break
		}
	}

	if mov.Direction == entity.MovementIn {
		if idx < 0 {
			view.Lots = append(view.Lots, entity.Lot{
				ShelfID:    mov.ShelfID,
				Expiration: copyTime(mov.Expiration),
				Amount:     mov.Amount,
			})
			return nil
		}
		view.Lots[idx].Amount = view.Lots[idx].Amount.Add(mov.Amount)
		return nil
	}

	// salida
	if idx < 0 {
		return domain.ErrInconsistentWithdrawal
	}
	rest := view.Lots[idx].Amount.Sub(mov.Amount)
	if rest.LessThan(decimal.Zero) {
		return domain.ErrInconsistentWithdrawal
	}
	if rest.LessThanOrEqual(decimal.Zero) {
		view.Lots = append(view.Lots[:idx], view.Lots[idx+1:]...)
		return nil
	}
	view.Lots[idx].Amount = rest
	return nil
}

// applyToContents refleja la misma lógica sobre el contenido del estante,
// con clave (material, vencimiento).
func applyToContents(view *entity.ShelfContentsView, mov *entity.StockMovement) error {
	idx := -1
	for i, c := range view.Contents {
		if c.MaterialID == mov.MaterialID && sameExpiration(c.Expiration, mov.Expiration) {
			idx = i
			break
		}
	}

	if mov.Direction == entity.MovementIn {
		if idx < 0 {
			view.Contents = append(view.Contents, entity.Content{
				MaterialID: mov.MaterialID,
				Expiration: copyTime(mov.Expiration),
				Amount:     mov.Amount,
			})
			return nil
		}
		view.Contents[idx].Amount = view.Contents[idx].Amount.Add(mov.Amount)
		return nil
	}

	if idx < 0 {
		return domain.ErrInconsistentWithdrawal
	}
	rest := view.Contents[idx].Amount.Sub(mov.Amount)
	if rest.LessThan(decimal.Zero) {
		return domain.ErrInconsistentWithdrawal
	}
	if rest.LessThanOrEqual(decimal.Zero) {
		view.Contents = append(view.Contents[:idx], view.Contents[idx+1:]...)
		return nil
	}
	view.Contents[idx].Amount = rest
	return nil
}

// RebuildMaterial reconstruye la vista de un material reproduciendo sus
// movimientos en orden. Procedimiento de recuperación: se usa tras detectar
// divergencia o tras la eliminación en cascada de movimientos.
func RebuildMaterial(companyID, materialID string, movements []*entity.StockMovement) (*entity.MaterialStockView, error) {
	view := &entity.MaterialStockView{CompanyID: companyID, MaterialID: materialID}
	for _, mov := range movements {
		if mov.MaterialID != materialID {
			continue
		}
		if err := mov.Validate(); err != nil {
			return nil, err
		}
		if err := applyToLots(view, mov); err != nil {
			return nil, err
		}
		view.UpdatedAt = mov.Date
	}
	sortLots(view.Lots)
	view.EarliestExpiration = earliestExpiration(view.Lots)
	return view, nil
}

// RebuildShelf reconstruye la vista de un estante reproduciendo los
// movimientos que lo tocan, en orden.
func RebuildShelf(companyID, shelfID string, movements []*entity.StockMovement) (*entity.ShelfContentsView, error) {
	view := &entity.ShelfContentsView{CompanyID: companyID, ShelfID: shelfID}
	for _, mov := range movements {
		if mov.ShelfID != shelfID {
			continue
		}
		if err := mov.Validate(); err != nil {
			return nil, err
		}
		if err := applyToContents(view, mov); err != nil {
			return nil, err
		}
		view.UpdatedAt = mov.Date
	}
	sortContents(view.Contents)
	return view, nil
}

// earliestExpiration devuelve el mínimo vencimiento entre lotes positivos,
// nil si ninguno tiene vencimiento.
func earliestExpiration(lots []entity.Lot) *time.Time {
	var min *time.Time
	for _, lot := range lots {
		if lot.Expiration == nil || !lot.Amount.GreaterThan(decimal.Zero) {
			continue
		}
		if min == nil || lot.Expiration.Before(*min) {
			t := *lot.Expiration
			min = &t
		}
	}
	return min
}

// sortLots ordena por vencimiento ascendente; los lotes sin vencimiento
// ("nunca vencen") van al final. Empate por estante para determinismo.
func sortLots(lots []entity.Lot) {
	sort.SliceStable(lots, func(i, j int) bool {
		a, b := lots[i].Expiration, lots[j].Expiration
		switch {
		case a == nil && b == nil:
			return lots[i].ShelfID < lots[j].ShelfID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return lots[i].ShelfID < lots[j].ShelfID
		default:
			return a.Before(*b)
		}
	})
}

func sortContents(contents []entity.Content) {
	sort.SliceStable(contents, func(i, j int) bool {
		a, b := contents[i].Expiration, contents[j].Expiration
		switch {
		case a == nil && b == nil:
			return contents[i].MaterialID < contents[j].MaterialID
		case a == nil:
			return false
		case b == nil:
			return true
		case a.Equal(*b):
			return contents[i].MaterialID < contents[j].MaterialID
		default:
			return a.Before(*b)
		}
	})
}

func sameExpiration(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
