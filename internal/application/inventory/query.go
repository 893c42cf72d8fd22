package inventory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/ledger"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

// StockQueryUseCase es la fachada de lectura sobre las vistas materializadas.
// Nunca escribe; las respuestas salen directo de las vistas.
type StockQueryUseCase struct {
	viewRepo repository.StockViewRepository
	movRepo  repository.StockMovementRepository
}

func NewStockQueryUseCase(viewRepo repository.StockViewRepository, movRepo repository.StockMovementRepository) *StockQueryUseCase {
	return &StockQueryUseCase{viewRepo: viewRepo, movRepo: movRepo}
}

// CurrentStock devuelve el stock total de un material (suma de sus lotes).
func (uc *StockQueryUseCase) CurrentStock(companyID, materialID string) (decimal.Decimal, error) {
	view, err := uc.viewRepo.GetMaterialView(companyID, materialID)
	if err != nil {
		return decimal.Zero, err
	}
	return view.CurrentStock(), nil
}

// LotsFor devuelve los lotes vivos de un material, ordenados por vencimiento.
func (uc *StockQueryUseCase) LotsFor(companyID, materialID string) ([]entity.Lot, error) {
	view, err := uc.viewRepo.GetMaterialView(companyID, materialID)
	if err != nil {
		return nil, err
	}
	return view.Lots, nil
}

// ContentsFor devuelve el contenido vivo de un estante.
func (uc *StockQueryUseCase) ContentsFor(companyID, shelfID string) ([]entity.Content, error) {
	view, err := uc.viewRepo.GetShelfView(companyID, shelfID)
	if err != nil {
		return nil, err
	}
	return view.Contents, nil
}

// EarliestExpiration devuelve el vencimiento más próximo entre los lotes del
// material, o nil si ningún lote vence.
func (uc *StockQueryUseCase) EarliestExpiration(companyID, materialID string) (*time.Time, error) {
	view, err := uc.viewRepo.GetMaterialView(companyID, materialID)
	if err != nil {
		return nil, err
	}
	return view.EarliestExpiration, nil
}

// MovementsByPeriod lista el log de movimientos de un período.
func (uc *StockQueryUseCase) MovementsByPeriod(companyID string, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	return uc.movRepo.ListByPeriod(companyID, from, to, limit, offset)
}

// RebuildViewsUseCase reconstruye vistas por replay del log. Es la vía de
// recuperación cuando una vista se sospecha corrupta; el resultado siempre
// prevalece sobre la vista guardada.
type RebuildViewsUseCase struct {
	tx      TxRunner
	movRepo repository.StockMovementRepository
	locks   *keylock.KeyLock
}

func NewRebuildViewsUseCase(tx TxRunner, movRepo repository.StockMovementRepository, locks *keylock.KeyLock) *RebuildViewsUseCase {
	return &RebuildViewsUseCase{tx: tx, movRepo: movRepo, locks: locks}
}

// RebuildMaterial reconstruye la vista de un material y la de cada estante
// que sus movimientos tocan, todo dentro de una transacción. Los locks se
// adquieren antes de abrir la transacción; con el lock de material tomado el
// conjunto de estantes tocados no puede crecer.
func (uc *RebuildViewsUseCase) RebuildMaterial(ctx context.Context, companyID, materialID string) (*entity.MaterialStockView, error) {
	releaseMat, err := uc.locks.Acquire(ctx, "material:"+materialID)
	if err != nil {
		return nil, err
	}
	defer releaseMat()

	movements, err := uc.movRepo.ListByMaterial(companyID, materialID)
	if err != nil {
		return nil, err
	}
	shelfIDs := shelvesTouched(movements)

	shelfKeys := make([]string, 0, len(shelfIDs))
	for _, id := range shelfIDs {
		shelfKeys = append(shelfKeys, "shelf:"+id)
	}
	releaseShelves, err := uc.locks.AcquireMany(ctx, shelfKeys...)
	if err != nil {
		return nil, err
	}
	defer releaseShelves()

	var rebuilt *entity.MaterialStockView
	err = uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		movements, err := movRepo.ListByMaterial(companyID, materialID)
		if err != nil {
			return err
		}
		rebuilt, err = ledger.RebuildMaterial(companyID, materialID, movements)
		if err != nil {
			return err
		}
		if err := viewRepo.SaveViews(rebuilt, nil); err != nil {
			return fmt.Errorf("guardar vista de material: %w", err)
		}
		for _, shelfID := range shelfIDs {
			if err := uc.rebuildShelfInTx(movRepo, viewRepo, companyID, shelfID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rebuilt, nil
}

// RebuildShelf reconstruye la vista de un solo estante.
func (uc *RebuildViewsUseCase) RebuildShelf(ctx context.Context, companyID, shelfID string) (*entity.ShelfContentsView, error) {
	release, err := uc.locks.Acquire(ctx, "shelf:"+shelfID)
	if err != nil {
		return nil, err
	}
	defer release()

	var rebuilt *entity.ShelfContentsView
	err = uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		if err := uc.rebuildShelfInTx(movRepo, viewRepo, companyID, shelfID); err != nil {
			return err
		}
		movements, err := movRepo.ListByShelf(companyID, shelfID)
		if err != nil {
			return err
		}
		rebuilt, err = ledger.RebuildShelf(companyID, shelfID, movements)
		return err
	})
	if err != nil {
		return nil, err
	}
	return rebuilt, nil
}

func (uc *RebuildViewsUseCase) rebuildShelfInTx(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository, companyID, shelfID string) error {
	movements, err := movRepo.ListByShelf(companyID, shelfID)
	if err != nil {
		return err
	}
	view, err := ledger.RebuildShelf(companyID, shelfID, movements)
	if err != nil {
		return err
	}
	if err := viewRepo.SaveViews(nil, view); err != nil {
		return fmt.Errorf("guardar vista de estante %s: %w", shelfID, err)
	}
	return nil
}

// shelvesTouched devuelve los estantes distintos que aparecen en los
// movimientos, ordenados (orden estable de adquisición de locks).
func shelvesTouched(movements []*entity.StockMovement) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, mov := range movements {
		if mov.ShelfID == "" {
			continue
		}
		if _, ok := seen[mov.ShelfID]; ok {
			continue
		}
		seen[mov.ShelfID] = struct{}{}
		ids = append(ids, mov.ShelfID)
	}
	sort.Strings(ids)
	return ids
}
