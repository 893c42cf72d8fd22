package billing

import (
	"context"
	"fmt"
	"sort"

	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/ledger"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
)

// DeleteDocumentUseCase borra documentos y líneas en cascada: borrado lógico
// de cabecera y líneas, borrado físico de los movimientos originados, y
// reconstrucción por replay de cada vista afectada. Es el único caso en que
// el log de movimientos pierde entradas.
type DeleteDocumentUseCase struct {
	tx      TxRunner
	docRepo repository.DocumentRepository
	movRepo repository.StockMovementRepository
	locks   *keylock.KeyLock
}

func NewDeleteDocumentUseCase(tx TxRunner, docRepo repository.DocumentRepository, movRepo repository.StockMovementRepository, locks *keylock.KeyLock) *DeleteDocumentUseCase {
	return &DeleteDocumentUseCase{tx: tx, docRepo: docRepo, movRepo: movRepo, locks: locks}
}

// Delete borra el documento completo con todas sus líneas.
func (uc *DeleteDocumentUseCase) Delete(ctx context.Context, companyID, documentID string) error {
	doc, err := uc.docRepo.GetByID(companyID, documentID)
	if err != nil {
		return err
	}
	if doc.IsDeleted {
		return domain.ErrNotFound
	}
	lines, err := uc.docRepo.ListLineItems(companyID, documentID)
	if err != nil {
		return err
	}
	var targets []*entity.LineItem
	for _, li := range lines {
		if !li.IsDeleted {
			targets = append(targets, li)
		}
	}
	return uc.deleteLines(ctx, companyID, documentID, targets, true)
}

// DeleteLine borra una sola línea del documento; la cabecera sigue viva.
func (uc *DeleteDocumentUseCase) DeleteLine(ctx context.Context, companyID, lineItemID string) error {
	li, err := uc.docRepo.GetLineItem(companyID, lineItemID)
	if err != nil {
		return err
	}
	if li.IsDeleted {
		return domain.ErrNotFound
	}
	return uc.deleteLines(ctx, companyID, li.DocumentID, []*entity.LineItem{li}, false)
}

func (uc *DeleteDocumentUseCase) deleteLines(ctx context.Context, companyID, documentID string, lines []*entity.LineItem, dropHeader bool) error {
	materialIDs := materialsOf(lines)

	// Materiales primero; con esos locks tomados el conjunto de estantes
	// tocados por sus movimientos ya no puede cambiar.
	matKeys := make([]string, 0, len(materialIDs))
	for _, id := range materialIDs {
		matKeys = append(matKeys, "material:"+id)
	}
	releaseMats, err := uc.locks.AcquireMany(ctx, matKeys...)
	if err != nil {
		return err
	}
	defer releaseMats()

	shelfIDs, err := uc.shelvesOf(companyID, materialIDs, lines)
	if err != nil {
		return err
	}
	shelfKeys := make([]string, 0, len(shelfIDs))
	for _, id := range shelfIDs {
		shelfKeys = append(shelfKeys, "shelf:"+id)
	}
	releaseShelves, err := uc.locks.AcquireMany(ctx, shelfKeys...)
	if err != nil {
		return err
	}
	defer releaseShelves()

	return uc.tx.RunBilling(ctx, func(docRepo repository.DocumentRepository, _ repository.PaymentRepository, movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error {
		for _, li := range lines {
			if err := docRepo.DeleteLineItem(companyID, li.ID); err != nil {
				return fmt.Errorf("borrar línea %s: %w", li.ID, err)
			}
			if _, err := movRepo.DeleteByLineItem(companyID, li.ID); err != nil {
				return fmt.Errorf("borrar movimientos de línea %s: %w", li.ID, err)
			}
		}
		if dropHeader {
			if err := docRepo.MarkDeleted(companyID, documentID); err != nil {
				return err
			}
		}

		// Replay con el log ya podado: la vista reconstruida reemplaza a la
		// guardada.
		for _, materialID := range materialIDs {
			movements, err := movRepo.ListByMaterial(companyID, materialID)
			if err != nil {
				return err
			}
			view, err := ledger.RebuildMaterial(companyID, materialID, movements)
			if err != nil {
				return err
			}
			if err := viewRepo.SaveViews(view, nil); err != nil {
				return err
			}
		}
		for _, shelfID := range shelfIDs {
			movements, err := movRepo.ListByShelf(companyID, shelfID)
			if err != nil {
				return err
			}
			view, err := ledger.RebuildShelf(companyID, shelfID, movements)
			if err != nil {
				return err
			}
			if err := viewRepo.SaveViews(nil, view); err != nil {
				return err
			}
		}
		return nil
	})
}

// shelvesOf recolecta los estantes tocados por los movimientos de las líneas
// a borrar, ya con los locks de material en mano.
func (uc *DeleteDocumentUseCase) shelvesOf(companyID string, materialIDs []string, lines []*entity.LineItem) ([]string, error) {
	lineSet := make(map[string]struct{}, len(lines))
	for _, li := range lines {
		lineSet[li.ID] = struct{}{}
	}
	seen := make(map[string]struct{})
	var ids []string
	for _, materialID := range materialIDs {
		movements, err := uc.movRepo.ListByMaterial(companyID, materialID)
		if err != nil {
			return nil, err
		}
		for _, mov := range movements {
			if _, ok := lineSet[mov.LineItemID]; !ok || mov.ShelfID == "" {
				continue
			}
			if _, dup := seen[mov.ShelfID]; dup {
				continue
			}
			seen[mov.ShelfID] = struct{}{}
			ids = append(ids, mov.ShelfID)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func materialsOf(lines []*entity.LineItem) []string {
	seen := make(map[string]struct{})
	var ids []string
	for _, li := range lines {
		if _, ok := seen[li.MaterialID]; ok {
			continue
		}
		seen[li.MaterialID] = struct{}{}
		ids = append(ids, li.MaterialID)
	}
	sort.Strings(ids)
	return ids
}
