package repository

import (
	"time"

	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// StockMovementRepository define el puerto de persistencia del log de
// movimientos (append-only; el borrado existe solo como cascada de la línea
// de documento originaria).
type StockMovementRepository interface {
	Create(mov *entity.StockMovement) error
	GetByID(companyID, id string) (*entity.StockMovement, error)
	// ListByMaterial devuelve los movimientos de un material en orden de fecha
	// ascendente (orden de replay).
	ListByMaterial(companyID, materialID string) ([]*entity.StockMovement, error)
	ListByShelf(companyID, shelfID string) ([]*entity.StockMovement, error)
	ListByPeriod(companyID string, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error)
	// DeleteByLineItem elimina los movimientos originados por una línea y
	// devuelve los eliminados (para reconstruir las vistas afectadas).
	DeleteByLineItem(companyID, lineItemID string) ([]*entity.StockMovement, error)
}
