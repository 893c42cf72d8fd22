package repository

import "github.com/tu-usuario/taller-erp/internal/domain/entity"

// StockViewRepository define el puerto de las dos vistas materializadas.
// Propiedad exclusiva del Stock Ledger: nadie más las escribe.
type StockViewRepository interface {
	// GetMaterialView devuelve la vista del material, o una vista vacía si el
	// material aún no tiene movimientos (creación perezosa).
	GetMaterialView(companyID, materialID string) (*entity.MaterialStockView, error)
	GetShelfView(companyID, shelfID string) (*entity.ShelfContentsView, error)
	// SaveViews persiste el par material+estante de una sola vez (shelfView
	// puede ser nil para movimientos sin estante). Dentro de una transacción
	// el par es todo-o-nada.
	SaveViews(mat *entity.MaterialStockView, shelf *entity.ShelfContentsView) error
}
