package inventory

import (
	"context"

	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción; los repositorios que recibe
// fn quedan ligados a esa transacción. Si fn devuelve error se hace rollback.
type TxRunner interface {
	Run(ctx context.Context, fn func(movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error) error
}
