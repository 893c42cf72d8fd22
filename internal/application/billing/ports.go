package billing

import (
	"context"

	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

// TxRunner ejecuta fn dentro de una transacción que abarca documentos, pagos
// y el ledger de stock; los repositorios que recibe fn quedan ligados a esa
// transacción.
type TxRunner interface {
	RunBilling(ctx context.Context, fn func(docRepo repository.DocumentRepository, payRepo repository.PaymentRepository, movRepo repository.StockMovementRepository, viewRepo repository.StockViewRepository) error) error
}
