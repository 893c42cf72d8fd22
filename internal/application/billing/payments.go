package billing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

// PaymentInput es la entrada para registrar un pago sobre un documento.
type PaymentInput struct {
	CompanyID  string
	DocumentID string
	Value      decimal.Decimal
	Type       string
	Reference  string
	Date       time.Time
}

// PaymentUseCase registra y anula pagos. Los pagos no tocan stock ni
// numeración; solo alteran el total pagado que calcula el motor de valuación.
type PaymentUseCase struct {
	docRepo repository.DocumentRepository
	payRepo repository.PaymentRepository
}

func NewPaymentUseCase(docRepo repository.DocumentRepository, payRepo repository.PaymentRepository) *PaymentUseCase {
	return &PaymentUseCase{docRepo: docRepo, payRepo: payRepo}
}

func (uc *PaymentUseCase) Register(in PaymentInput) (*entity.Payment, error) {
	doc, err := uc.docRepo.GetByID(in.CompanyID, in.DocumentID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, domain.ErrNotFound
	}

	p := &entity.Payment{
		ID:         uuid.New().String(),
		CompanyID:  in.CompanyID,
		DocumentID: in.DocumentID,
		Value:      in.Value,
		Type:       in.Type,
		Reference:  in.Reference,
		Date:       in.Date,
		CreatedAt:  time.Now(),
	}
	if p.Date.IsZero() {
		p.Date = time.Now()
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := uc.payRepo.Create(p); err != nil {
		return nil, fmt.Errorf("registrar pago: %w", err)
	}
	return p, nil
}

// Delete anula un pago (borrado lógico; el documento conserva su historial).
func (uc *PaymentUseCase) Delete(companyID, paymentID string) error {
	return uc.payRepo.MarkDeleted(companyID, paymentID)
}
