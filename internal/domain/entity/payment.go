package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
)

// Tipos de pago.
const (
	PaymentTypeCash           = "cash"
	PaymentTypeCreditCard     = "credit_card"
	PaymentTypeTransfer       = "transfer"
	PaymentTypeCheque         = "cheque"
	PaymentTypePromissoryNote = "promissory_note"
	PaymentTypeDebitCard      = "debit_card"
	PaymentTypeCredit         = "credit"
)

// Payment representa un pago asociado a un documento.
type Payment struct {
	ID         string
	CompanyID  string
	DocumentID string
	Value      decimal.Decimal // >= 0
	Type       string
	Reference  string
	Verified   bool
	IsDeleted  bool
	Date       time.Time
	CreatedAt  time.Time
}

// Validate rechaza pagos malformados.
func (p *Payment) Validate() error {
	if p.DocumentID == "" || p.CompanyID == "" {
		return domain.ErrInvalidInput
	}
	if p.Value.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	switch p.Type {
	case PaymentTypeCash, PaymentTypeCreditCard, PaymentTypeTransfer,
		PaymentTypeCheque, PaymentTypePromissoryNote, PaymentTypeDebitCard,
		PaymentTypeCredit:
		return nil
	}
	return domain.ErrInvalidInput
}

// IsOut indica si el pago sale de caja según el tipo de documento: solo las
// notas de crédito devuelven dinero al cliente.
func (p *Payment) IsOut(documentType string) bool {
	return documentType == DocumentTypeCreditNote
}
