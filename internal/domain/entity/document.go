package entity

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/tu-usuario/taller-erp/internal/domain"
)

// Tipos de documento.
const (
	DocumentTypeQuote      = "quote"       // oferta/presupuesto
	DocumentTypeSale       = "sale"        // venta
	DocumentTypeDispatch   = "dispatch"    // albarán/remisión
	DocumentTypeInvoice    = "invoice"     // factura
	DocumentTypeCreditNote = "credit_note" // nota de crédito
	DocumentTypeDebitNote  = "debit_note"  // nota de débito
	DocumentTypePurchase   = "purchase"    // compra (puede traer número externo)
)

// ValidDocumentType verifica el tipo contra la lista cerrada.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentTypeQuote, DocumentTypeSale, DocumentTypeDispatch,
		DocumentTypeInvoice, DocumentTypeCreditNote, DocumentTypeDebitNote,
		DocumentTypePurchase:
		return true
	}
	return false
}

// Document representa la cabecera de un documento comercial. El número tiene
// formato AAAA-NNNNNNN asignado por el secuenciador, salvo compras con número
// provisto por el proveedor.
type Document struct {
	ID          string
	CompanyID   string
	CustomerID  string
	CreatorID   string
	Type        string
	Number      string
	TaxIncluded bool   // los precios de las líneas ya contienen el impuesto
	Currency    string // código ISO 4217 (TRY, EUR, USD...)
	Date        time.Time
	IsDeleted   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// LineItem es una línea de detalle de un documento. La validación es en la
// construcción: el motor de valuación asume entrada ya validada.
type LineItem struct {
	ID               string
	DocumentID       string
	MaterialID       string
	Description      string
	Price            decimal.Decimal // >= 0
	Amount           decimal.Decimal // >= 1
	TaxRate          decimal.Decimal // porcentaje, >= 0
	ReductionPercent decimal.Decimal // porcentaje de descuento, default 0
	IsDeleted        bool
	CreatedAt        time.Time
}

// Validate rechaza líneas malformadas antes de que toquen motor o ledger.
func (li *LineItem) Validate() error {
	if li.MaterialID == "" {
		return domain.ErrInvalidInput
	}
	if li.Price.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if li.Amount.LessThan(decimal.NewFromInt(1)) {
		return domain.ErrInvalidInput
	}
	if li.TaxRate.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	return nil
}
