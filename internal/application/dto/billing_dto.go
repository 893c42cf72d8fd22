package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// DocumentItemRequest línea de un documento nuevo. En salidas sin expiration
// el retiro se reparte primero-en-vencer entre los lotes del estante.
type DocumentItemRequest struct {
	MaterialID       string          `json:"material_id"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Amount           decimal.Decimal `json:"amount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	ReductionPercent decimal.Decimal `json:"reduction_percent"`
	ShelfID          string          `json:"shelf_id,omitempty"`
	Expiration       *time.Time      `json:"expiration,omitempty"`
}

// CreateDocumentRequest body para POST /api/documents.
type CreateDocumentRequest struct {
	CustomerID     string                `json:"customer_id,omitempty"`
	Type           string                `json:"type"`
	ExternalNumber string                `json:"external_number,omitempty"` // solo compras
	TaxIncluded    bool                  `json:"tax_included"`
	Currency       string                `json:"currency"`
	Date           *time.Time            `json:"date,omitempty"`
	Items          []DocumentItemRequest `json:"items"`
}

// LineItemResponse línea en respuestas.
type LineItemResponse struct {
	ID               string          `json:"id"`
	MaterialID       string          `json:"material_id"`
	Description      string          `json:"description,omitempty"`
	Price            decimal.Decimal `json:"price"`
	Amount           decimal.Decimal `json:"amount"`
	TaxRate          decimal.Decimal `json:"tax_rate"`
	ReductionPercent decimal.Decimal `json:"reduction_percent"`
}

// TotalsResponse totales calculados al vuelo por el motor de valuación.
type TotalsResponse struct {
	Total          decimal.Decimal `json:"total"`
	TotalTax       decimal.Decimal `json:"total_tax"`
	TotalReduction decimal.Decimal `json:"total_reduction"`
	TotalPaid      decimal.Decimal `json:"total_paid"`
	TotalToPay     decimal.Decimal `json:"total_to_pay"`
	TotalText      string          `json:"total_text,omitempty"` // total formateado en la moneda del documento
}

// DocumentResponse documento con detalle para GET /api/documents/:id.
type DocumentResponse struct {
	ID          string             `json:"id"`
	CompanyID   string             `json:"company_id"`
	CustomerID  string             `json:"customer_id,omitempty"`
	Type        string             `json:"type"`
	Number      string             `json:"number"`
	TaxIncluded bool               `json:"tax_included"`
	Currency    string             `json:"currency"`
	Date        time.Time          `json:"date"`
	Items       []LineItemResponse `json:"items"`
	Payments    []PaymentResponse  `json:"payments"`
	Totals      TotalsResponse     `json:"totals"`
}

// DocumentSummaryResponse documento en listados (sin detalle).
type DocumentSummaryResponse struct {
	ID       string    `json:"id"`
	Type     string    `json:"type"`
	Number   string    `json:"number"`
	Currency string    `json:"currency"`
	Date     time.Time `json:"date"`
}

// PaymentRequest body para POST /api/documents/:id/payments.
type PaymentRequest struct {
	Value     decimal.Decimal `json:"value"`
	Type      string          `json:"type"` // cash, credit_card, transfer...
	Reference string          `json:"reference,omitempty"`
	Date      *time.Time      `json:"date,omitempty"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	Value     decimal.Decimal `json:"value"`
	Type      string          `json:"type"`
	Reference string          `json:"reference,omitempty"`
	Verified  bool            `json:"verified"`
	Date      time.Time       `json:"date"`
}
