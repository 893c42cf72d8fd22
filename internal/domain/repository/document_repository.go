package repository

import "github.com/tu-usuario/taller-erp/internal/domain/entity"

// DocumentRepository define el puerto de persistencia de documentos y líneas.
// La persistencia garantiza unicidad de (company_id, document_type, number);
// una violación se reporta como domain.ErrSequenceConflict.
type DocumentRepository interface {
	Create(doc *entity.Document) error
	GetByID(companyID, id string) (*entity.Document, error)
	ListByTypeAndPeriod(companyID, docType string, year int, limit, offset int) ([]*entity.Document, error)
	// LastNumber devuelve el número más alto existente para (tipo, año), o
	// cadena vacía si no hay documentos. Solo considera números con formato
	// de secuencia (las compras con número externo no participan).
	LastNumber(companyID, docType string, year int) (string, error)
	MarkDeleted(companyID, id string) error

	CreateLineItem(li *entity.LineItem) error
	ListLineItems(companyID, documentID string) ([]*entity.LineItem, error)
	GetLineItem(companyID, id string) (*entity.LineItem, error)
	DeleteLineItem(companyID, id string) error
}

// PaymentRepository define el puerto de persistencia de pagos.
type PaymentRepository interface {
	Create(p *entity.Payment) error
	ListByDocument(companyID, documentID string) ([]*entity.Payment, error)
	MarkDeleted(companyID, id string) error
}
