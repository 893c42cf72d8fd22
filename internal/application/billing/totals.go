package billing

import (
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/internal/domain/valuation"
)

// DocumentView es un documento armado para lectura: cabecera, líneas y pagos
// vivos, y los totales calculados al vuelo. Los totales nunca se persisten.
type DocumentView struct {
	Document *entity.Document
	Lines    []*entity.LineItem
	Payments []*entity.Payment
	Totals   valuation.DocumentTotals
}

// DocumentQueryUseCase es la fachada de lectura de documentos.
type DocumentQueryUseCase struct {
	docRepo repository.DocumentRepository
	payRepo repository.PaymentRepository
}

func NewDocumentQueryUseCase(docRepo repository.DocumentRepository, payRepo repository.PaymentRepository) *DocumentQueryUseCase {
	return &DocumentQueryUseCase{docRepo: docRepo, payRepo: payRepo}
}

// Get devuelve el documento con totales frescos. Documentos borrados se
// reportan como no encontrados.
func (uc *DocumentQueryUseCase) Get(companyID, documentID string) (*DocumentView, error) {
	doc, err := uc.docRepo.GetByID(companyID, documentID)
	if err != nil {
		return nil, err
	}
	if doc.IsDeleted {
		return nil, domain.ErrNotFound
	}

	lines, err := uc.docRepo.ListLineItems(companyID, documentID)
	if err != nil {
		return nil, err
	}
	payments, err := uc.payRepo.ListByDocument(companyID, documentID)
	if err != nil {
		return nil, err
	}

	return &DocumentView{
		Document: doc,
		Lines:    alive(lines, func(li *entity.LineItem) bool { return !li.IsDeleted }),
		Payments: alive(payments, func(p *entity.Payment) bool { return !p.IsDeleted }),
		Totals:   valuation.ComputeDocument(doc, lines, payments),
	}, nil
}

// List devuelve documentos de un tipo y año, paginados.
func (uc *DocumentQueryUseCase) List(companyID, docType string, year int, limit, offset int) ([]*entity.Document, error) {
	if !entity.ValidDocumentType(docType) {
		return nil, domain.ErrInvalidInput
	}
	return uc.docRepo.ListByTypeAndPeriod(companyID, docType, year, limit, offset)
}

func alive[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}
