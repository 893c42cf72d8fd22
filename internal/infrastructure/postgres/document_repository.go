package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
)

var _ repository.DocumentRepository = (*DocumentRepo)(nil)

// DocumentRepo implementación de DocumentRepository sobre PostgreSQL (usable
// con pool o tx). El índice único (company_id, type, number) respalda al
// secuenciador: una inserción duplicada sale como ErrSequenceConflict.
type DocumentRepo struct {
	q Querier
}

// NewDocumentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewDocumentRepository(q Querier) *DocumentRepo {
	return &DocumentRepo{q: q}
}

const documentColumns = `id, company_id, customer_id, creator_id, type, number, tax_included, currency, date, is_deleted, created_at, updated_at`

// Create persiste la cabecera de un documento.
func (r *DocumentRepo) Create(doc *entity.Document) error {
	query := `
		INSERT INTO documents (` + documentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := r.q.Exec(context.Background(), query,
		doc.ID, doc.CompanyID, nullIfEmpty(doc.CustomerID), nullIfEmpty(doc.CreatorID), doc.Type, doc.Number,
		doc.TaxIncluded, doc.Currency, doc.Date, doc.IsDeleted, doc.CreatedAt, doc.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrSequenceConflict
		}
		return fmt.Errorf("create document: %w", err)
	}
	return nil
}

// GetByID obtiene un documento por ID.
func (r *DocumentRepo) GetByID(companyID, id string) (*entity.Document, error) {
	query := `SELECT ` + documentColumns + ` FROM documents WHERE company_id = $1 AND id = $2`
	doc, err := scanDocument(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get document: %w", err)
	}
	return doc, nil
}

// ListByTypeAndPeriod devuelve documentos vivos de un tipo y año.
func (r *DocumentRepo) ListByTypeAndPeriod(companyID, docType string, year int, limit, offset int) ([]*entity.Document, error) {
	if limit <= 0 {
		limit = 500
	}
	query := `
		SELECT ` + documentColumns + ` FROM documents
		WHERE company_id = $1 AND type = $2 AND is_deleted = FALSE
		  AND date_part('year', date) = $3
		ORDER BY date, number
		LIMIT $4 OFFSET $5`
	rows, err := r.q.Query(context.Background(), query, companyID, docType, year, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var out []*entity.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// LastNumber devuelve el número secuencial más alto del (tipo, año). Los
// números con otro formato (compras externas) quedan fuera por el patrón.
func (r *DocumentRepo) LastNumber(companyID, docType string, year int) (string, error) {
	query := `
		SELECT COALESCE(MAX(number), '')
		FROM documents
		WHERE company_id = $1 AND type = $2
		  AND number ~ '^[0-9]{4}-[0-9]{7}$'
		  AND substring(number from 1 for 4) = $3`
	var last string
	err := r.q.QueryRow(context.Background(), query, companyID, docType, fmt.Sprintf("%04d", year)).Scan(&last)
	if err != nil {
		return "", fmt.Errorf("last number: %w", err)
	}
	return last, nil
}

// MarkDeleted marca la cabecera como borrada (borrado lógico).
func (r *DocumentRepo) MarkDeleted(companyID, id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE documents SET is_deleted = TRUE, updated_at = now() WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return fmt.Errorf("mark document deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

const lineItemColumns = `id, document_id, material_id, description, price, amount, tax_rate, reduction_percent, is_deleted, created_at`

// CreateLineItem persiste una línea de documento.
func (r *DocumentRepo) CreateLineItem(li *entity.LineItem) error {
	query := `
		INSERT INTO line_items (` + lineItemColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		li.ID, li.DocumentID, li.MaterialID, li.Description, li.Price, li.Amount,
		li.TaxRate, li.ReductionPercent, li.IsDeleted, li.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create line item: %w", err)
	}
	return nil
}

const lineItemColumnsPrefixed = `li.id, li.document_id, li.material_id, li.description, li.price, li.amount, li.tax_rate, li.reduction_percent, li.is_deleted, li.created_at`

// ListLineItems devuelve las líneas del documento (incluidas las borradas;
// el llamador filtra).
func (r *DocumentRepo) ListLineItems(companyID, documentID string) ([]*entity.LineItem, error) {
	query := `
		SELECT ` + lineItemColumnsPrefixed + `
		FROM line_items li
		JOIN documents d ON d.id = li.document_id
		WHERE d.company_id = $1 AND li.document_id = $2
		ORDER BY li.created_at, li.id`
	rows, err := r.q.Query(context.Background(), query, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("list line items: %w", err)
	}
	defer rows.Close()

	var out []*entity.LineItem
	for rows.Next() {
		li, err := scanLineItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line item: %w", err)
		}
		out = append(out, li)
	}
	return out, rows.Err()
}

// GetLineItem obtiene una línea verificando que pertenezca a la empresa.
func (r *DocumentRepo) GetLineItem(companyID, id string) (*entity.LineItem, error) {
	query := `
		SELECT ` + lineItemColumnsPrefixed + `
		FROM line_items li
		JOIN documents d ON d.id = li.document_id
		WHERE d.company_id = $1 AND li.id = $2`
	li, err := scanLineItem(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get line item: %w", err)
	}
	return li, nil
}

// DeleteLineItem marca la línea como borrada (borrado lógico).
func (r *DocumentRepo) DeleteLineItem(companyID, id string) error {
	tag, err := r.q.Exec(context.Background(), `
		UPDATE line_items SET is_deleted = TRUE
		WHERE id = $1 AND document_id IN (SELECT id FROM documents WHERE company_id = $2)`,
		id, companyID)
	if err != nil {
		return fmt.Errorf("delete line item: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanDocument(row pgx.Row) (*entity.Document, error) {
	var doc entity.Document
	var customerID, creatorID *string
	err := row.Scan(
		&doc.ID, &doc.CompanyID, &customerID, &creatorID, &doc.Type, &doc.Number,
		&doc.TaxIncluded, &doc.Currency, &doc.Date, &doc.IsDeleted, &doc.CreatedAt, &doc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	doc.CustomerID = deref(customerID)
	doc.CreatorID = deref(creatorID)
	return &doc, nil
}

func scanLineItem(row pgx.Row) (*entity.LineItem, error) {
	var li entity.LineItem
	err := row.Scan(
		&li.ID, &li.DocumentID, &li.MaterialID, &li.Description, &li.Price, &li.Amount,
		&li.TaxRate, &li.ReductionPercent, &li.IsDeleted, &li.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &li, nil
}

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

func (r *PaymentRepo) Create(p *entity.Payment) error {
	query := `
		INSERT INTO payments (id, company_id, document_id, value, type, reference, verified, is_deleted, date, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(context.Background(), query,
		p.ID, p.CompanyID, p.DocumentID, p.Value, p.Type, p.Reference, p.Verified, p.IsDeleted, p.Date, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("create payment: %w", err)
	}
	return nil
}

func (r *PaymentRepo) ListByDocument(companyID, documentID string) ([]*entity.Payment, error) {
	query := `
		SELECT id, company_id, document_id, value, type, reference, verified, is_deleted, date, created_at
		FROM payments
		WHERE company_id = $1 AND document_id = $2
		ORDER BY date, id`
	rows, err := r.q.Query(context.Background(), query, companyID, documentID)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()

	var out []*entity.Payment
	for rows.Next() {
		var p entity.Payment
		if err := rows.Scan(&p.ID, &p.CompanyID, &p.DocumentID, &p.Value, &p.Type, &p.Reference, &p.Verified, &p.IsDeleted, &p.Date, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

func (r *PaymentRepo) MarkDeleted(companyID, id string) error {
	tag, err := r.q.Exec(context.Background(),
		`UPDATE payments SET is_deleted = TRUE WHERE company_id = $1 AND id = $2`,
		companyID, id)
	if err != nil {
		return fmt.Errorf("mark payment deleted: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
