package memory

import (
	"sort"

	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/numbering"
)

type documentRepo struct{ s *Store }

func (r *documentRepo) Create(doc *entity.Document) error {
	k := key(doc.CompanyID, doc.ID)
	if _, ok := r.s.documents[k]; ok {
		return domain.ErrDuplicate
	}
	// Respaldo del índice único (company_id, document_type, number).
	for _, existing := range r.s.documents {
		if existing.CompanyID == doc.CompanyID && existing.Type == doc.Type && existing.Number == doc.Number {
			return domain.ErrSequenceConflict
		}
	}
	c := *doc
	r.s.documents[k] = &c
	return nil
}

func (r *documentRepo) GetByID(companyID, id string) (*entity.Document, error) {
	doc, ok := r.s.documents[key(companyID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *doc
	return &c, nil
}

func (r *documentRepo) ListByTypeAndPeriod(companyID, docType string, year int, limit, offset int) ([]*entity.Document, error) {
	var out []*entity.Document
	for _, doc := range r.s.documents {
		if doc.CompanyID != companyID || doc.Type != docType || doc.IsDeleted {
			continue
		}
		if doc.Date.Year() != year {
			continue
		}
		c := *doc
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].Number < out[j].Number
	})
	return page(out, limit, offset), nil
}

func (r *documentRepo) LastNumber(companyID, docType string, year int) (string, error) {
	var best string
	var bestSeq int64
	for _, doc := range r.s.documents {
		if doc.CompanyID != companyID || doc.Type != docType {
			continue
		}
		docYear, seq, err := numbering.Parse(doc.Number)
		if err != nil || docYear != year {
			continue
		}
		if seq > bestSeq {
			bestSeq = seq
			best = doc.Number
		}
	}
	return best, nil
}

func (r *documentRepo) MarkDeleted(companyID, id string) error {
	k := key(companyID, id)
	doc, ok := r.s.documents[k]
	if !ok {
		return domain.ErrNotFound
	}
	c := *doc
	c.IsDeleted = true
	r.s.documents[k] = &c
	return nil
}

func (r *documentRepo) CreateLineItem(li *entity.LineItem) error {
	if _, ok := r.s.lineItems[li.ID]; ok {
		return domain.ErrDuplicate
	}
	c := *li
	r.s.lineItems[li.ID] = &c
	return nil
}

func (r *documentRepo) ListLineItems(companyID, documentID string) ([]*entity.LineItem, error) {
	if _, err := r.GetByID(companyID, documentID); err != nil {
		return nil, err
	}
	var out []*entity.LineItem
	for _, li := range r.s.lineItems {
		if li.DocumentID != documentID {
			continue
		}
		c := *li
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *documentRepo) GetLineItem(companyID, id string) (*entity.LineItem, error) {
	li, ok := r.s.lineItems[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if _, err := r.GetByID(companyID, li.DocumentID); err != nil {
		return nil, domain.ErrNotFound
	}
	c := *li
	return &c, nil
}

func (r *documentRepo) DeleteLineItem(companyID, id string) error {
	li, err := r.GetLineItem(companyID, id)
	if err != nil {
		return err
	}
	c := *li
	c.IsDeleted = true
	r.s.lineItems[id] = &c
	return nil
}

type lockedDocumentRepo struct{ s *Store }

func (r *lockedDocumentRepo) Create(doc *entity.Document) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).Create(doc)
}

func (r *lockedDocumentRepo) GetByID(companyID, id string) (*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).GetByID(companyID, id)
}

func (r *lockedDocumentRepo) ListByTypeAndPeriod(companyID, docType string, year int, limit, offset int) ([]*entity.Document, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).ListByTypeAndPeriod(companyID, docType, year, limit, offset)
}

func (r *lockedDocumentRepo) LastNumber(companyID, docType string, year int) (string, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).LastNumber(companyID, docType, year)
}

func (r *lockedDocumentRepo) MarkDeleted(companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).MarkDeleted(companyID, id)
}

func (r *lockedDocumentRepo) CreateLineItem(li *entity.LineItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).CreateLineItem(li)
}

func (r *lockedDocumentRepo) ListLineItems(companyID, documentID string) ([]*entity.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).ListLineItems(companyID, documentID)
}

func (r *lockedDocumentRepo) GetLineItem(companyID, id string) (*entity.LineItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).GetLineItem(companyID, id)
}

func (r *lockedDocumentRepo) DeleteLineItem(companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&documentRepo{s: r.s}).DeleteLineItem(companyID, id)
}

// --- Pagos ---

type paymentRepo struct{ s *Store }

func (r *paymentRepo) Create(p *entity.Payment) error {
	k := key(p.CompanyID, p.ID)
	if _, ok := r.s.payments[k]; ok {
		return domain.ErrDuplicate
	}
	c := *p
	r.s.payments[k] = &c
	return nil
}

func (r *paymentRepo) ListByDocument(companyID, documentID string) ([]*entity.Payment, error) {
	var out []*entity.Payment
	for _, p := range r.s.payments {
		if p.CompanyID != companyID || p.DocumentID != documentID {
			continue
		}
		c := *p
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *paymentRepo) MarkDeleted(companyID, id string) error {
	k := key(companyID, id)
	p, ok := r.s.payments[k]
	if !ok {
		return domain.ErrNotFound
	}
	c := *p
	c.IsDeleted = true
	r.s.payments[k] = &c
	return nil
}

type lockedPaymentRepo struct{ s *Store }

func (r *lockedPaymentRepo) Create(p *entity.Payment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&paymentRepo{s: r.s}).Create(p)
}

func (r *lockedPaymentRepo) ListByDocument(companyID, documentID string) ([]*entity.Payment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&paymentRepo{s: r.s}).ListByDocument(companyID, documentID)
}

func (r *lockedPaymentRepo) MarkDeleted(companyID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&paymentRepo{s: r.s}).MarkDeleted(companyID, id)
}
