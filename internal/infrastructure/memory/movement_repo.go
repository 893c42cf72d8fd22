package memory

import (
	"sort"
	"time"

	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

type movementRepo struct{ s *Store }

func (r *movementRepo) Create(mov *entity.StockMovement) error {
	k := key(mov.CompanyID, mov.ID)
	if _, ok := r.s.movements[k]; ok {
		return domain.ErrDuplicate
	}
	c := *mov
	r.s.movements[k] = &c
	return nil
}

func (r *movementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	mov, ok := r.s.movements[key(companyID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *mov
	return &c, nil
}

func (r *movementRepo) ListByMaterial(companyID, materialID string) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool {
		return m.CompanyID == companyID && m.MaterialID == materialID
	}), nil
}

func (r *movementRepo) ListByShelf(companyID, shelfID string) ([]*entity.StockMovement, error) {
	return r.list(func(m *entity.StockMovement) bool {
		return m.CompanyID == companyID && m.ShelfID == shelfID
	}), nil
}

func (r *movementRepo) ListByPeriod(companyID string, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	out := r.list(func(m *entity.StockMovement) bool {
		return m.CompanyID == companyID && !m.Date.Before(from) && !m.Date.After(to)
	})
	return page(out, limit, offset), nil
}

func (r *movementRepo) DeleteByLineItem(companyID, lineItemID string) ([]*entity.StockMovement, error) {
	deleted := r.list(func(m *entity.StockMovement) bool {
		return m.CompanyID == companyID && m.LineItemID == lineItemID
	})
	for _, mov := range deleted {
		delete(r.s.movements, key(companyID, mov.ID))
	}
	return deleted, nil
}

// list filtra y devuelve clones en orden de replay: fecha ascendente, con el
// instante de inserción como desempate.
func (r *movementRepo) list(match func(*entity.StockMovement) bool) []*entity.StockMovement {
	var out []*entity.StockMovement
	for _, mov := range r.s.movements {
		if !match(mov) {
			continue
		}
		c := *mov
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

type lockedMovementRepo struct{ s *Store }

func (r *lockedMovementRepo) Create(mov *entity.StockMovement) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).Create(mov)
}

func (r *lockedMovementRepo) GetByID(companyID, id string) (*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).GetByID(companyID, id)
}

func (r *lockedMovementRepo) ListByMaterial(companyID, materialID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).ListByMaterial(companyID, materialID)
}

func (r *lockedMovementRepo) ListByShelf(companyID, shelfID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).ListByShelf(companyID, shelfID)
}

func (r *lockedMovementRepo) ListByPeriod(companyID string, from, to time.Time, limit, offset int) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).ListByPeriod(companyID, from, to, limit, offset)
}

func (r *lockedMovementRepo) DeleteByLineItem(companyID, lineItemID string) ([]*entity.StockMovement, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&movementRepo{s: r.s}).DeleteByLineItem(companyID, lineItemID)
}
