package memory

import (
	"time"

	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

type viewRepo struct{ s *Store }

func (r *viewRepo) GetMaterialView(companyID, materialID string) (*entity.MaterialStockView, error) {
	view, ok := r.s.matViews[key(companyID, materialID)]
	if !ok {
		return &entity.MaterialStockView{CompanyID: companyID, MaterialID: materialID}, nil
	}
	return view.Clone(), nil
}

func (r *viewRepo) GetShelfView(companyID, shelfID string) (*entity.ShelfContentsView, error) {
	view, ok := r.s.shelfViews[key(companyID, shelfID)]
	if !ok {
		return &entity.ShelfContentsView{CompanyID: companyID, ShelfID: shelfID}, nil
	}
	return view.Clone(), nil
}

func (r *viewRepo) SaveViews(mat *entity.MaterialStockView, shelf *entity.ShelfContentsView) error {
	now := time.Now()
	if mat != nil {
		c := mat.Clone()
		c.UpdatedAt = now
		r.s.matViews[key(mat.CompanyID, mat.MaterialID)] = c
	}
	if shelf != nil {
		c := shelf.Clone()
		c.UpdatedAt = now
		r.s.shelfViews[key(shelf.CompanyID, shelf.ShelfID)] = c
	}
	return nil
}

type lockedViewRepo struct{ s *Store }

func (r *lockedViewRepo) GetMaterialView(companyID, materialID string) (*entity.MaterialStockView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&viewRepo{s: r.s}).GetMaterialView(companyID, materialID)
}

func (r *lockedViewRepo) GetShelfView(companyID, shelfID string) (*entity.ShelfContentsView, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&viewRepo{s: r.s}).GetShelfView(companyID, shelfID)
}

func (r *lockedViewRepo) SaveViews(mat *entity.MaterialStockView, shelf *entity.ShelfContentsView) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&viewRepo{s: r.s}).SaveViews(mat, shelf)
}
