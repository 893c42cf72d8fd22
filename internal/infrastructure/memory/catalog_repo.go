package memory

import (
	"sort"

	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// --- Materiales ---

type materialRepo struct{ s *Store }

func (r *materialRepo) Create(m *entity.Material) error {
	k := key(m.CompanyID, m.ID)
	if _, ok := r.s.materials[k]; ok {
		return domain.ErrDuplicate
	}
	c := *m
	r.s.materials[k] = &c
	return nil
}

func (r *materialRepo) GetByID(companyID, id string) (*entity.Material, error) {
	m, ok := r.s.materials[key(companyID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *m
	return &c, nil
}

func (r *materialRepo) List(companyID string, limit, offset int) ([]*entity.Material, error) {
	var out []*entity.Material
	for _, m := range r.s.materials {
		if m.CompanyID != companyID {
			continue
		}
		c := *m
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return page(out, limit, offset), nil
}

type lockedMaterialRepo struct{ s *Store }

func (r *lockedMaterialRepo) Create(m *entity.Material) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&materialRepo{s: r.s}).Create(m)
}

func (r *lockedMaterialRepo) GetByID(companyID, id string) (*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&materialRepo{s: r.s}).GetByID(companyID, id)
}

func (r *lockedMaterialRepo) List(companyID string, limit, offset int) ([]*entity.Material, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&materialRepo{s: r.s}).List(companyID, limit, offset)
}

// --- Estantes ---

type shelfRepo struct{ s *Store }

func (r *shelfRepo) Create(sh *entity.Shelf) error {
	k := key(sh.CompanyID, sh.ID)
	if _, ok := r.s.shelves[k]; ok {
		return domain.ErrDuplicate
	}
	c := *sh
	r.s.shelves[k] = &c
	return nil
}

func (r *shelfRepo) GetByID(companyID, id string) (*entity.Shelf, error) {
	sh, ok := r.s.shelves[key(companyID, id)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *sh
	return &c, nil
}

func (r *shelfRepo) List(companyID string) ([]*entity.Shelf, error) {
	var out []*entity.Shelf
	for _, sh := range r.s.shelves {
		if sh.CompanyID != companyID {
			continue
		}
		c := *sh
		out = append(out, &c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type lockedShelfRepo struct{ s *Store }

func (r *lockedShelfRepo) Create(sh *entity.Shelf) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&shelfRepo{s: r.s}).Create(sh)
}

func (r *lockedShelfRepo) GetByID(companyID, id string) (*entity.Shelf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&shelfRepo{s: r.s}).GetByID(companyID, id)
}

func (r *lockedShelfRepo) List(companyID string) ([]*entity.Shelf, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&shelfRepo{s: r.s}).List(companyID)
}

// --- Usuarios ---

type userRepo struct{ s *Store }

func (r *userRepo) Create(u *entity.User) error {
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrDuplicate
	}
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return domain.ErrDuplicate
		}
	}
	c := *u
	r.s.users[u.ID] = &c
	return nil
}

func (r *userRepo) GetByID(id string) (*entity.User, error) {
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (r *userRepo) FindByEmail(email string) (*entity.User, error) {
	for _, u := range r.s.users {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	return nil, domain.ErrNotFound
}

type lockedUserRepo struct{ s *Store }

func (r *lockedUserRepo) Create(u *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).Create(u)
}

func (r *lockedUserRepo) GetByID(id string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).GetByID(id)
}

func (r *lockedUserRepo) FindByEmail(email string) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return (&userRepo{s: r.s}).FindByEmail(email)
}

// page aplica limit/offset al estilo SQL; limit <= 0 significa sin límite.
func page[T any](items []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
