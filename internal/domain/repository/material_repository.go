package repository

import "github.com/tu-usuario/taller-erp/internal/domain/entity"

// MaterialRepository define el puerto del catálogo de materiales.
type MaterialRepository interface {
	Create(m *entity.Material) error
	GetByID(companyID, id string) (*entity.Material, error)
	List(companyID string, limit, offset int) ([]*entity.Material, error)
}

// ShelfRepository define el puerto de estantes.
type ShelfRepository interface {
	Create(s *entity.Shelf) error
	GetByID(companyID, id string) (*entity.Shelf, error)
	List(companyID string) ([]*entity.Shelf, error)
}

// UserRepository define el puerto de usuarios (solo lo que necesita el
// boundary de autenticación).
type UserRepository interface {
	Create(u *entity.User) error
	GetByID(id string) (*entity.User, error)
	FindByEmail(email string) (*entity.User, error)
}
