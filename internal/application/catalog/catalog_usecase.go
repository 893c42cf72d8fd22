package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/tu-usuario/taller-erp/internal/application/dto"
	"github.com/tu-usuario/taller-erp/internal/domain"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	"github.com/tu-usuario/taller-erp/pkg/currency"
)

// CatalogUseCase gestiona materiales y estantes. El precio del catálogo es
// referencial: los documentos llevan su propio precio por línea.
type CatalogUseCase struct {
	materialRepo repository.MaterialRepository
	shelfRepo    repository.ShelfRepository
}

// NewCatalogUseCase construye el caso de uso.
func NewCatalogUseCase(materialRepo repository.MaterialRepository, shelfRepo repository.ShelfRepository) *CatalogUseCase {
	return &CatalogUseCase{materialRepo: materialRepo, shelfRepo: shelfRepo}
}

// CreateMaterial da de alta un material activo.
func (uc *CatalogUseCase) CreateMaterial(companyID string, in dto.CreateMaterialRequest) (*dto.MaterialResponse, error) {
	if companyID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	now := time.Now().UTC()
	m := &entity.Material{
		ID:          uuid.NewString(),
		CompanyID:   companyID,
		Name:        in.Name,
		Description: in.Description,
		Code:        in.Code,
		EAN:         in.EAN,
		Price:       in.Price,
		Status:      entity.MaterialStatusActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.materialRepo.Create(m); err != nil {
		return nil, err
	}
	return toMaterialResponse(m, ""), nil
}

// GetMaterial devuelve un material; currencyCode formatea PriceText si no
// está vacío.
func (uc *CatalogUseCase) GetMaterial(companyID, id, currencyCode string) (*dto.MaterialResponse, error) {
	m, err := uc.materialRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	return toMaterialResponse(m, currencyCode), nil
}

// ListMaterials lista el catálogo paginado.
func (uc *CatalogUseCase) ListMaterials(companyID, currencyCode string, limit, offset int) ([]dto.MaterialResponse, error) {
	items, err := uc.materialRepo.List(companyID, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MaterialResponse, 0, len(items))
	for _, m := range items {
		out = append(out, *toMaterialResponse(m, currencyCode))
	}
	return out, nil
}

// CreateShelf da de alta un estante.
func (uc *CatalogUseCase) CreateShelf(companyID string, in dto.CreateShelfRequest) (*dto.ShelfResponse, error) {
	if companyID == "" || in.Name == "" {
		return nil, domain.ErrInvalidInput
	}
	s := &entity.Shelf{
		ID:        uuid.NewString(),
		CompanyID: companyID,
		Name:      in.Name,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.shelfRepo.Create(s); err != nil {
		return nil, err
	}
	return toShelfResponse(s), nil
}

// GetShelf devuelve un estante.
func (uc *CatalogUseCase) GetShelf(companyID, id string) (*dto.ShelfResponse, error) {
	s, err := uc.shelfRepo.GetByID(companyID, id)
	if err != nil {
		return nil, err
	}
	return toShelfResponse(s), nil
}

// ListShelves lista los estantes de la empresa.
func (uc *CatalogUseCase) ListShelves(companyID string) ([]dto.ShelfResponse, error) {
	items, err := uc.shelfRepo.List(companyID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ShelfResponse, 0, len(items))
	for _, s := range items {
		out = append(out, *toShelfResponse(s))
	}
	return out, nil
}

func toMaterialResponse(m *entity.Material, currencyCode string) *dto.MaterialResponse {
	resp := &dto.MaterialResponse{
		ID:          m.ID,
		CompanyID:   m.CompanyID,
		Name:        m.Name,
		Description: m.Description,
		Code:        m.Code,
		EAN:         m.EAN,
		Price:       m.Price,
		Status:      m.Status,
		CreatedAt:   m.CreatedAt,
	}
	if currencyCode != "" {
		resp.PriceText = currency.Format(m.Price, currencyCode)
	}
	return resp
}

func toShelfResponse(s *entity.Shelf) *dto.ShelfResponse {
	return &dto.ShelfResponse{
		ID:        s.ID,
		CompanyID: s.CompanyID,
		Name:      s.Name,
		CreatedAt: s.CreatedAt,
	}
}
