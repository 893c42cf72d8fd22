package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-erp/internal/application/catalog"
	"github.com/tu-usuario/taller-erp/internal/application/dto"
)

// ShelfHandler maneja las peticiones HTTP de estantes (protegido).
type ShelfHandler struct {
	uc *catalog.CatalogUseCase
}

// NewShelfHandler construye el handler.
func NewShelfHandler(uc *catalog.CatalogUseCase) *ShelfHandler {
	return &ShelfHandler{uc: uc}
}

// Create godoc
// @Summary      Crear estante
// @Tags         shelves
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateShelfRequest  true  "Datos del estante"
// @Success      201   {object}  dto.ShelfResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/shelves [post]
func (h *ShelfHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateShelfRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	out, err := h.uc.CreateShelf(companyID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener estante por ID
// @Tags         shelves
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del estante"
// @Success      200  {object}  dto.ShelfResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/shelves/{id} [get]
func (h *ShelfHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	out, err := h.uc.GetShelf(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar estantes
// @Tags         shelves
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.ShelfResponse
// @Router       /api/shelves [get]
func (h *ShelfHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	out, err := h.uc.ListShelves(companyID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
