package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-erp/internal/application/dto"
	"github.com/tu-usuario/taller-erp/internal/application/inventory"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del ledger de stock (protegido).
type InventoryHandler struct {
	apply   *inventory.ApplyMovementUseCase
	query   *inventory.StockQueryUseCase
	rebuild *inventory.RebuildViewsUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(apply *inventory.ApplyMovementUseCase, query *inventory.StockQueryUseCase, rebuild *inventory.RebuildViewsUseCase) *InventoryHandler {
	return &InventoryHandler{apply: apply, query: query, rebuild: rebuild}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de stock
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "Movimiento"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = *in.Date
	}
	mov, err := h.apply.Apply(c.UserContext(), inventory.MovementInput{
		CompanyID:  companyID,
		UserID:     GetUserID(c),
		MaterialID: in.MaterialID,
		ShelfID:    in.ShelfID,
		Direction:  in.Direction,
		Amount:     in.Amount,
		Expiration: in.Expiration,
		Date:       date,
		Note:       in.Note,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResponse(mov))
}

// MaterialStock godoc
// @Summary      Stock de un material (lotes por vencimiento)
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialStockResponse
// @Router       /api/stock/materials/{id} [get]
func (h *InventoryHandler) MaterialStock(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	lots, err := h.query.LotsFor(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	stock, err := h.query.CurrentStock(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	earliest, err := h.query.EarliestExpiration(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.MaterialStockResponse{
		MaterialID:         id,
		CurrentStock:       stock,
		EarliestExpiration: earliest,
		Lots:               make([]dto.LotDTO, 0, len(lots)),
	}
	for _, lot := range lots {
		resp.Lots = append(resp.Lots, dto.LotDTO{ShelfID: lot.ShelfID, Expiration: lot.Expiration, Amount: lot.Amount})
	}
	return c.JSON(resp)
}

// ShelfContents godoc
// @Summary      Contenido de un estante
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del estante"
// @Success      200  {object}  dto.ShelfContentsResponse
// @Router       /api/stock/shelves/{id} [get]
func (h *InventoryHandler) ShelfContents(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	contents, err := h.query.ContentsFor(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ShelfContentsResponse{
		ShelfID:  id,
		Contents: make([]dto.ShelfContentDTO, 0, len(contents)),
	}
	for _, ct := range contents {
		resp.Contents = append(resp.Contents, dto.ShelfContentDTO{MaterialID: ct.MaterialID, Expiration: ct.Expiration, Amount: ct.Amount})
	}
	return c.JSON(resp)
}

// ListMovements godoc
// @Summary      Movimientos por período
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  true   "Fecha inicial (RFC 3339)"
// @Param        to      query  string  true   "Fecha final (RFC 3339)"
// @Param        limit   query  int     false  "Límite"  default(100)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.MovementResponse
// @Router       /api/stock/movements [get]
func (h *InventoryHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC 3339)"})
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC 3339)"})
	}
	page := dto.Pagination{Limit: 100}
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	movs, err := h.query.MovementsByPeriod(companyID, from, to, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.MovementResponse, 0, len(movs))
	for _, mov := range movs {
		out = append(out, *toMovementResponse(mov))
	}
	return c.JSON(out)
}

// RebuildMaterial godoc
// @Summary      Reconstruir la vista de un material desde el log
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del material"
// @Success      200  {object}  dto.MaterialStockResponse
// @Router       /api/stock/materials/{id}/rebuild [post]
func (h *InventoryHandler) RebuildMaterial(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	view, err := h.rebuild.RebuildMaterial(c.UserContext(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.MaterialStockResponse{
		MaterialID:         id,
		CurrentStock:       view.CurrentStock(),
		EarliestExpiration: view.EarliestExpiration,
		Lots:               make([]dto.LotDTO, 0, len(view.Lots)),
	}
	for _, lot := range view.Lots {
		resp.Lots = append(resp.Lots, dto.LotDTO{ShelfID: lot.ShelfID, Expiration: lot.Expiration, Amount: lot.Amount})
	}
	return c.JSON(resp)
}

// RebuildShelf godoc
// @Summary      Reconstruir la vista de un estante desde el log
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del estante"
// @Success      200  {object}  dto.ShelfContentsResponse
// @Router       /api/stock/shelves/{id}/rebuild [post]
func (h *InventoryHandler) RebuildShelf(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	view, err := h.rebuild.RebuildShelf(c.UserContext(), companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	resp := dto.ShelfContentsResponse{
		ShelfID:  id,
		Contents: make([]dto.ShelfContentDTO, 0, len(view.Contents)),
	}
	for _, ct := range view.Contents {
		resp.Contents = append(resp.Contents, dto.ShelfContentDTO{MaterialID: ct.MaterialID, Expiration: ct.Expiration, Amount: ct.Amount})
	}
	return c.JSON(resp)
}

func toMovementResponse(mov *entity.StockMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:         mov.ID,
		MaterialID: mov.MaterialID,
		ShelfID:    mov.ShelfID,
		Direction:  mov.Direction,
		Amount:     mov.Amount,
		Expiration: mov.Expiration,
		Date:       mov.Date,
		Note:       mov.Note,
	}
}
