package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/dto"
	"github.com/tu-usuario/taller-erp/pkg/currency"
)

// DocumentHandler maneja las peticiones HTTP de documentos comerciales y sus
// pagos (protegido).
type DocumentHandler struct {
	create *billing.CreateDocumentUseCase
	query  *billing.DocumentQueryUseCase
	del    *billing.DeleteDocumentUseCase
	pay    *billing.PaymentUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(create *billing.CreateDocumentUseCase, query *billing.DocumentQueryUseCase, del *billing.DeleteDocumentUseCase, pay *billing.PaymentUseCase) *DocumentHandler {
	return &DocumentHandler{create: create, query: query, del: del, pay: pay}
}

// Create godoc
// @Summary      Crear documento con líneas y efecto sobre stock
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateDocumentRequest  true  "Documento"
// @Success      201   {object}  dto.DocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/documents [post]
func (h *DocumentHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in dto.CreateDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = *in.Date
	}
	items := make([]billing.LineInput, 0, len(in.Items))
	for _, it := range in.Items {
		items = append(items, billing.LineInput{
			MaterialID:       it.MaterialID,
			Description:      it.Description,
			Price:            it.Price,
			Amount:           it.Amount,
			TaxRate:          it.TaxRate,
			ReductionPercent: it.ReductionPercent,
			ShelfID:          it.ShelfID,
			Expiration:       it.Expiration,
		})
	}
	doc, err := h.create.Create(c.UserContext(), billing.DocumentInput{
		CompanyID:      companyID,
		UserID:         GetUserID(c),
		CustomerID:     in.CustomerID,
		Type:           in.Type,
		ExternalNumber: in.ExternalNumber,
		TaxIncluded:    in.TaxIncluded,
		Currency:       in.Currency,
		Date:           date,
		Items:          items,
	})
	if err != nil {
		return respondError(c, err)
	}
	view, err := h.query.Get(companyID, doc.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDocumentResponse(view))
}

// GetByID godoc
// @Summary      Obtener documento con totales frescos
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {object}  dto.DocumentResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [get]
func (h *DocumentHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	view, err := h.query.Get(companyID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toDocumentResponse(view))
}

// List godoc
// @Summary      Listar documentos por tipo y año
// @Tags         documents
// @Security     Bearer
// @Produce      json
// @Param        type    query  string  true   "Tipo de documento"
// @Param        year    query  int     true   "Año"
// @Param        limit   query  int     false  "Límite"  default(50)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {array}  dto.DocumentSummaryResponse
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	docType := c.Query("type")
	year := c.QueryInt("year", time.Now().UTC().Year())
	page := dto.Pagination{Limit: 50}
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paginación inválida"})
	}
	docs, err := h.query.List(companyID, docType, year, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	out := make([]dto.DocumentSummaryResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, dto.DocumentSummaryResponse{
			ID:       d.ID,
			Type:     d.Type,
			Number:   d.Number,
			Currency: d.Currency,
			Date:     d.Date,
		})
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Borrar documento (revierte su efecto sobre stock)
// @Tags         documents
// @Security     Bearer
// @Param        id  path  string  true  "ID del documento"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id} [delete]
func (h *DocumentHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	if err := h.del.Delete(c.UserContext(), companyID, id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// DeleteLine godoc
// @Summary      Borrar una línea (revierte su efecto sobre stock)
// @Tags         documents
// @Security     Bearer
// @Param        lineId  path  string  true  "ID de la línea"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/lines/{lineId} [delete]
func (h *DocumentHandler) DeleteLine(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	lineID := c.Params("lineId")
	if lineID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "lineId es requerido"})
	}
	if err := h.del.DeleteLine(c.UserContext(), companyID, lineID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// RegisterPayment godoc
// @Summary      Registrar pago sobre un documento
// @Tags         payments
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID del documento"
// @Param        body  body  dto.PaymentRequest  true  "Pago"
// @Success      201   {object}  dto.PaymentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/payments [post]
func (h *DocumentHandler) RegisterPayment(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "id es requerido"})
	}
	var in dto.PaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	date := time.Now().UTC()
	if in.Date != nil {
		date = *in.Date
	}
	p, err := h.pay.Register(billing.PaymentInput{
		CompanyID:  companyID,
		DocumentID: id,
		Value:      in.Value,
		Type:       in.Type,
		Reference:  in.Reference,
		Date:       date,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.PaymentResponse{
		ID:        p.ID,
		Value:     p.Value,
		Type:      p.Type,
		Reference: p.Reference,
		Verified:  p.Verified,
		Date:      p.Date,
	})
}

// DeletePayment godoc
// @Summary      Anular pago
// @Tags         payments
// @Security     Bearer
// @Param        paymentId  path  string  true  "ID del pago"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/payments/{paymentId} [delete]
func (h *DocumentHandler) DeletePayment(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	paymentID := c.Params("paymentId")
	if paymentID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "MISSING_ID", Message: "paymentId es requerido"})
	}
	if err := h.pay.Delete(companyID, paymentID); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toDocumentResponse(view *billing.DocumentView) dto.DocumentResponse {
	doc := view.Document
	resp := dto.DocumentResponse{
		ID:          doc.ID,
		CompanyID:   doc.CompanyID,
		CustomerID:  doc.CustomerID,
		Type:        doc.Type,
		Number:      doc.Number,
		TaxIncluded: doc.TaxIncluded,
		Currency:    doc.Currency,
		Date:        doc.Date,
		Items:       make([]dto.LineItemResponse, 0, len(view.Lines)),
		Payments:    make([]dto.PaymentResponse, 0, len(view.Payments)),
		Totals: dto.TotalsResponse{
			Total:          view.Totals.Total,
			TotalTax:       view.Totals.TotalTax,
			TotalReduction: view.Totals.TotalReduction,
			TotalPaid:      view.Totals.TotalPaid,
			TotalToPay:     view.Totals.TotalToPay,
			TotalText:      currency.Format(view.Totals.Total, doc.Currency),
		},
	}
	for _, li := range view.Lines {
		resp.Items = append(resp.Items, dto.LineItemResponse{
			ID:               li.ID,
			MaterialID:       li.MaterialID,
			Description:      li.Description,
			Price:            li.Price,
			Amount:           li.Amount,
			TaxRate:          li.TaxRate,
			ReductionPercent: li.ReductionPercent,
		})
	}
	for _, p := range view.Payments {
		resp.Payments = append(resp.Payments, dto.PaymentResponse{
			ID:        p.ID,
			Value:     p.Value,
			Type:      p.Type,
			Reference: p.Reference,
			Verified:  p.Verified,
			Date:      p.Date,
		})
	}
	return resp
}
