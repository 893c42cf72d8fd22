package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/application/dto"
)

// SendRunRequest body para lanzar una corrida de envío masivo.
type SendRunRequest struct {
	Year int    `json:"year"`
	To   string `json:"to"`
}

// SendRunResponse resultado de la corrida.
type SendRunResponse struct {
	Sent   int      `json:"sent"`
	Failed []string `json:"failed,omitempty"`
}

// DispatchHandler maneja el envío masivo y las descargas de documentos
// renderizados (protegido).
type DispatchHandler struct {
	sender   *dispatch.BulkSenderUseCase
	query    *billing.DocumentQueryUseCase
	renderer dispatch.DocumentRenderer
	exporter dispatch.DocumentExporter
}

// NewDispatchHandler construye el handler.
func NewDispatchHandler(sender *dispatch.BulkSenderUseCase, query *billing.DocumentQueryUseCase, renderer dispatch.DocumentRenderer, exporter dispatch.DocumentExporter) *DispatchHandler {
	return &DispatchHandler{sender: sender, query: query, renderer: renderer, exporter: exporter}
}

// SendPeriod godoc
// @Summary      Enviar por correo las facturas de un año
// @Tags         dispatch
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  SendRunRequest  true  "Año y destinatario"
// @Success      200   {object}  SendRunResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/dispatch/send [post]
func (h *DispatchHandler) SendPeriod(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "company_id requerido"})
	}
	var in SendRunRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if in.To == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to es requerido"})
	}
	if in.Year == 0 {
		in.Year = time.Now().UTC().Year()
	}
	report, err := h.sender.SendPeriod(c.UserContext(), companyID, in.Year, in.To)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(SendRunResponse{Sent: report.Sent, Failed: report.Failed})
}

// DownloadPDF godoc
// @Summary      Descargar documento en PDF
// @Tags         dispatch
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/pdf [get]
func (h *DispatchHandler) DownloadPDF(c *fiber.Ctx) error {
	view, err := h.documentView(c)
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.renderer.Render(view)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+view.Document.Number+`.pdf"`)
	return c.Send(data)
}

// DownloadXML godoc
// @Summary      Descargar documento en XML (UBL)
// @Tags         dispatch
// @Security     Bearer
// @Produce      application/xml
// @Param        id  path  string  true  "ID del documento"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/documents/{id}/xml [get]
func (h *DispatchHandler) DownloadXML(c *fiber.Ctx) error {
	view, err := h.documentView(c)
	if err != nil {
		return respondError(c, err)
	}
	data, err := h.exporter.Export(view)
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+view.Document.Number+`.xml"`)
	return c.Send(data)
}

func (h *DispatchHandler) documentView(c *fiber.Ctx) (*billing.DocumentView, error) {
	return h.query.Get(GetCompanyID(c), c.Params("id"))
}
