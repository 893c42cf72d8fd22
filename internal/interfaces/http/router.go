package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/taller-erp/internal/application/auth"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/catalog"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/application/inventory"
	"github.com/tu-usuario/taller-erp/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC         *auth.AuthUseCase
	CatalogUC      *catalog.CatalogUseCase
	ApplyMovement  *inventory.ApplyMovementUseCase
	StockQuery     *inventory.StockQueryUseCase
	RebuildViews   *inventory.RebuildViewsUseCase
	CreateDocument *billing.CreateDocumentUseCase
	DocumentQuery  *billing.DocumentQueryUseCase
	DeleteDocument *billing.DeleteDocumentUseCase
	PaymentUC      *billing.PaymentUseCase
	BulkSender     *dispatch.BulkSenderUseCase
	Renderer       dispatch.DocumentRenderer
	Exporter       dispatch.DocumentExporter
	JWTSecret      string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	staff := RequireRole(entity.RoleAdmin, entity.RoleManager, entity.RoleEmployee)
	managers := RequireRole(entity.RoleAdmin, entity.RoleManager)

	// Catálogo (protegido)
	materials := protected.Group("/materials", staff)
	materialHandler := NewMaterialHandler(deps.CatalogUC)
	materials.Post("/", materialHandler.Create)
	materials.Get("/", materialHandler.List)
	materials.Get("/:id", materialHandler.GetByID)

	shelves := protected.Group("/shelves", staff)
	shelfHandler := NewShelfHandler(deps.CatalogUC)
	shelves.Post("/", shelfHandler.Create)
	shelves.Get("/", shelfHandler.List)
	shelves.Get("/:id", shelfHandler.GetByID)

	// Stock ledger (protegido)
	stock := protected.Group("/stock", staff)
	inventoryHandler := NewInventoryHandler(deps.ApplyMovement, deps.StockQuery, deps.RebuildViews)
	stock.Post("/movements", inventoryHandler.RegisterMovement)
	stock.Get("/movements", inventoryHandler.ListMovements)
	stock.Get("/materials/:id", inventoryHandler.MaterialStock)
	stock.Get("/shelves/:id", inventoryHandler.ShelfContents)
	// La reconstrucción de vistas es operación administrativa.
	stock.Post("/materials/:id/rebuild", managers, inventoryHandler.RebuildMaterial)
	stock.Post("/shelves/:id/rebuild", managers, inventoryHandler.RebuildShelf)

	// Documentos y pagos (protegido)
	documents := protected.Group("/documents", staff)
	documentHandler := NewDocumentHandler(deps.CreateDocument, deps.DocumentQuery, deps.DeleteDocument, deps.PaymentUC)
	documents.Post("/", documentHandler.Create)
	documents.Get("/", documentHandler.List)
	documents.Get("/:id", documentHandler.GetByID)
	documents.Delete("/:id", managers, documentHandler.Delete)
	documents.Delete("/lines/:lineId", managers, documentHandler.DeleteLine)
	documents.Post("/:id/payments", documentHandler.RegisterPayment)

	payments := protected.Group("/payments", staff)
	payments.Delete("/:paymentId", managers, documentHandler.DeletePayment)

	// Despacho: envío masivo y descargas (protegido)
	dispatchHandler := NewDispatchHandler(deps.BulkSender, deps.DocumentQuery, deps.Renderer, deps.Exporter)
	documents.Get("/:id/pdf", dispatchHandler.DownloadPDF)
	documents.Get("/:id/xml", dispatchHandler.DownloadXML)
	dispatchGroup := protected.Group("/dispatch", managers)
	dispatchGroup.Post("/send", dispatchHandler.SendPeriod)
}
