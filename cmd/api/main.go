package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/tu-usuario/taller-erp/internal/application/auth"
	"github.com/tu-usuario/taller-erp/internal/application/billing"
	"github.com/tu-usuario/taller-erp/internal/application/catalog"
	"github.com/tu-usuario/taller-erp/internal/application/dispatch"
	"github.com/tu-usuario/taller-erp/internal/application/inventory"
	"github.com/tu-usuario/taller-erp/internal/domain/repository"
	inframail "github.com/tu-usuario/taller-erp/internal/infrastructure/mail"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/memory"
	infrapdf "github.com/tu-usuario/taller-erp/internal/infrastructure/pdf"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/peppol"
	"github.com/tu-usuario/taller-erp/internal/infrastructure/postgres"
	httpRouter "github.com/tu-usuario/taller-erp/internal/interfaces/http"
	"github.com/tu-usuario/taller-erp/pkg/config"
	"github.com/tu-usuario/taller-erp/pkg/keylock"
	"github.com/tu-usuario/taller-erp/pkg/logger"
)

// repos agrupa los puertos de persistencia más los dos runners
// transaccionales, para armar el árbol igual con PostgreSQL o en memoria.
type repos struct {
	materials   repository.MaterialRepository
	shelves     repository.ShelfRepository
	users       repository.UserRepository
	movements   repository.StockMovementRepository
	views       repository.StockViewRepository
	documents   repository.DocumentRepository
	payments    repository.PaymentRepository
	inventoryTx inventory.TxRunner
	billingTx   billing.TxRunner
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()

	var r repos
	if cfg.DB.InMemory() {
		log.Warn().Msg("sin base de datos configurada; usando store en memoria")
		store := memory.NewStore()
		r = repos{
			materials:   store.Materials(),
			shelves:     store.Shelves(),
			users:       store.Users(),
			movements:   store.Movements(),
			views:       store.Views(),
			documents:   store.Documents(),
			payments:    store.Payments(),
			inventoryTx: store,
			billingTx:   store,
		}
	} else {
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			log.Fatal().Err(err).Msg("conexión a PostgreSQL")
		}
		defer pool.Close()
		txRunner := postgres.NewTxRunner(pool)
		r = repos{
			materials:   postgres.NewMaterialRepository(pool),
			shelves:     postgres.NewShelfRepository(pool),
			users:       postgres.NewUserRepository(pool),
			movements:   postgres.NewStockMovementRepository(pool),
			views:       postgres.NewStockViewRepository(pool),
			documents:   postgres.NewDocumentRepository(pool),
			payments:    postgres.NewPaymentRepository(pool),
			inventoryTx: txRunner,
			billingTx:   txRunner,
		}
	}

	locks := keylock.New(time.Duration(cfg.Ledger.LockTimeoutMS) * time.Millisecond)

	authUC := auth.NewAuthUseCase(r.users, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	catalogUC := catalog.NewCatalogUseCase(r.materials, r.shelves)

	applyMovementUC := inventory.NewApplyMovementUseCase(r.inventoryTx, r.materials, r.shelves, locks, cfg.Ledger.MaxRetries)
	stockQueryUC := inventory.NewStockQueryUseCase(r.views, r.movements)
	rebuildUC := inventory.NewRebuildViewsUseCase(r.inventoryTx, r.movements, locks)

	sequencer := billing.NewSequencer()
	createDocumentUC := billing.NewCreateDocumentUseCase(r.billingTx, r.documents, r.materials, r.shelves, sequencer, locks, cfg.Ledger.MaxRetries)
	documentQueryUC := billing.NewDocumentQueryUseCase(r.documents, r.payments)
	deleteDocumentUC := billing.NewDeleteDocumentUseCase(r.billingTx, r.documents, r.movements, locks)
	paymentUC := billing.NewPaymentUseCase(r.documents, r.payments)

	renderer := infrapdf.NewMarotoRenderer(cfg.App.Name)
	exporter := peppol.NewUBLExporter(peppol.SupplierInfo{
		Name:  cfg.App.Name,
		TaxID: cfg.App.TaxID,
	})
	var mailer dispatch.Mailer
	if cfg.SMTP.Host != "" {
		mailer = inframail.NewSMTPMailer(cfg.SMTP)
	} else {
		mailer = inframail.NewNoopMailer(log)
	}
	bulkSenderUC := dispatch.NewBulkSenderUseCase(documentQueryUC, renderer, exporter, mailer, log)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name + " API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:         authUC,
		CatalogUC:      catalogUC,
		ApplyMovement:  applyMovementUC,
		StockQuery:     stockQueryUC,
		RebuildViews:   rebuildUC,
		CreateDocument: createDocumentUC,
		DocumentQuery:  documentQueryUC,
		DeleteDocument: deleteDocumentUC,
		PaymentUC:      paymentUC,
		BulkSender:     bulkSenderUC,
		Renderer:       renderer,
		Exporter:       exporter,
		JWTSecret:      cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
