// StockLane API — plataforma multi-tenant de gestión de inventario.
//
// @title        StockLane API
// @version      1.0
// @description  API de inventario multi-tenant: ledger de movimientos, órdenes de compra, proveedores e invitaciones.
// @securityDefinitions.apikey Bearer
// @in   header
// @name Authorization
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

	"github.com/jhoicas/stocklane-api/internal/application/analytics"
	"github.com/jhoicas/stocklane-api/internal/application/auth"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/application/importer"
	"github.com/jhoicas/stocklane-api/internal/application/inventory"
	"github.com/jhoicas/stocklane-api/internal/application/invite"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/email"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/pdf"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/postgres"
	apphttp "github.com/jhoicas/stocklane-api/internal/interfaces/http"
	"github.com/jhoicas/stocklane-api/pkg/config"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	log := logger.New(logger.Config{Env: cfg.App.Env, Level: "info"})
	log.Info().Str("env", cfg.App.Env).Msg("iniciando StockLane API")

	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("JWT_SECRET es obligatorio")
	}

	// Migraciones embebidas antes de abrir el pool de la app.
	if err := postgres.Migrate(cfg.DB.ConnectionString()); err != nil {
		log.Fatal().Err(err).Msg("migraciones fallidas")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	pool, err := postgres.NewPool(ctx, cfg.DB)
	cancel()
	if err != nil {
		log.Fatal().Err(err).Msg("no se pudo conectar a PostgreSQL")
	}
	defer pool.Close()

	// Repositorios sobre el pool (las tx usan sus propios repos vía TxRunner).
	companyRepo := postgres.NewCompanyRepository(pool)
	deptRepo := postgres.NewDepartmentRepository(pool)
	profileRepo := postgres.NewProfileRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	movementRepo := postgres.NewStockMovementRepository(pool)
	supplierRepo := postgres.NewSupplierRepository(pool)
	quoteRepo := postgres.NewSupplierQuoteRepository(pool)
	poRepo := postgres.NewPurchaseOrderRepository(pool)
	inviteRepo := postgres.NewInviteRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	// Correo de invitaciones: SMTP si está configurado, no-op si no.
	var sender email.Sender = email.NoOpSender{}
	if cfg.SMTP.Host != "" {
		sender = email.NewSMTPSender(cfg.SMTP)
	}

	// Bus de eventos de inventario con el suscriptor de alertas.
	bus := events.NewInMemoryBus()
	bus.Subscribe(analytics.NewAlertSubscriber(log))

	// Casos de uso.
	authUC := auth.NewUseCase(profileRepo, companyRepo, log, cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
	inviteUC := invite.NewUseCase(txRunner, inviteRepo, profileRepo, companyRepo, deptRepo, sender, log, cfg.SMTP.InviteURL)
	companyUC := usecase.NewCompanyUseCase(companyRepo)
	deptUC := usecase.NewDepartmentUseCase(deptRepo)
	profileUC := usecase.NewProfileUseCase(profileRepo, deptRepo)
	productUC := usecase.NewProductUseCase(productRepo)
	supplierUC := usecase.NewSupplierUseCase(supplierRepo)
	quoteUC := usecase.NewQuoteUseCase(quoteRepo, supplierRepo, productRepo)
	poUC := usecase.NewPurchaseOrderUseCase(txRunner, poRepo, supplierRepo, productRepo, companyRepo, pdf.NewMarotoPOGenerator(), bus)
	inventoryUC := inventory.NewUseCase(txRunner, productRepo, movementRepo, bus)
	importerUC := importer.NewUseCase(productRepo, supplierRepo, log)
	dashboardUC := analytics.NewDashboardUseCase(productRepo, supplierRepo, profileRepo, poRepo)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
	app.Use(recover.New())
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		if err := pool.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down"})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	apphttp.Router(app, apphttp.RouterDeps{
		AuthUC:      authUC,
		InviteUC:    inviteUC,
		CompanyUC:   companyUC,
		DeptUC:      deptUC,
		ProfileUC:   profileUC,
		ProductUC:   productUC,
		SupplierUC:  supplierUC,
		QuoteUC:     quoteUC,
		POUC:        poUC,
		InventoryUC: inventoryUC,
		ImporterUC:  importerUC,
		DashboardUC: dashboardUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	// Arranque + apagado ordenado.
	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Fatal().Err(err).Msg("el servidor HTTP terminó con error")
		}
	}()
	log.Info().Str("addr", cfg.HTTP.Addr()).Msg("servidor HTTP escuchando")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("apagando servidor...")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error().Err(err).Msg("apagado con errores")
	}
	log.Info().Msg("servidor detenido")
}
