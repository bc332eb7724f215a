// Package http expone la API REST sobre Fiber. Los handlers construyen el
// Principal desde el token (AuthMiddleware) y lo pasan explícito a cada caso
// de uso; ningún handler consulta la DB para autorizar.
package http

import (
	"github.com/gofiber/adaptor/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stocklane-api/internal/application/analytics"
	"github.com/jhoicas/stocklane-api/internal/application/auth"
	"github.com/jhoicas/stocklane-api/internal/application/importer"
	"github.com/jhoicas/stocklane-api/internal/application/inventory"
	"github.com/jhoicas/stocklane-api/internal/application/invite"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC      *auth.UseCase
	InviteUC    *invite.UseCase
	CompanyUC   *usecase.CompanyUseCase
	DeptUC      *usecase.DepartmentUseCase
	ProfileUC   *usecase.ProfileUseCase
	ProductUC   *usecase.ProductUseCase
	SupplierUC  *usecase.SupplierUseCase
	QuoteUC     *usecase.QuoteUseCase
	POUC        *usecase.PurchaseOrderUseCase
	InventoryUC *inventory.UseCase
	ImporterUC  *importer.UseCase
	DashboardUC *analytics.DashboardUseCase
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC, deps.InviteUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/accept-invite", authHandler.AcceptInvite)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Companies
	companies := protected.Group("/companies")
	companyHandler := NewCompanyHandler(deps.CompanyUC)
	companies.Get("/", companyHandler.List)
	companies.Post("/", RequireRole(policy.RoleSuperAdmin), companyHandler.Create)
	companies.Get("/:id", companyHandler.GetByID)
	companies.Put("/:id", companyHandler.Update)
	companies.Delete("/:id", RequireRole(policy.RoleSuperAdmin), companyHandler.Deactivate)

	// Departments
	departments := protected.Group("/departments")
	deptHandler := NewDepartmentHandler(deps.DeptUC)
	departments.Get("/", deptHandler.List)
	departments.Post("/", deptHandler.Create)
	departments.Get("/:id", deptHandler.GetByID)
	departments.Put("/:id", deptHandler.Update)
	departments.Delete("/:id", deptHandler.Delete)

	// Profiles
	profiles := protected.Group("/profiles")
	profileHandler := NewProfileHandler(deps.ProfileUC)
	profiles.Get("/", profileHandler.List)
	profiles.Get("/me", profileHandler.Me)
	profiles.Get("/:id", profileHandler.GetByID)
	profiles.Put("/:id", profileHandler.Update)

	// Products (+ import/export, quotes por producto, reconciliación de stock)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	supplierHandler := NewSupplierHandler(deps.SupplierUC, deps.QuoteUC)
	stockHandler := NewStockHandler(deps.InventoryUC)
	importHandler := NewImportHandler(deps.ImporterUC)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Post("/import", importHandler.ImportProducts)
	products.Get("/export", importHandler.ExportInventory)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)
	products.Get("/:id/quotes", supplierHandler.QuotesByProduct)
	products.Post("/:id/recompute-stock", stockHandler.Recompute)

	// Suppliers (+ import, quotes por proveedor)
	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", supplierHandler.List)
	suppliers.Post("/", supplierHandler.Create)
	suppliers.Post("/import", importHandler.ImportSuppliers)
	suppliers.Get("/:id", supplierHandler.GetByID)
	suppliers.Put("/:id", supplierHandler.Update)
	suppliers.Delete("/:id", supplierHandler.Delete)
	suppliers.Get("/:id/quotes", supplierHandler.QuotesBySupplier)

	// Quotes
	quotes := protected.Group("/quotes")
	quotes.Post("/", supplierHandler.CreateQuote)

	// Stock (ledger de movimientos)
	stock := protected.Group("/stock")
	stock.Post("/movements", stockHandler.Apply)
	stock.Get("/movements", stockHandler.History)
	stock.Post("/movements/bulk", stockHandler.ApplyBulk)
	stock.Delete("/batches/:batch_id",
		RequireRole(policy.RoleSuperAdmin, policy.RoleCompanyOwner), stockHandler.RollbackBatch)

	// Purchase orders
	orders := protected.Group("/purchase-orders")
	poHandler := NewPurchaseOrderHandler(deps.POUC)
	orders.Get("/", poHandler.List)
	orders.Post("/", poHandler.Create)
	orders.Get("/:id", poHandler.GetByID)
	orders.Put("/:id/status", poHandler.UpdateStatus)
	orders.Get("/:id/pdf", poHandler.PDF)

	// Invites
	invites := protected.Group("/invites")
	inviteHandler := NewInviteHandler(deps.InviteUC)
	invites.Get("/", inviteHandler.List)
	invites.Post("/", inviteHandler.Create)

	// Dashboard
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	protected.Get("/dashboard", dashboardHandler.Stats)
}
