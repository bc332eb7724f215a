// Package analytics compone las métricas agregadas del dashboard y aloja el
// suscriptor de alertas de stock bajo.
package analytics

import (
	"context"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/pkg/logger"
)

// DashboardUseCase agrega los contadores de la vista principal. Solo lecturas;
// se apoya en los mismos repos que los CRUD.
type DashboardUseCase struct {
	products  repository.ProductRepository
	suppliers repository.SupplierRepository
	profiles  repository.ProfileRepository
	orders    repository.PurchaseOrderRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	products repository.ProductRepository,
	suppliers repository.SupplierRepository,
	profiles repository.ProfileRepository,
	orders repository.PurchaseOrderRepository,
) *DashboardUseCase {
	return &DashboardUseCase{products: products, suppliers: suppliers, profiles: profiles, orders: orders}
}

// Stats calcula las métricas de la empresa del principal. El conteo de stock
// bajo usa el mismo predicado inclusivo del ledger (filtro LowStock del repo).
func (uc *DashboardUseCase) Stats(ctx context.Context, p policy.Principal) (*dto.DashboardResponse, error) {
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	companyID := scope.CompanyID

	totalProducts, err := uc.products.Count(ctx, repository.ProductFilter{CompanyID: companyID})
	if err != nil {
		return nil, err
	}
	lowStock, err := uc.products.Count(ctx, repository.ProductFilter{CompanyID: companyID, LowStock: true})
	if err != nil {
		return nil, err
	}
	totalSuppliers, err := uc.suppliers.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	activeUsers, err := uc.profiles.CountByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}
	purchasesTotal, err := uc.orders.SumTotalByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardResponse{
		TotalProducts:    totalProducts,
		LowStockProducts: lowStock,
		TotalSuppliers:   totalSuppliers,
		ActiveUsers:      activeUsers,
		PurchasesTotal:   purchasesTotal,
	}, nil
}

var _ events.Subscriber = (*AlertSubscriber)(nil)

// AlertSubscriber registra en el log cada evento del bus de inventario.
// Las alertas de stock bajo salen en nivel warn para que operación las vea
// sin filtrar.
type AlertSubscriber struct {
	log *logger.Logger
}

// NewAlertSubscriber construye el suscriptor.
func NewAlertSubscriber(log *logger.Logger) *AlertSubscriber {
	return &AlertSubscriber{log: log}
}

// OnStockChanged traza el movimiento aplicado.
func (s *AlertSubscriber) OnStockChanged(e events.StockChanged) {
	s.log.WithCompany(e.CompanyID).Debug().
		Str("product_id", e.ProductID).
		Str("type", e.Type).
		Int64("quantity", e.Quantity).
		Int64("new_stock", e.NewStock).
		Msg("movimiento de inventario aplicado")
}

// OnLowStock alerta de stock en o bajo el nivel de reorden.
func (s *AlertSubscriber) OnLowStock(e events.LowStock) {
	s.log.WithCompany(e.CompanyID).Warn().
		Str("product_id", e.ProductID).
		Str("product", e.ProductName).
		Int64("current_stock", e.CurrentStock).
		Int64("reorder_level", e.ReorderLevel).
		Msg("producto en nivel de reorden")
}
