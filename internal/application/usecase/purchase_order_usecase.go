package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/ledger"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/metrics"
)

// OrdersTxRunner ejecuta un callback con repos de órdenes e inventario atados
// a una única transacción (recepción de orden: estado + entradas de stock).
type OrdersTxRunner interface {
	RunOrders(ctx context.Context, fn func(
		poRepo repository.PurchaseOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error) error
}

// POItemForPDF línea de orden con los datos de producto que necesita el PDF.
type POItemForPDF struct {
	ProductName string
	SKU         string
	Quantity    int64
	UnitPrice   decimal.Decimal
	TotalPrice  decimal.Decimal
}

// PurchaseOrderPDFGenerator genera el documento imprimible de una orden.
type PurchaseOrderPDFGenerator interface {
	GeneratePOPDF(ctx context.Context, po *entity.PurchaseOrder, company *entity.Company, supplier *entity.Supplier, lines []POItemForPDF) ([]byte, error)
}

// PurchaseOrderUseCase casos de uso del ciclo de vida de órdenes de compra:
// pending → approved → sent → received | cancelled. Recibir la orden emite
// los movimientos de entrada en la misma transacción que el cambio de estado.
type PurchaseOrderUseCase struct {
	tx        OrdersTxRunner
	orders    repository.PurchaseOrderRepository
	suppliers repository.SupplierRepository
	products  repository.ProductRepository
	companies repository.CompanyRepository
	pdf       PurchaseOrderPDFGenerator
	bus       events.Bus
}

// NewPurchaseOrderUseCase construye el caso de uso.
func NewPurchaseOrderUseCase(
	tx OrdersTxRunner,
	orders repository.PurchaseOrderRepository,
	suppliers repository.SupplierRepository,
	products repository.ProductRepository,
	companies repository.CompanyRepository,
	pdf PurchaseOrderPDFGenerator,
	bus events.Bus,
) *PurchaseOrderUseCase {
	return &PurchaseOrderUseCase{
		tx: tx, orders: orders, suppliers: suppliers, products: products,
		companies: companies, pdf: pdf, bus: bus,
	}
}

// Create crea una orden en estado pending. El número lo asigna la secuencia
// global y el total queda congelado como Σ quantity × unit_price. Cabecera y
// líneas se insertan en una sola transacción: un fallo a mitad de las líneas
// no deja una orden sin items.
func (uc *PurchaseOrderUseCase) Create(ctx context.Context, p policy.Principal, in dto.CreatePORequest) (*dto.POResponse, error) {
	supplier, err := uc.suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, policy.ActionCreate, policy.EntityPurchaseOrder, supplier.CompanyID); err != nil {
		return nil, err
	}

	poID := uuid.New().String()
	now := time.Now()
	total := decimal.Zero
	items := make([]*entity.PurchaseOrderItem, 0, len(in.Items))
	for _, line := range in.Items {
		if line.Quantity <= 0 || line.UnitPrice.IsNegative() {
			return nil, domain.ErrInvalidInput
		}
		product, err := uc.products.GetByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		if product == nil || product.CompanyID != supplier.CompanyID {
			return nil, domain.ErrInvalidInput
		}
		lineTotal := line.UnitPrice.Mul(decimal.NewFromInt(line.Quantity))
		total = total.Add(lineTotal)
		items = append(items, &entity.PurchaseOrderItem{
			ID:              uuid.New().String(),
			PurchaseOrderID: poID,
			ProductID:       line.ProductID,
			Quantity:        line.Quantity,
			UnitPrice:       line.UnitPrice,
			TotalPrice:      lineTotal,
			CreatedAt:       now,
		})
	}

	poNumber, err := uc.orders.NextPONumber(ctx)
	if err != nil {
		return nil, err
	}
	po := &entity.PurchaseOrder{
		ID:               poID,
		CompanyID:        supplier.CompanyID,
		PONumber:         poNumber,
		SupplierID:       in.SupplierID,
		UserID:           p.UserID,
		Status:           entity.POStatusPending,
		TotalAmount:      total,
		ExpectedDelivery: in.ExpectedDelivery,
		Notes:            in.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	err = uc.tx.RunOrders(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		_ repository.StockMovementRepository,
		_ repository.ProductRepository,
	) error {
		return poRepo.Create(ctx, po, items)
	})
	if err != nil {
		return nil, err
	}
	return toPOResponse(po, items), nil
}

// GetByID obtiene una orden con sus líneas.
func (uc *PurchaseOrderUseCase) GetByID(ctx context.Context, p policy.Principal, id string) (*dto.POResponse, error) {
	po, err := uc.authorizedOrder(ctx, p, policy.ActionRead, id)
	if err != nil {
		return nil, err
	}
	items, err := uc.orders.GetItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	return toPOResponse(po, items), nil
}

// UpdateStatus ejecuta una transición del ciclo de vida. Una transición
// inválida (saltarse un paso, revivir un estado terminal) responde
// ErrConflict. received corre en una transacción que además emite un
// movimiento in por cada línea, con la orden como batch de correlación.
func (uc *PurchaseOrderUseCase) UpdateStatus(ctx context.Context, p policy.Principal, id, newStatus string) (*dto.POResponse, error) {
	po, err := uc.authorizedOrder(ctx, p, policy.ActionUpdate, id)
	if err != nil {
		return nil, err
	}
	if !po.CanTransition(newStatus) {
		return nil, domain.ErrConflict
	}

	if newStatus != entity.POStatusReceived {
		if err := uc.orders.UpdateStatus(ctx, po.ID, newStatus); err != nil {
			return nil, err
		}
		po.Status = newStatus
		return toPOResponse(po, nil), nil
	}

	items, err := uc.orders.GetItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}

	type published struct {
		movement *entity.StockMovement
		newStock int64
		reorder  int64
		name     string
	}
	var toPublish []published

	err = uc.tx.RunOrders(ctx, func(
		poRepo repository.PurchaseOrderRepository,
		movRepo repository.StockMovementRepository,
		productRepo repository.ProductRepository,
	) error {
		if err := poRepo.UpdateStatus(ctx, po.ID, entity.POStatusReceived); err != nil {
			return err
		}
		for _, item := range items {
			locked, err := productRepo.GetForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			batchID := po.ID
			movement := &entity.StockMovement{
				ID:        uuid.New().String(),
				CompanyID: po.CompanyID,
				ProductID: item.ProductID,
				Type:      entity.MovementTypeIn,
				Quantity:  item.Quantity,
				Notes:     "Recepción orden " + po.PONumber,
				UserID:    p.UserID,
				BatchID:   &batchID,
				CreatedAt: time.Now(),
			}
			if err := movRepo.Create(ctx, movement); err != nil {
				return err
			}
			if err := productRepo.AdjustStock(ctx, locked.ID, item.Quantity); err != nil {
				return err
			}
			toPublish = append(toPublish, published{
				movement: movement,
				newStock: locked.CurrentStock + item.Quantity,
				reorder:  locked.ReorderLevel,
				name:     locked.Name,
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, pub := range toPublish {
		metrics.MovementsApplied.WithLabelValues(pub.movement.Type).Inc()
		uc.bus.PublishStockChanged(events.StockChanged{
			CompanyID:  pub.movement.CompanyID,
			ProductID:  pub.movement.ProductID,
			Type:       pub.movement.Type,
			Quantity:   pub.movement.Quantity,
			NewStock:   pub.newStock,
			BatchID:    pub.movement.BatchID,
			OccurredAt: pub.movement.CreatedAt,
		})
		if ledger.IsLowStock(pub.newStock, pub.reorder) {
			uc.bus.PublishLowStock(events.LowStock{
				CompanyID:    pub.movement.CompanyID,
				ProductID:    pub.movement.ProductID,
				ProductName:  pub.name,
				CurrentStock: pub.newStock,
				ReorderLevel: pub.reorder,
				OccurredAt:   pub.movement.CreatedAt,
			})
		}
	}

	po.Status = entity.POStatusReceived
	return toPOResponse(po, items), nil
}

// ListByCompany lista las órdenes de la empresa del principal, opcionalmente
// filtradas por estado.
func (uc *PurchaseOrderUseCase) ListByCompany(ctx context.Context, p policy.Principal, in dto.ListPORequest) (*dto.POListResponse, error) {
	in.DefaultPage()
	scope := policy.Scope(p)
	if scope.All {
		return nil, domain.ErrInvalidInput
	}
	if err := authorize(p, policy.ActionRead, policy.EntityPurchaseOrder, scope.CompanyID); err != nil {
		return nil, err
	}
	list, err := uc.orders.ListByCompany(ctx, scope.CompanyID, in.Status, in.Limit, in.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.POResponse, 0, len(list))
	for _, po := range list {
		items = append(items, *toPOResponse(po, nil))
	}
	return &dto.POListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// GeneratePDF genera el documento imprimible de la orden.
func (uc *PurchaseOrderUseCase) GeneratePDF(ctx context.Context, p policy.Principal, id string) ([]byte, error) {
	po, err := uc.authorizedOrder(ctx, p, policy.ActionRead, id)
	if err != nil {
		return nil, err
	}
	company, err := uc.companies.GetByID(ctx, po.CompanyID)
	if err != nil {
		return nil, err
	}
	supplier, err := uc.suppliers.GetByID(ctx, po.SupplierID)
	if err != nil {
		return nil, err
	}
	if company == nil || supplier == nil {
		return nil, domain.ErrNotFound
	}
	items, err := uc.orders.GetItems(ctx, po.ID)
	if err != nil {
		return nil, err
	}
	lines := make([]POItemForPDF, 0, len(items))
	for _, item := range items {
		line := POItemForPDF{
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		}
		if product, err := uc.products.GetByID(ctx, item.ProductID); err == nil && product != nil {
			line.ProductName = product.Name
			line.SKU = product.SKU
		}
		lines = append(lines, line)
	}
	return uc.pdf.GeneratePOPDF(ctx, po, company, supplier, lines)
}

// authorizedOrder resuelve la orden y autoriza la acción contra su empresa.
func (uc *PurchaseOrderUseCase) authorizedOrder(ctx context.Context, p policy.Principal, a policy.Action, id string) (*entity.PurchaseOrder, error) {
	po, err := uc.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if po == nil {
		return nil, domain.ErrNotFound
	}
	if err := authorize(p, a, policy.EntityPurchaseOrder, po.CompanyID); err != nil {
		return nil, err
	}
	return po, nil
}

func toPOResponse(po *entity.PurchaseOrder, items []*entity.PurchaseOrderItem) *dto.POResponse {
	resp := &dto.POResponse{
		ID:               po.ID,
		CompanyID:        po.CompanyID,
		PONumber:         po.PONumber,
		SupplierID:       po.SupplierID,
		UserID:           po.UserID,
		Status:           po.Status,
		TotalAmount:      po.TotalAmount,
		ExpectedDelivery: po.ExpectedDelivery,
		Notes:            po.Notes,
		CreatedAt:        po.CreatedAt,
		UpdatedAt:        po.UpdatedAt,
	}
	for _, item := range items {
		resp.Items = append(resp.Items, dto.POItemResponse{
			ID:         item.ID,
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			UnitPrice:  item.UnitPrice,
			TotalPrice: item.TotalPrice,
		})
	}
	return resp
}
