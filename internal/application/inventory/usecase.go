// Package inventory implementa los casos de uso del ledger de inventario:
// registro de movimientos (individual y por lote), historial, reconciliación
// de la caché current_stock y rollback compensatorio de lotes.
package inventory

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/events"
	"github.com/jhoicas/stocklane-api/internal/domain"
	"github.com/jhoicas/stocklane-api/internal/domain/entity"
	"github.com/jhoicas/stocklane-api/internal/domain/ledger"
	"github.com/jhoicas/stocklane-api/internal/domain/policy"
	"github.com/jhoicas/stocklane-api/internal/domain/repository"
	"github.com/jhoicas/stocklane-api/internal/infrastructure/metrics"
)

// UseCase casos de uso del ledger. Las lecturas van directo a los repos del
// pool; toda escritura pasa por el TxRunner.
type UseCase struct {
	tx       TxRunner
	products repository.ProductRepository
	moves    repository.StockMovementRepository
	bus      events.Bus
}

// NewUseCase construye el caso de uso.
func NewUseCase(tx TxRunner, products repository.ProductRepository, moves repository.StockMovementRepository, bus events.Bus) *UseCase {
	return &UseCase{tx: tx, products: products, moves: moves, bus: bus}
}

// Apply registra un movimiento de inventario. Es el único punto de entrada de
// escritura del ledger: inserta el movimiento y ajusta current_stock en la
// misma transacción, con el producto bloqueado (SELECT ... FOR UPDATE).
//
// Si el request trae idempotency_key y ya existe un movimiento con esa clave
// en la empresa, no se inserta nada y se responde Replayed=true.
func (uc *UseCase) Apply(ctx context.Context, p policy.Principal, in dto.ApplyMovementRequest) (*dto.ApplyMovementResponse, error) {
	if err := ledger.ValidateMovement(in.Type, in.Quantity); err != nil {
		return nil, err
	}

	product, err := uc.products.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.Authorize(p, policy.ActionCreate, policy.Ref{
		Entity:    policy.EntityStockMovement,
		CompanyID: product.CompanyID,
	}); err != nil {
		metrics.PolicyDenials.WithLabelValues(string(policy.EntityStockMovement), string(policy.ActionCreate)).Inc()
		return nil, err
	}

	// Replay rápido fuera de la tx; la carrera residual la cierra el índice único.
	if in.IdempotencyKey != "" {
		prior, err := uc.moves.GetByIdempotencyKey(ctx, product.CompanyID, in.IdempotencyKey)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			return &dto.ApplyMovementResponse{
				Movement: toMovementResponse(prior),
				NewStock: product.CurrentStock,
				Replayed: true,
			}, nil
		}
	}

	movement := newMovement(product.CompanyID, p.UserID, in, nil)
	var newStock int64
	var reorder int64
	var productName string

	err = uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		locked, err := productRepo.GetForUpdate(ctx, product.ID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		if err := movRepo.Create(ctx, movement); err != nil {
			return err
		}
		delta := ledger.Signed(movement)
		if err := productRepo.AdjustStock(ctx, locked.ID, delta); err != nil {
			return err
		}
		newStock = locked.CurrentStock + delta
		reorder = locked.ReorderLevel
		productName = locked.Name
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateMovement) {
			// Perdimos la carrera contra otro reintento con la misma clave:
			// el resultado observable es el mismo que un replay.
			return uc.replay(ctx, product.CompanyID, in.IdempotencyKey)
		}
		return nil, err
	}

	metrics.MovementsApplied.WithLabelValues(movement.Type).Inc()
	uc.publish(movement, newStock, reorder, productName)

	return &dto.ApplyMovementResponse{
		Movement: toMovementResponse(movement),
		NewStock: newStock,
	}, nil
}

// ApplyBulk registra un lote de movimientos compartiendo un batch_id, en una
// sola transacción todo-o-nada. Cualquier fila inválida o producto inexistente
// revierte el lote completo.
func (uc *UseCase) ApplyBulk(ctx context.Context, p policy.Principal, in dto.BulkMovementRequest) (*dto.BulkMovementResponse, error) {
	if len(in.Movements) == 0 {
		return nil, domain.ErrInvalidInput
	}
	for _, m := range in.Movements {
		if err := ledger.ValidateMovement(m.Type, m.Quantity); err != nil {
			return nil, err
		}
	}

	batchID := uuid.New().String()
	type published struct {
		movement *entity.StockMovement
		newStock int64
		reorder  int64
		name     string
	}
	var toPublish []published

	err := uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		for _, m := range in.Movements {
			locked, err := productRepo.GetForUpdate(ctx, m.ProductID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrNotFound
			}
			if err := policy.Authorize(p, policy.ActionCreate, policy.Ref{
				Entity:    policy.EntityStockMovement,
				CompanyID: locked.CompanyID,
			}); err != nil {
				metrics.PolicyDenials.WithLabelValues(string(policy.EntityStockMovement), string(policy.ActionCreate)).Inc()
				return err
			}
			movement := newMovement(locked.CompanyID, p.UserID, m, &batchID)
			if err := movRepo.Create(ctx, movement); err != nil {
				return err
			}
			delta := ledger.Signed(movement)
			if err := productRepo.AdjustStock(ctx, locked.ID, delta); err != nil {
				return err
			}
			toPublish = append(toPublish, published{
				movement: movement,
				newStock: locked.CurrentStock + delta,
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
		uc.publish(pub.movement, pub.newStock, pub.reorder, pub.name)
	}
	return &dto.BulkMovementResponse{BatchID: batchID, Applied: len(toPublish)}, nil
}

// RollbackBatch elimina los movimientos de un lote y reconcilia la caché de
// cada producto afectado contra el ledger. Solo company_owner o superior.
func (uc *UseCase) RollbackBatch(ctx context.Context, p policy.Principal, batchID string) (int64, error) {
	movements, err := uc.moves.ListByBatch(ctx, batchID)
	if err != nil {
		return 0, err
	}
	if len(movements) == 0 {
		return 0, domain.ErrNotFound
	}
	if err := policy.Authorize(p, policy.ActionDelete, policy.Ref{
		Entity:    policy.EntityStockMovement,
		CompanyID: movements[0].CompanyID,
	}); err != nil {
		metrics.PolicyDenials.WithLabelValues(string(policy.EntityStockMovement), string(policy.ActionDelete)).Inc()
		return 0, err
	}

	affected := map[string]struct{}{}
	for _, m := range movements {
		affected[m.ProductID] = struct{}{}
	}

	var deleted int64
	err = uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		n, err := movRepo.DeleteBatch(ctx, batchID)
		if err != nil {
			return err
		}
		deleted = n
		for productID := range affected {
			real, err := movRepo.SumByProduct(ctx, productID)
			if err != nil {
				return err
			}
			if err := productRepo.SetStock(ctx, productID, real); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return deleted, nil
}

// History devuelve el historial de movimientos, por producto o por empresa,
// acotado al alcance del principal.
func (uc *UseCase) History(ctx context.Context, p policy.Principal, in dto.MovementHistoryRequest) (*dto.MovementListResponse, error) {
	in.DefaultPage()

	var list []*entity.StockMovement
	var err error
	if in.ProductID != "" {
		product, perr := uc.products.GetByID(ctx, in.ProductID)
		if perr != nil {
			return nil, perr
		}
		if product == nil {
			return nil, domain.ErrNotFound
		}
		if aerr := policy.Authorize(p, policy.ActionRead, policy.Ref{
			Entity:    policy.EntityStockMovement,
			CompanyID: product.CompanyID,
		}); aerr != nil {
			return nil, aerr
		}
		list, err = uc.moves.ListByProduct(ctx, in.ProductID, in.From, in.To, in.Limit, in.Offset)
	} else {
		scope := policy.Scope(p)
		companyID := scope.CompanyID
		if scope.All {
			// super_admin sin empresa propia: exige product_id o empresa explícita
			return nil, domain.ErrInvalidInput
		}
		list, err = uc.moves.ListByCompany(ctx, companyID, in.From, in.To, in.Limit, in.Offset)
	}
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovementResponse, 0, len(list))
	for _, m := range list {
		items = append(items, toMovementResponse(m))
	}
	return &dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}, nil
}

// RecomputeStock reconcilia current_stock contra el ledger (Σ in − Σ out) en
// una transacción con el producto bloqueado. Devuelve si hubo corrección.
func (uc *UseCase) RecomputeStock(ctx context.Context, p policy.Principal, productID string) (*dto.RecomputeStockResponse, error) {
	product, err := uc.products.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrNotFound
	}
	if err := policy.Authorize(p, policy.ActionUpdate, policy.Ref{
		Entity:    policy.EntityProduct,
		CompanyID: product.CompanyID,
	}); err != nil {
		return nil, err
	}

	out := &dto.RecomputeStockResponse{ProductID: productID}
	err = uc.tx.Run(ctx, func(movRepo repository.StockMovementRepository, productRepo repository.ProductRepository) error {
		locked, err := productRepo.GetForUpdate(ctx, productID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrNotFound
		}
		real, err := movRepo.SumByProduct(ctx, productID)
		if err != nil {
			return err
		}
		out.PreviousStock = locked.CurrentStock
		out.ComputedStock = real
		if locked.CurrentStock != real {
			out.Corrected = true
			return productRepo.SetStock(ctx, productID, real)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// replay recupera el movimiento ya registrado para una clave repetida.
func (uc *UseCase) replay(ctx context.Context, companyID, key string) (*dto.ApplyMovementResponse, error) {
	if key == "" {
		return nil, domain.ErrDuplicateMovement
	}
	prior, err := uc.moves.GetByIdempotencyKey(ctx, companyID, key)
	if err != nil {
		return nil, err
	}
	if prior == nil {
		return nil, domain.ErrDuplicateMovement
	}
	product, err := uc.products.GetByID(ctx, prior.ProductID)
	if err != nil {
		return nil, err
	}
	resp := &dto.ApplyMovementResponse{Movement: toMovementResponse(prior), Replayed: true}
	if product != nil {
		resp.NewStock = product.CurrentStock
	}
	return resp, nil
}

func (uc *UseCase) publish(m *entity.StockMovement, newStock, reorder int64, productName string) {
	uc.bus.PublishStockChanged(events.StockChanged{
		CompanyID:  m.CompanyID,
		ProductID:  m.ProductID,
		Type:       m.Type,
		Quantity:   m.Quantity,
		NewStock:   newStock,
		BatchID:    m.BatchID,
		OccurredAt: m.CreatedAt,
	})
	if ledger.IsLowStock(newStock, reorder) {
		uc.bus.PublishLowStock(events.LowStock{
			CompanyID:    m.CompanyID,
			ProductID:    m.ProductID,
			ProductName:  productName,
			CurrentStock: newStock,
			ReorderLevel: reorder,
			OccurredAt:   m.CreatedAt,
		})
	}
}

func newMovement(companyID, userID string, in dto.ApplyMovementRequest, batchID *string) *entity.StockMovement {
	m := &entity.StockMovement{
		ID:        uuid.New().String(),
		CompanyID: companyID,
		ProductID: in.ProductID,
		Type:      in.Type,
		Quantity:  in.Quantity,
		Notes:     in.Notes,
		UserID:    userID,
		BatchID:   batchID,
		CreatedAt: time.Now(),
	}
	if in.IdempotencyKey != "" {
		key := in.IdempotencyKey
		m.IdempotencyKey = &key
	}
	return m
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:             m.ID,
		CompanyID:      m.CompanyID,
		ProductID:      m.ProductID,
		Type:           m.Type,
		Quantity:       m.Quantity,
		Notes:          m.Notes,
		UserID:         m.UserID,
		BatchID:        m.BatchID,
		IdempotencyKey: m.IdempotencyKey,
		CreatedAt:      m.CreatedAt,
	}
}
