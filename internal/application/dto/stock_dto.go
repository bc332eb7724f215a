package dto

import "time"

// ApplyMovementRequest registro de un movimiento de inventario.
// IdempotencyKey es opcional: un reintento con la misma clave es un no-op.
type ApplyMovementRequest struct {
	ProductID      string `json:"product_id" validate:"required,uuid4"`
	Type           string `json:"type" validate:"required,oneof=in out"`
	Quantity       int64  `json:"quantity" validate:"required,min=1"`
	Notes          string `json:"notes" validate:"omitempty,max=500"`
	IdempotencyKey string `json:"idempotency_key" validate:"omitempty,max=128"`
}

// BulkMovementRequest lote de movimientos todo-o-nada.
type BulkMovementRequest struct {
	Movements []ApplyMovementRequest `json:"movements" validate:"required,min=1,max=500,dive"`
}

// MovementResponse movimiento registrado.
type MovementResponse struct {
	ID             string    `json:"id"`
	CompanyID      string    `json:"company_id"`
	ProductID      string    `json:"product_id"`
	Type           string    `json:"type"`
	Quantity       int64     `json:"quantity"`
	Notes          string    `json:"notes,omitempty"`
	UserID         string    `json:"user_id"`
	BatchID        *string   `json:"batch_id,omitempty"`
	IdempotencyKey *string   `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// ApplyMovementResponse resultado de un registro individual.
// Replayed=true indica que la clave de idempotencia ya existía y no se insertó nada.
type ApplyMovementResponse struct {
	Movement MovementResponse `json:"movement"`
	NewStock int64            `json:"new_stock"`
	Replayed bool             `json:"replayed"`
}

// BulkMovementResponse resultado de un lote.
type BulkMovementResponse struct {
	BatchID string `json:"batch_id"`
	Applied int    `json:"applied"`
}

// MovementHistoryRequest filtros del historial.
type MovementHistoryRequest struct {
	PageRequest
	ProductID string     `query:"product_id" validate:"omitempty,uuid4"`
	From      *time.Time `query:"from"`
	To        *time.Time `query:"to"`
}

// MovementListResponse historial paginado.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// RecomputeStockResponse resultado de la reconciliación caché↔ledger.
type RecomputeStockResponse struct {
	ProductID     string `json:"product_id"`
	PreviousStock int64  `json:"previous_stock"`
	ComputedStock int64  `json:"computed_stock"`
	Corrected     bool   `json:"corrected"`
}
