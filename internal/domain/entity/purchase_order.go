package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de una orden de compra. received y cancelled son terminales.
const (
	POStatusPending   = "pending"
	POStatusApproved  = "approved"
	POStatusSent      = "sent"
	POStatusReceived  = "received"
	POStatusCancelled = "cancelled"
)

// PurchaseOrder representa una orden de compra a un proveedor.
// PONumber lo genera una secuencia global y nunca se reasigna.
// TotalAmount es un snapshot calculado al crear (suma de TotalPrice de los items);
// no se recalcula si los items cambian después.
type PurchaseOrder struct {
	ID               string
	CompanyID        string
	PONumber         string
	SupplierID       string
	UserID           string
	Status           string // ver constantes POStatus*
	TotalAmount      decimal.Decimal
	ExpectedDelivery *time.Time
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PurchaseOrderItem línea de una orden de compra. TotalPrice = Quantity × UnitPrice.
type PurchaseOrderItem struct {
	ID              string
	PurchaseOrderID string
	ProductID       string
	Quantity        int64
	UnitPrice       decimal.Decimal
	TotalPrice      decimal.Decimal
	CreatedAt       time.Time
}

// CanTransition indica si la orden puede pasar del estado actual a newStatus.
// pending→approved|cancelled, approved→sent|cancelled, sent→received|cancelled.
func (po *PurchaseOrder) CanTransition(newStatus string) bool {
	switch po.Status {
	case POStatusPending:
		return newStatus == POStatusApproved || newStatus == POStatusCancelled
	case POStatusApproved:
		return newStatus == POStatusSent || newStatus == POStatusCancelled
	case POStatusSent:
		return newStatus == POStatusReceived || newStatus == POStatusCancelled
	default:
		return false
	}
}
