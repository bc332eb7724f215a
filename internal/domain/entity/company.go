package entity

import "time"

// Planes de suscripción disponibles (deben coincidir con el CHECK de la tabla companies).
const (
	PlanFree       = "free"
	PlanPremium    = "premium"
	PlanEnterprise = "enterprise"
)

// Company representa una organización/tenant del sistema. Es la raíz del agregado:
// todo Department, Profile, Product, Supplier y PurchaseOrder pertenece a exactamente una.
type Company struct {
	ID               string
	Name             string
	Industry         string
	Address          string
	Phone            string
	Email            string
	Website          string
	SubscriptionPlan string // ver constantes Plan*
	MaxUsers         int
	IsActive         bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
