package entity

import "time"

// Estados de una invitación. La transición pending→accepted ocurre exactamente
// una vez y nunca se revierte.
const (
	InviteStatusPending  = "pending"
	InviteStatusAccepted = "accepted"
)

// Invite vincula un email a una asignación pendiente de rol/empresa/departamento.
// Token es opaco e inadivinable (crypto/rand); de un solo uso.
type Invite struct {
	ID           string
	Email        string
	Role         string
	CompanyID    *string
	DepartmentID *string
	Token        string
	Status       string
	InvitedBy    string
	ExpiresAt    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Expired indica si la invitación ya venció (7 días desde la creación por defecto).
func (i *Invite) Expired(now time.Time) bool {
	return now.After(i.ExpiresAt)
}
