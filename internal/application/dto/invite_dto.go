package dto

import "time"

// CreateInviteRequest emisión de una invitación. El rol invitable depende del
// rol del emisor (CanInvite).
type CreateInviteRequest struct {
	Email        string  `json:"email" validate:"required,email"`
	Role         string  `json:"role" validate:"required,oneof=super_admin company_owner department_manager staff"`
	CompanyID    *string `json:"company_id" validate:"omitempty,uuid4"` // solo super_admin; el resto hereda la propia
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
}

// InviteResponse representación pública de una invitación. El token solo se
// devuelve al crearla; los listados lo omiten.
type InviteResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CompanyID    *string   `json:"company_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	Token        string    `json:"token,omitempty"`
	Status       string    `json:"status"`
	InvitedBy    string    `json:"invited_by"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

// InviteListResponse listado paginado de invitaciones.
type InviteListResponse struct {
	Items []InviteResponse `json:"items"`
	Page  PageResponse     `json:"page"`
}
