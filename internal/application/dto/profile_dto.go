package dto

import "time"

// UpdateProfileRequest edición parcial de un perfil. El cambio de rol pasa por
// las reglas de no-elevación antes de persistirse.
type UpdateProfileRequest struct {
	FullName     *string `json:"full_name" validate:"omitempty,min=2,max=120"`
	Role         *string `json:"role" validate:"omitempty,oneof=super_admin company_owner department_manager staff"`
	DepartmentID *string `json:"department_id" validate:"omitempty,uuid4"`
	IsActive     *bool   `json:"is_active"`
}

// ProfileResponse representación pública de un perfil. Nunca incluye el hash.
type ProfileResponse struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CompanyID    *string   `json:"company_id,omitempty"`
	DepartmentID *string   `json:"department_id,omitempty"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfileListResponse listado paginado de perfiles.
type ProfileListResponse struct {
	Items []ProfileResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
