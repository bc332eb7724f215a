package dto

import "time"

// CreateDepartmentRequest alta de departamento.
type CreateDepartmentRequest struct {
	Name        string `json:"name" validate:"required,min=2,max=120"`
	Description string `json:"description" validate:"omitempty,max=300"`
}

// UpdateDepartmentRequest edición parcial de departamento.
type UpdateDepartmentRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=2,max=120"`
	Description *string `json:"description" validate:"omitempty,max=300"`
}

// DepartmentResponse representación pública de un departamento.
type DepartmentResponse struct {
	ID           string    `json:"id"`
	CompanyID    string    `json:"company_id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	IsPredefined bool      `json:"is_predefined"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
