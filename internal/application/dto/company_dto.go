package dto

import "time"

// CreateCompanyRequest alta de empresa (solo super_admin).
type CreateCompanyRequest struct {
	Name             string `json:"name" validate:"required,min=2,max=120"`
	Industry         string `json:"industry" validate:"omitempty,max=80"`
	Address          string `json:"address" validate:"omitempty,max=200"`
	Phone            string `json:"phone" validate:"omitempty,max=30"`
	Email            string `json:"email" validate:"omitempty,email"`
	Website          string `json:"website" validate:"omitempty,url"`
	SubscriptionPlan string `json:"subscription_plan" validate:"omitempty,oneof=free premium enterprise"`
	MaxUsers         int    `json:"max_users" validate:"omitempty,min=1"`
}

// UpdateCompanyRequest edición parcial de empresa.
type UpdateCompanyRequest struct {
	Name             *string `json:"name" validate:"omitempty,min=2,max=120"`
	Industry         *string `json:"industry" validate:"omitempty,max=80"`
	Address          *string `json:"address" validate:"omitempty,max=200"`
	Phone            *string `json:"phone" validate:"omitempty,max=30"`
	Email            *string `json:"email" validate:"omitempty,email"`
	Website          *string `json:"website" validate:"omitempty,url"`
	SubscriptionPlan *string `json:"subscription_plan" validate:"omitempty,oneof=free premium enterprise"`
	MaxUsers         *int    `json:"max_users" validate:"omitempty,min=1"`
}

// CompanyResponse representación pública de una empresa.
type CompanyResponse struct {
	ID               string    `json:"id"`
	Name             string    `json:"name"`
	Industry         string    `json:"industry,omitempty"`
	Address          string    `json:"address,omitempty"`
	Phone            string    `json:"phone,omitempty"`
	Email            string    `json:"email,omitempty"`
	Website          string    `json:"website,omitempty"`
	SubscriptionPlan string    `json:"subscription_plan"`
	MaxUsers         int       `json:"max_users"`
	IsActive         bool      `json:"is_active"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CompanyListResponse listado paginado de empresas.
type CompanyListResponse struct {
	Items []CompanyResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
