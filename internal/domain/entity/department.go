package entity

import "time"

// Department representa una subdivisión de una Company.
// Invariante: Department.CompanyID debe coincidir con el CompanyID de cualquier
// Profile que lo referencie (validado en los casos de uso de perfiles e invitaciones).
type Department struct {
	ID           string
	CompanyID    string
	Name         string
	Description  string
	IsPredefined bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
