package entity

import "time"

// Profile representa un usuario del sistema (principal del motor de autorización).
// CompanyID es nil solo para super_admin; cualquier otro rol exige empresa asignada.
type Profile struct {
	ID           string
	Email        string
	FullName     string
	PasswordHash string  // bcrypt hash, nunca plano en dominio después de persistir
	Role         string  // ver policy.Role; persistido como texto con CHECK en DB
	CompanyID    *string // nil solo pre-asignación / super_admin
	DepartmentID *string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
