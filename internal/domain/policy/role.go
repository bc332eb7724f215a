package policy

import (
	"fmt"

	"github.com/jhoicas/stocklane-api/internal/domain"
)

// Role es el conjunto cerrado de roles del sistema. Cualquier string fuera de
// las cuatro constantes es rechazado por ParseRole; el resto del motor puede
// asumir un Role válido.
type Role string

const (
	RoleSuperAdmin        Role = "super_admin"
	RoleCompanyOwner      Role = "company_owner"
	RoleDepartmentManager Role = "department_manager"
	RoleStaff             Role = "staff"
)

// ParseRole convierte un string persistido/recibido en Role, o falla.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleCompanyOwner, RoleDepartmentManager, RoleStaff:
		return Role(s), nil
	}
	return "", fmt.Errorf("rol desconocido %q: %w", s, domain.ErrInvalidInput)
}

// Valid indica si el rol es una de las cuatro constantes.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// String implementa fmt.Stringer.
func (r Role) String() string { return string(r) }

// CanModify indica si el rol puede ejecutar operaciones de escritura de
// inventario a nivel de UI (alta de productos, operaciones masivas, CSV).
func CanModify(r Role) bool {
	switch r {
	case RoleSuperAdmin, RoleCompanyOwner, RoleDepartmentManager:
		return true
	case RoleStaff:
		return false
	}
	return false
}
