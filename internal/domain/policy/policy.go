// Package policy implementa el motor de autorización multi-tenant:
// dado un Principal (rol + empresa + departamento) y una acción sobre una
// entidad, decide ALLOW/DENY y calcula el filtro de filas para listados.
// No consulta ninguna fuente externa: es lógica pura y testeable en aislamiento.
package policy

import "github.com/jhoicas/stocklane-api/internal/domain"

// Action acciones evaluables por el motor.
type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Entity tipos de entidad sobre los que se decide.
type Entity string

const (
	EntityCompany       Entity = "company"
	EntityDepartment    Entity = "department"
	EntityProfile       Entity = "profile"
	EntityProduct       Entity = "product"
	EntitySupplier      Entity = "supplier"
	EntityStockMovement Entity = "stock_movement"
	EntitySupplierQuote Entity = "supplier_quote"
	EntityPurchaseOrder Entity = "purchase_order"
	EntityInvite        Entity = "invite"
)

// Principal es el actor autenticado. Se pasa explícito en cada llamada;
// no existe estado de sesión ambiente.
type Principal struct {
	UserID       string
	Role         Role
	CompanyID    string // vacío solo para super_admin
	DepartmentID string // vacío si no tiene departamento
}

// Ref identifica la instancia objetivo de una acción. Para create, CompanyID es
// la empresa en la que se quiere crear; para update/delete, la de la fila real
// (nunca la que diga el cliente).
type Ref struct {
	Entity    Entity
	CompanyID string // vacío solo para entidades globales (Company vista por super_admin)
	OwnerID   string // id del Profile dueño de la fila, si aplica (reglas de auto-edición)
}

// Filter es el recorte de filas que debe aplicarse a cualquier listado.
// All=true solo para super_admin; en otro caso CompanyID es obligatorio.
type Filter struct {
	All       bool
	CompanyID string
}

// Scope devuelve el filtro de listado del principal. Nunca confía en un
// company_id aportado por el cliente.
func Scope(p Principal) Filter {
	if p.Role == RoleSuperAdmin {
		return Filter{All: true}
	}
	return Filter{CompanyID: p.CompanyID}
}

// Authorize evalúa la tabla de capacidades en orden de precedencia
// super_admin → company_owner → department_manager → staff.
// Devuelve nil (ALLOW) o domain.ErrForbidden (DENY). El switch sobre Role es
// exhaustivo: un rol fuera del conjunto cerrado deniega siempre.
func Authorize(p Principal, a Action, ref Ref) error {
	switch p.Role {
	case RoleSuperAdmin:
		return nil

	case RoleCompanyOwner:
		// Todo dentro de su empresa; cruzar el límite del tenant se niega
		// incondicionalmente, lecturas incluidas.
		if !sameCompany(p, ref) {
			return domain.ErrForbidden
		}
		return nil

	case RoleDepartmentManager:
		if !sameCompany(p, ref) {
			return domain.ErrForbidden
		}
		switch ref.Entity {
		case EntityProduct, EntitySupplier, EntityStockMovement, EntityPurchaseOrder, EntitySupplierQuote:
			if a == ActionDelete {
				return domain.ErrForbidden
			}
			return nil
		case EntityProfile, EntityDepartment:
			// update dentro de la empresa; la no-elevación de roles la valida
			// CanChangeRole. delete de Company/Department denegado.
			if a == ActionRead || a == ActionUpdate {
				return nil
			}
			if ref.Entity == EntityDepartment && a == ActionCreate {
				return nil
			}
			return domain.ErrForbidden
		case EntityCompany:
			if a == ActionRead {
				return nil
			}
			return domain.ErrForbidden
		case EntityInvite:
			// el rol invitable lo restringe CanInvite
			if a == ActionRead || a == ActionCreate {
				return nil
			}
			return domain.ErrForbidden
		}
		return domain.ErrForbidden

	case RoleStaff:
		if !sameCompany(p, ref) {
			return domain.ErrForbidden
		}
		switch ref.Entity {
		case EntityStockMovement:
			// staff registra movimientos; es su única escritura permitida
			if a == ActionRead || a == ActionCreate {
				return nil
			}
			return domain.ErrForbidden
		case EntityProduct, EntitySupplier, EntityPurchaseOrder, EntitySupplierQuote,
			EntityCompany, EntityDepartment, EntityProfile:
			if a == ActionRead {
				return nil
			}
			return domain.ErrForbidden
		}
		return domain.ErrForbidden
	}
	return domain.ErrForbidden
}

// CanInvite decide si el principal puede emitir una invitación con el rol dado.
// Solo super_admin o company_owner pueden invitar company_owner o superior;
// department_manager solo staff o department_manager dentro de su empresa.
func CanInvite(p Principal, invited Role) bool {
	if !invited.Valid() {
		return false
	}
	switch p.Role {
	case RoleSuperAdmin:
		return true
	case RoleCompanyOwner:
		return invited != RoleSuperAdmin
	case RoleDepartmentManager:
		return invited == RoleStaff || invited == RoleDepartmentManager
	}
	return false
}

// CanChangeRole valida un cambio de rol sobre un perfil.
// Reglas: nadie edita el rol de su propia fila (previene auto-escalación,
// incluido super_admin); department_manager nunca eleva a company_owner ni
// super_admin; company_owner no asigna super_admin; staff no cambia roles.
func CanChangeRole(p Principal, targetProfileID string, from, to Role) error {
	if from == to {
		return nil
	}
	if targetProfileID == p.UserID {
		return domain.ErrForbidden
	}
	switch p.Role {
	case RoleSuperAdmin:
		return nil
	case RoleCompanyOwner:
		if to == RoleSuperAdmin {
			return domain.ErrForbidden
		}
		return nil
	case RoleDepartmentManager:
		if to == RoleCompanyOwner || to == RoleSuperAdmin {
			return domain.ErrForbidden
		}
		return nil
	}
	return domain.ErrForbidden
}

// sameCompany: el principal opera dentro de su propio tenant. Un principal sin
// empresa asignada (distinto de super_admin) no tiene acceso a nada.
func sameCompany(p Principal, ref Ref) bool {
	return p.CompanyID != "" && p.CompanyID == ref.CompanyID
}
