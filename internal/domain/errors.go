package domain

import "errors"

// Errores de dominio (sin dependencias externas).
// ErrForbidden y ErrNotFound son distinguibles a propósito: una denegación de
// política nunca debe confundirse con un recurso inexistente, salvo en lecturas
// cross-tenant donde la capa HTTP puede responder 404 para no enumerar tenants.
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")
	ErrConflict           = errors.New("conflicto con el estado actual")
	ErrInviteUsed         = errors.New("la invitación ya fue utilizada")
	ErrInviteExpired      = errors.New("la invitación expiró")
	ErrDuplicateMovement  = errors.New("movimiento ya registrado (idempotency key repetida)")
)
