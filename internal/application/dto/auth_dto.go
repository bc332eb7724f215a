package dto

// LoginRequest credenciales de inicio de sesión.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginResponse token emitido y perfil del usuario autenticado.
type LoginResponse struct {
	Token   string          `json:"token"`
	Profile ProfileResponse `json:"profile"`
}

// RegisterRequest alta de empresa con su primer usuario (company_owner).
type RegisterRequest struct {
	CompanyName string `json:"company_name" validate:"required,min=2,max=120"`
	Industry    string `json:"industry" validate:"omitempty,max=80"`
	FullName    string `json:"full_name" validate:"required,min=2,max=120"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
}

// AcceptInviteRequest aceptación de una invitación pendiente.
type AcceptInviteRequest struct {
	Token    string `json:"token" validate:"required"`
	FullName string `json:"full_name" validate:"required,min=2,max=120"`
	Password string `json:"password" validate:"required,min=8"`
}
