package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/auth"
	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/invite"
)

// AuthHandler maneja login, registro y aceptación de invitaciones (público).
type AuthHandler struct {
	authUC   *auth.UseCase
	inviteUC *invite.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(authUC *auth.UseCase, inviteUC *invite.UseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC, inviteUC: inviteUC}
}

// Login godoc
// @Summary      Iniciar sesión
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.LoginRequest  true  "Credenciales"
// @Success      200   {object}  dto.LoginResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.authUC.Login(c.Context(), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}

// Register godoc
// @Summary      Registrar empresa con su primer usuario (company_owner)
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterRequest  true  "Datos de registro"
// @Success      201   {object}  dto.LoginResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.authUC.Register(c.Context(), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// AcceptInvite godoc
// @Summary      Aceptar una invitación y crear el perfil
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body  dto.AcceptInviteRequest  true  "Token y datos del usuario"
// @Success      201   {object}  dto.ProfileResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      410   {object}  dto.ErrorResponse
// @Router       /api/auth/accept-invite [post]
func (h *AuthHandler) AcceptInvite(c *fiber.Ctx) error {
	var in dto.AcceptInviteRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.inviteUC.Accept(c.Context(), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
