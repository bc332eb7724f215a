package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/usecase"
)

// ProfileHandler maneja las peticiones HTTP para Profile (protegido).
type ProfileHandler struct {
	uc *usecase.ProfileUseCase
}

// NewProfileHandler construye el handler.
func NewProfileHandler(uc *usecase.ProfileUseCase) *ProfileHandler {
	return &ProfileHandler{uc: uc}
}

// Me godoc
// @Summary      Perfil del usuario autenticado
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProfileResponse
// @Router       /api/profiles/me [get]
func (h *ProfileHandler) Me(c *fiber.Ctx) error {
	p := GetPrincipal(c)
	out, err := h.uc.GetByID(c.Context(), p, p.UserID)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener perfil por ID
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID del perfil"
// @Success      200  {object}  dto.ProfileResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [get]
func (h *ProfileHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.Context(), GetPrincipal(c), c.Params("id"))
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}

// Update godoc
// @Summary      Actualizar perfil (incluye cambio de rol con reglas de no-elevación)
// @Tags         profiles
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del perfil"
// @Param        body  body  dto.UpdateProfileRequest  true  "Datos a actualizar"
// @Success      200   {object}  dto.ProfileResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Router       /api/profiles/{id} [put]
func (h *ProfileHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateProfileRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Update(c.Context(), GetPrincipal(c), c.Params("id"), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar perfiles de la empresa
// @Tags         profiles
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ProfileListResponse
// @Router       /api/profiles [get]
func (h *ProfileHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.ListByCompany(c.Context(), GetPrincipal(c), page)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}
