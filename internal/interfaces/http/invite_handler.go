package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/dto"
	"github.com/jhoicas/stocklane-api/internal/application/invite"
)

// InviteHandler maneja la emisión y el listado de invitaciones (protegido).
// La aceptación es pública y vive en AuthHandler.
type InviteHandler struct {
	uc *invite.UseCase
}

// NewInviteHandler construye el handler.
func NewInviteHandler(uc *invite.UseCase) *InviteHandler {
	return &InviteHandler{uc: uc}
}

// Create godoc
// @Summary      Emitir una invitación (rol invitable según el rol del emisor)
// @Tags         invites
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInviteRequest  true  "Invitación"
// @Success      201   {object}  dto.InviteResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invites [post]
func (h *InviteHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInviteRequest
	if !parseAndValidate(c, &in) {
		return nil
	}
	out, err := h.uc.Create(c.Context(), GetPrincipal(c), in)
	if err != nil {
		return respondError(c, err, false)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar invitaciones de la empresa
// @Tags         invites
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.InviteListResponse
// @Router       /api/invites [get]
func (h *InviteHandler) List(c *fiber.Ctx) error {
	page := dto.PageRequest{Limit: c.QueryInt("limit", 20), Offset: c.QueryInt("offset", 0)}
	out, err := h.uc.List(c.Context(), GetPrincipal(c), page)
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}
