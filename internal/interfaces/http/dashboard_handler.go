package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stocklane-api/internal/application/analytics"
)

// DashboardHandler expone las métricas agregadas de la empresa.
type DashboardHandler struct {
	uc *analytics.DashboardUseCase
}

// NewDashboardHandler construye el handler.
func NewDashboardHandler(uc *analytics.DashboardUseCase) *DashboardHandler {
	return &DashboardHandler{uc: uc}
}

// Stats godoc
// @Summary      Métricas del dashboard de la empresa
// @Tags         dashboard
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.DashboardResponse
// @Router       /api/dashboard [get]
func (h *DashboardHandler) Stats(c *fiber.Ctx) error {
	out, err := h.uc.Stats(c.Context(), GetPrincipal(c))
	if err != nil {
		return respondError(c, err, true)
	}
	return c.JSON(out)
}
