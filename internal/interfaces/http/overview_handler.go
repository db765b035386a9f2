package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// OverviewHandler resumen por rango de fechas.
type OverviewHandler struct {
	uc   *inventory.OverviewUseCase
	errs errorMapper
}

// NewOverviewHandler construye el handler.
func NewOverviewHandler(uc *inventory.OverviewUseCase, errs errorMapper) *OverviewHandler {
	return &OverviewHandler{uc: uc, errs: errs}
}

// Summarize godoc
// @Summary      Resumen de movimientos
// @Tags         overview
// @Security     Bearer
// @Produce      json
// @Param        start  query  string  true  "YYYY-MM-DD"
// @Param        end    query  string  true  "YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.OverviewResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/overview [get]
func (h *OverviewHandler) Summarize(c *fiber.Ctx) error {
	out, err := h.uc.Summarize(c.UserContext(), c.Query("start"), c.Query("end"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}
