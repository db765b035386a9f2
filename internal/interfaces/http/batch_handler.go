package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stock-ledger/internal/application/dto"
	"github.com/jhoicas/stock-ledger/internal/application/inventory"
)

// BatchHandler recetas de producción.
type BatchHandler struct {
	uc   *inventory.BatchUseCase
	errs errorMapper
}

// NewBatchHandler construye el handler.
func NewBatchHandler(uc *inventory.BatchUseCase, errs errorMapper) *BatchHandler {
	return &BatchHandler{uc: uc, errs: errs}
}

// Save godoc
// @Summary      Crear o reemplazar receta
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                false  "ID de la receta (solo PUT)"
// @Param        body  body  dto.SaveBatchRequest  true  "name, items"
// @Success      200   {object}  dto.BatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches [post]
// @Router       /api/batches/{id} [put]
func (h *BatchHandler) Save(c *fiber.Ctx) error {
	var in dto.SaveBatchRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	status := fiber.StatusCreated
	if id := c.Params("id"); id != "" {
		in.ID = id
		status = fiber.StatusOK
	}
	out, err := h.uc.Save(c.UserContext(), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(status).JSON(out)
}

// Delete godoc
// @Summary      Eliminar receta
// @Tags         batches
// @Security     Bearer
// @Param        id  path  string  true  "ID de la receta"
// @Success      204
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [delete]
func (h *BatchHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), c.Params("id")); err != nil {
		return h.errs.write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Obtener receta
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la receta"
// @Success      200  {object}  dto.BatchResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/batches/{id} [get]
func (h *BatchHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// List godoc
// @Summary      Listar recetas
// @Tags         batches
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.BatchResponse
// @Router       /api/batches [get]
func (h *BatchHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(fiber.Map{"total": len(out), "items": out})
}

// Apply godoc
// @Summary      Aplicar receta (sin registrar)
// @Description  Devuelve las salidas propuestas qty × multiplier por material.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                 true  "ID de la receta"
// @Param        body  body  dto.ApplyBatchRequest  true  "multiplier, tolerant"
// @Success      200   {object}  dto.ApplyBatchResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/apply [post]
func (h *BatchHandler) Apply(c *fiber.Ctx) error {
	var in dto.ApplyBatchRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.Apply(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.JSON(out)
}

// Consume godoc
// @Summary      Consumir receta
// @Description  Aplica la receta y registra las salidas como una carga masiva de materias primas.
// @Tags         batches
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key  header  string  false  "Referencia de operación"
// @Param        id    path  string                   true  "ID de la receta"
// @Param        body  body  dto.ConsumeBatchRequest  true  "multiplier, date"
// @Success      201   {object}  dto.BulkSubmitResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/batches/{id}/consume [post]
func (h *BatchHandler) Consume(c *fiber.Ctx) error {
	var in dto.ConsumeBatchRequest
	if err := parseBody(c, &in); err != nil {
		return h.errs.write(c, err)
	}
	out, err := h.uc.Consume(opContext(c), GetActor(c), c.Params("id"), in)
	if err != nil {
		return h.errs.write(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}
