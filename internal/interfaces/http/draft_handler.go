package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-billing/internal/application/checkout"
	"github.com/jhoicas/restaurant-billing/internal/application/dto"
)

// DraftHandler maneja las cuentas abiertas del mostrador.
type DraftHandler struct {
	svc *checkout.Service
}

// NewDraftHandler construye el handler.
func NewDraftHandler(svc *checkout.Service) *DraftHandler {
	return &DraftHandler{svc: svc}
}

// Open godoc
// @Summary      Abrir una cuenta
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Success      201  {object}  dto.DraftResponse
// @Router       /api/drafts [post]
func (h *DraftHandler) Open(c *fiber.Ctx) error {
	return c.Status(fiber.StatusCreated).JSON(h.svc.Open())
}

// Get godoc
// @Summary      Líneas y totales de la cuenta abierta
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta abierta"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [get]
func (h *DraftHandler) Get(c *fiber.Ctx) error {
	out, err := h.svc.Summary(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// AddLine godoc
// @Summary      Agregar ítem a la cuenta
// @Description  Si el ítem ya está en la cuenta se suma la cantidad.
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string              true  "ID de la cuenta abierta"
// @Param        body  body  dto.AddLineRequest  true  "Ítem y cantidad"
// @Success      200   {object}  dto.DraftResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines [post]
func (h *DraftHandler) AddLine(c *fiber.Ctx) error {
	var in dto.AddLineRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.svc.AddLine(c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// RemoveLine godoc
// @Summary      Quitar un ítem de la cuenta
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id    path  string  true  "ID de la cuenta abierta"
// @Param        name  path  string  true  "Nombre del ítem"
// @Success      200   {object}  dto.DraftResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines/{name} [delete]
func (h *DraftHandler) RemoveLine(c *fiber.Ctx) error {
	out, err := h.svc.RemoveLine(c.Params("id"), pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Clear godoc
// @Summary      Vaciar la cuenta
// @Tags         drafts
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta abierta"
// @Success      200  {object}  dto.DraftResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/lines [delete]
func (h *DraftHandler) Clear(c *fiber.Ctx) error {
	out, err := h.svc.Clear(c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Discard godoc
// @Summary      Descartar la cuenta sin guardarla
// @Tags         drafts
// @Security     Bearer
// @Param        id   path  string  true  "ID de la cuenta abierta"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/drafts/{id} [delete]
func (h *DraftHandler) Discard(c *fiber.Ctx) error {
	if err := h.svc.Discard(c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Checkout godoc
// @Summary      Cerrar y guardar la cuenta
// @Tags         drafts
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string               true   "ID de la cuenta abierta"
// @Param        body  body  dto.CheckoutRequest  false  "Datos del cliente"
// @Success      201   {object}  dto.BillResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/drafts/{id}/checkout [post]
func (h *DraftHandler) Checkout(c *fiber.Ctx) error {
	var in dto.CheckoutRequest
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&in); err != nil {
			return badBody(c)
		}
	}
	bill, err := h.svc.Checkout(c.UserContext(), c.Params("id"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromBill(bill))
}
