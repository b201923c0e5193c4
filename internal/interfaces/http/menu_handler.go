package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/application/menu"
)

// MenuHandler maneja el catálogo del menú.
type MenuHandler struct {
	uc *menu.MenuUseCase
}

// NewMenuHandler construye el handler.
func NewMenuHandler(uc *menu.MenuUseCase) *MenuHandler {
	return &MenuHandler{uc: uc}
}

// List godoc
// @Summary      Listar el menú
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.MenuItemResponse
// @Router       /api/menu [get]
func (h *MenuHandler) List(c *fiber.Ctx) error {
	return c.JSON(h.uc.List())
}

// Get godoc
// @Summary      Obtener ítem por nombre o código
// @Tags         menu
// @Security     Bearer
// @Produce      json
// @Param        name  path  string  true  "Nombre o código del ítem"
// @Success      200   {object}  dto.MenuItemResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu/{name} [get]
func (h *MenuHandler) Get(c *fiber.Ctx) error {
	out, err := h.uc.Get(pathParam(c, "name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Create godoc
// @Summary      Agregar ítem al menú
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateMenuItemRequest  true  "Datos del ítem"
// @Success      201   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/menu [post]
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Update godoc
// @Summary      Actualizar precio, categoría o código
// @Tags         menu
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        name  path  string                     true  "Nombre del ítem"
// @Param        body  body  dto.UpdateMenuItemRequest  true  "Campos a cambiar"
// @Success      200   {object}  dto.MenuItemResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu/{name} [put]
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	var in dto.UpdateMenuItemRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(c.UserContext(), pathParam(c, "name"), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Quitar ítem del menú
// @Tags         menu
// @Security     Bearer
// @Param        name  path  string  true  "Nombre del ítem"
// @Success      204
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/menu/{name} [delete]
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.UserContext(), pathParam(c, "name")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
