package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-billing/internal/application/dto"
	"github.com/jhoicas/restaurant-billing/internal/application/history"
	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/domain/repository"
)

// BillHandler consulta de cuentas guardadas y descarga de facturas.
type BillHandler struct {
	history *history.HistoryUseCase
	export  *invoice.ExportUseCase
}

// NewBillHandler construye el handler.
func NewBillHandler(h *history.HistoryUseCase, export *invoice.ExportUseCase) *BillHandler {
	return &BillHandler{history: h, export: export}
}

// Search godoc
// @Summary      Buscar cuentas por fecha
// @Description  Rango semiabierto [from, to). Acepta RFC3339 o YYYY-MM-DD; un to con solo fecha incluye ese día.
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde"
// @Param        to    query  string  false  "Hasta (excluido)"
// @Success      200   {object}  dto.BillListResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/bills [get]
func (h *BillHandler) Search(c *fiber.Ctx) error {
	from, to, err := history.ParseRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return writeError(c, err)
	}
	out, err := h.history.Search(c.UserContext(), from, to)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Recent godoc
// @Summary      Historial de cuentas
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        limit  query  int  false  "Máximo de cuentas (default 50)"
// @Success      200    {object}  dto.BillListResponse
// @Router       /api/bills/recent [get]
func (h *BillHandler) Recent(c *fiber.Ctx) error {
	var q dto.RecentRequest
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit inválido"})
	}
	q.DefaultLimit(repository.DefaultRecentLimit)
	out, err := h.history.Recent(c.UserContext(), q.Limit)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener cuenta por ID
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la cuenta"
// @Success      200  {object}  dto.BillResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/bills/{id} [get]
func (h *BillHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.history.GetByID(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByNumber godoc
// @Summary      Obtener cuenta por número
// @Tags         bills
// @Security     Bearer
// @Produce      json
// @Param        number  path  string  true  "Número de cuenta (6 dígitos)"
// @Success      200     {object}  dto.BillResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/bills/number/{number} [get]
func (h *BillHandler) GetByNumber(c *fiber.Ctx) error {
	out, err := h.history.GetByNumber(c.UserContext(), c.Params("number"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Invoice godoc
// @Summary      Descargar factura
// @Tags         bills
// @Security     Bearer
// @Produce      application/pdf
// @Produce      plain
// @Produce      xml
// @Param        id      path   string  true   "ID de la cuenta"
// @Param        format  query  string  false  "pdf (default), text o xml"
// @Success      200     {file}    binary
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/bills/{id}/invoice [get]
func (h *BillHandler) Invoice(c *fiber.Ctx) error {
	doc, err := h.export.Export(c.UserContext(), c.Params("id"), c.Query("format"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+doc.Filename+`"`)
	return c.Send(doc.Content)
}
