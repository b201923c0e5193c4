package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/restaurant-billing/internal/application/auth"
	"github.com/jhoicas/restaurant-billing/internal/application/checkout"
	"github.com/jhoicas/restaurant-billing/internal/application/history"
	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/application/menu"
	"github.com/jhoicas/restaurant-billing/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	MenuUC    *menu.MenuUseCase
	Checkout  *checkout.Service
	HistoryUC *history.HistoryUseCase
	ExportUC  *invoice.ExportUseCase
	AuthUC    *auth.AuthUseCase
	JWTSecret string
	// Metrics handler de /metrics (opcional).
	Metrics fiber.Handler
}

// Router registra las rutas de la API.
// Sin JWTSecret las rutas quedan abiertas (mostrador local sin login).
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Get("/metrics", deps.Metrics)
	}

	api := app.Group("/api")

	// Auth (público)
	authHandler := NewAuthHandler(deps.AuthUC)
	api.Post("/auth/login", authHandler.Login)

	secured := deps.JWTSecret != ""
	guard := func(roles ...string) []fiber.Handler {
		if !secured {
			return nil
		}
		return []fiber.Handler{RequireRole(roles...)}
	}

	// Rutas protegidas (requieren Bearer Token si hay secret)
	protected := api.Group("/")
	if secured {
		protected = api.Group("/", AuthMiddleware(deps.JWTSecret))
	}
	staff := guard(entity.RoleAdmin, entity.RoleCashier)
	admin := guard(entity.RoleAdmin)

	// Menú: lectura para todo el personal, cambios solo admin
	menuGroup := protected.Group("/menu")
	menuHandler := NewMenuHandler(deps.MenuUC)
	menuGroup.Get("/", with(staff, menuHandler.List)...)
	menuGroup.Get("/:name", with(staff, menuHandler.Get)...)
	menuGroup.Post("/", with(admin, menuHandler.Create)...)
	menuGroup.Put("/:name", with(admin, menuHandler.Update)...)
	menuGroup.Delete("/:name", with(admin, menuHandler.Delete)...)

	// Cuentas abiertas
	drafts := protected.Group("/drafts")
	draftHandler := NewDraftHandler(deps.Checkout)
	drafts.Post("/", with(staff, draftHandler.Open)...)
	drafts.Get("/:id", with(staff, draftHandler.Get)...)
	drafts.Delete("/:id", with(staff, draftHandler.Discard)...)
	drafts.Post("/:id/lines", with(staff, draftHandler.AddLine)...)
	drafts.Delete("/:id/lines", with(staff, draftHandler.Clear)...)
	drafts.Delete("/:id/lines/:name", with(staff, draftHandler.RemoveLine)...)
	drafts.Post("/:id/checkout", with(staff, draftHandler.Checkout)...)

	// Cuentas guardadas (rutas fijas antes de /:id)
	bills := protected.Group("/bills")
	billHandler := NewBillHandler(deps.HistoryUC, deps.ExportUC)
	bills.Get("/", with(staff, billHandler.Search)...)
	bills.Get("/recent", with(staff, billHandler.Recent)...)
	bills.Get("/number/:number", with(staff, billHandler.GetByNumber)...)
	bills.Get("/:id", with(staff, billHandler.GetByID)...)
	bills.Get("/:id/invoice", with(staff, billHandler.Invoice)...)
}

func with(mw []fiber.Handler, h fiber.Handler) []fiber.Handler {
	return append(append([]fiber.Handler{}, mw...), h)
}
