package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/restaurant-billing/docs"
	"github.com/jhoicas/restaurant-billing/internal/application/auth"
	"github.com/jhoicas/restaurant-billing/internal/application/checkout"
	"github.com/jhoicas/restaurant-billing/internal/application/history"
	"github.com/jhoicas/restaurant-billing/internal/application/invoice"
	"github.com/jhoicas/restaurant-billing/internal/application/menu"
	"github.com/jhoicas/restaurant-billing/internal/domain/billing"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/metrics"
	infrapdf "github.com/jhoicas/restaurant-billing/internal/infrastructure/pdf"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/store"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/textinvoice"
	"github.com/jhoicas/restaurant-billing/internal/infrastructure/xmlinvoice"
	httpRouter "github.com/jhoicas/restaurant-billing/internal/interfaces/http"
	"github.com/jhoicas/restaurant-billing/pkg/config"
	"github.com/jhoicas/restaurant-billing/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

// @title                       Restaurant Billing API
// @version                     1.0
// @description                 API de facturación del restaurante: menú, cuentas abiertas, cuentas guardadas y facturas.
// @BasePath                    /
// @securityDefinitions.apikey  Bearer
// @in                          header
// @name                        Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.Store.Driver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	stores, err := store.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("abrir almacenamiento")
	}
	defer stores.Close()

	// Métricas Prometheus en un registry propio (sin colectores globales)
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	taxes := store.TaxTable(cfg.Restaurant)
	catalog := billing.NewCatalog(taxes)
	menuUC := menu.NewMenuUseCase(catalog, stores.Menu, log)
	n, err := menuUC.Load(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("cargar menú")
	}
	if n == 0 {
		log.Warn().Msg("menú vacío: cargue ítems con billingctl seed-menu o POST /api/menu")
	}

	checkoutSvc := checkout.NewService(catalog, stores.Bills, log, checkout.WithMetrics(m))
	historyUC := history.NewHistoryUseCase(stores.Bills)

	// Firma opcional de las facturas XML
	var xmlOpts []xmlinvoice.Option
	if cfg.Invoice.CertPath != "" {
		signer, err := xmlinvoice.LoadSigner(cfg.Invoice.CertPath, cfg.Invoice.KeyPath, cfg.Invoice.CertPassword)
		if err != nil {
			log.Fatal().Err(err).Str("cert", cfg.Invoice.CertPath).Msg("cargar certificado de facturas")
		}
		log.Info().Str("subject", signer.Subject()).Msg("facturas XML firmadas")
		xmlOpts = append(xmlOpts, xmlinvoice.WithSigner(signer))
	}
	exportUC := invoice.NewExportUseCase(stores.Bills, invoice.Issuer{
		Name:     cfg.Restaurant.Name,
		Address:  cfg.Restaurant.Address,
		Phone:    cfg.Restaurant.Phone,
		Currency: cfg.Restaurant.Currency,
		Locale:   cfg.Restaurant.Locale,
	}, log, m,
		infrapdf.NewMarotoPDFGenerator(),
		textinvoice.New(),
		xmlinvoice.New(xmlOpts...),
	)

	authUC := auth.NewAuthUseCase(auth.PINHashes{
		Admin:   cfg.Auth.AdminPINHash,
		Cashier: cfg.Auth.CashierPINHash,
	}, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})
	if !authUC.Enabled() {
		log.Warn().Msg("JWT_SECRET vacío: la API no exige token")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: httpRouter.ErrorHandler,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    docs.SwaggerInfo.Title,
		}))
	} else {
		log.Warn().Str("file", swaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":      "ok",
			"service":     cfg.App.Name,
			"store":       stores.Driver,
			"menu_items":  catalog.Len(),
			"open_drafts": checkoutSvc.OpenCount(),
		})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		MenuUC:    menuUC,
		Checkout:  checkoutSvc,
		HistoryUC: historyUC,
		ExportUC:  exportUC,
		AuthUC:    authUC,
		JWTSecret: cfg.JWT.Secret,
		Metrics:   adaptor.HTTPHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})),
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Int("open_drafts", checkoutSvc.OpenCount()).Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
