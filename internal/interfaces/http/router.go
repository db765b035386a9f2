package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"github.com/jhoicas/stock-ledger/internal/application/inventory"
	"github.com/jhoicas/stock-ledger/internal/domain/entity"
	"github.com/jhoicas/stock-ledger/internal/observability"
	"github.com/jhoicas/stock-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Catalog   *inventory.CatalogUseCase
	Stock     *inventory.StockUseCase
	Logs      *inventory.LogUseCase
	Batches   *inventory.BatchUseCase
	Overview  *inventory.OverviewUseCase
	Metrics   *observability.Metrics
	Log       *logger.Logger
	Health    func(ctx context.Context) error // nil = siempre sano
	JWTSecret string
	JWTIssuer string
}

// AppConfig parámetros del servidor Fiber.
type AppConfig struct {
	Name         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// NewApp construye la aplicación Fiber con middlewares, /health, /metrics y las rutas de la API.
func NewApp(cfg AppConfig, deps RouterDeps) *fiber.App {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	errs := errorMapper{log: deps.Log}
	app := fiber.New(fiber.Config{
		AppName:      cfg.Name,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  time.Second * 60,
		ErrorHandler: errs.write,
	})
	app.Use(requestid.New())
	app.Use(RequestLogger(deps.Log, deps.Metrics))
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		if deps.Health != nil {
			if err := deps.Health(c.UserContext()); err != nil {
				deps.Log.Warn().Err(err).Msg("health check")
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "unavailable", "service": cfg.Name})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.Name})
	})
	app.Get("/metrics", adaptor.HTTPHandler(deps.Metrics.Handler()))

	registerRoutes(app, deps, errs)
	return app
}

// registerRoutes registra las rutas de la API. Todas requieren Bearer Token.
func registerRoutes(app *fiber.App, deps RouterDeps, errs errorMapper) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	adminOnly := RequireRole(entity.RoleAdmin)

	// Items
	items := api.Group("/items")
	itemHandler := NewItemHandler(deps.Catalog, deps.Stock, errs)
	items.Get("/low-stock", itemHandler.LowStock)
	items.Get("/low-stock/report", itemHandler.LowStockReport)
	items.Post("/", itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", itemHandler.Update)
	items.Delete("/:id", adminOnly, itemHandler.Delete)
	items.Post("/:id/adjust", itemHandler.Adjust)
	api.Get("/dashboard", itemHandler.Dashboard)

	// Logs
	logs := api.Group("/logs")
	logHandler := NewLogHandler(deps.Stock, deps.Logs, errs)
	logs.Post("/bulk", logHandler.BulkSubmit)
	logs.Get("/", logHandler.List)
	logs.Put("/:id", adminOnly, logHandler.Edit)
	logs.Delete("/:id", adminOnly, logHandler.Delete)

	// Batches
	batches := api.Group("/batches")
	batchHandler := NewBatchHandler(deps.Batches, errs)
	batches.Post("/", batchHandler.Save)
	batches.Get("/", batchHandler.List)
	batches.Get("/:id", batchHandler.GetByID)
	batches.Put("/:id", batchHandler.Save)
	batches.Delete("/:id", adminOnly, batchHandler.Delete)
	batches.Post("/:id/apply", batchHandler.Apply)
	batches.Post("/:id/consume", batchHandler.Consume)

	// Overview
	overviewHandler := NewOverviewHandler(deps.Overview, errs)
	api.Get("/overview", overviewHandler.Summarize)
}
