package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// Pinger verifica la base de datos para /health (lo cumple *pgxpool.Pool).
type Pinger interface {
	Ping(ctx context.Context) error
}

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Movements   MovementService
	Transfers   TransferService
	Stock       StockService
	ProductUC   ProductService
	WarehouseUC WarehouseService
	DB          Pinger
	Metrics     *Metrics
	Logger      *logger.Logger
	AppName     string
	JWTSecret   string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	if deps.Metrics != nil {
		app.Use(deps.Metrics.Middleware())
		app.Get("/metrics", deps.Metrics.Handler())
	}
	app.Get("/health", healthHandler(deps.DB, deps.AppName))

	api := app.Group("/api")
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))
	readers := RequireRole(RoleAdmin, RoleBodeguero, RoleAuditor)
	operators := RequireRole(RoleAdmin, RoleBodeguero)
	admins := RequireRole(RoleAdmin)

	// Catálogo
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC, deps.Logger)
	products.Post("/", admins, productHandler.Create)
	products.Get("/", readers, productHandler.List)
	products.Get("/:id", readers, productHandler.GetByID)

	warehouses := protected.Group("/warehouses")
	warehouseHandler := NewWarehouseHandler(deps.WarehouseUC, deps.Logger)
	warehouses.Post("/", admins, warehouseHandler.Create)
	warehouses.Get("/", readers, warehouseHandler.List)
	warehouses.Get("/:id", readers, warehouseHandler.GetByID)
	warehouses.Post("/:id/locations", admins, warehouseHandler.CreateLocation)
	warehouses.Get("/:id/locations", readers, warehouseHandler.ListLocations)

	// Movimientos
	movements := protected.Group("/movements")
	movementHandler := NewMovementHandler(deps.Movements, deps.Logger)
	movements.Post("/", operators, movementHandler.Create)
	movements.Get("/", readers, movementHandler.List)
	movements.Get("/:id", readers, movementHandler.GetByID)
	movements.Post("/:id/lines", operators, movementHandler.AddLine)
	movements.Delete("/:id/lines/:lineId", operators, movementHandler.RemoveLine)
	movements.Post("/:id/post", operators, movementHandler.Post)
	movements.Post("/:id/void", admins, movementHandler.Void)

	// Traslados
	transfers := protected.Group("/transfers")
	transferHandler := NewTransferHandler(deps.Transfers, deps.Logger)
	transfers.Post("/", operators, transferHandler.Create)
	transfers.Get("/", readers, transferHandler.List)
	transfers.Get("/:id", readers, transferHandler.GetByID)
	transfers.Put("/:id/lines/:lineId/locations", operators, transferHandler.SetLineLocations)
	transfers.Post("/:id/confirm", operators, transferHandler.Confirm)
	transfers.Post("/:id/receive", operators, transferHandler.Receive)
	transfers.Post("/:id/receive-partial", operators, transferHandler.ReceivePartial)
	transfers.Post("/:id/reject", operators, transferHandler.Reject)
	transfers.Post("/:id/cancel", operators, transferHandler.Cancel)

	// Saldos
	stock := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Stock, deps.Logger)
	stock.Get("/", readers, stockHandler.GetBalances)
	stock.Post("/validate-output", readers, stockHandler.ValidateOutput)
}

// healthHandler responde 503 si la base de datos no contesta en 2 segundos.
func healthHandler(db Pinger, service string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if db != nil {
			ctx, cancel := context.WithTimeout(c.Context(), 2*time.Second)
			defer cancel()
			if err := db.Ping(ctx); err != nil {
				return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": service, "database": "down"})
			}
		}
		return c.JSON(fiber.Map{"status": "ok", "service": service})
	}
}
