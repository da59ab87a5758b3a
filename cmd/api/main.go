package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/application/usecase"
	"github.com/jhoicas/inventario-ledger/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/inventario-ledger/internal/interfaces/http"
	"github.com/jhoicas/inventario-ledger/pkg/config"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.Log.Level,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("currency", cfg.Ledger.DefaultCurrency).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(pool, log); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}

	txRunner := postgres.NewTxRunner(pool)
	settings := inventory.Settings{
		Currency:          cfg.Ledger.DefaultCurrency,
		QuantityPrecision: cfg.Ledger.QuantityPrecision,
		MoneyPrecision:    cfg.Ledger.MoneyPrecision,
	}
	movementUC := inventory.NewMovementUseCase(txRunner, settings, log)
	transferUC := inventory.NewTransferUseCase(txRunner, settings, log)
	stockUC := inventory.NewStockUseCase(txRunner, settings, log)

	productUC := usecase.NewProductUseCase(postgres.NewProductRepository(pool))
	warehouseUC := usecase.NewWarehouseUseCase(
		postgres.NewWarehouseRepository(pool),
		postgres.NewLocationRepository(pool),
	)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI en local: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: cfg.HTTP.SwaggerPath,
		Path:     "docs",
		Title:    "Inventario Ledger API",
	}))

	httpRouter.Router(app, httpRouter.RouterDeps{
		Movements:   movementUC,
		Transfers:   transferUC,
		Stock:       stockUC,
		ProductUC:   productUC,
		WarehouseUC: warehouseUC,
		DB:          pool,
		Metrics:     httpRouter.NewMetrics("ledger"),
		Logger:      log,
		AppName:     cfg.App.Name,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownTimeout)*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
