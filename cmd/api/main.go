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
	appanalytics "github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	infraai "github.com/jhoicas/almacen-api/internal/infrastructure/ai"
	"github.com/jhoicas/almacen-api/internal/infrastructure/export"
	infrapdf "github.com/jhoicas/almacen-api/internal/infrastructure/pdf"
	"github.com/jhoicas/almacen-api/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/almacen-api/internal/interfaces/http"
	"github.com/jhoicas/almacen-api/internal/scheduler"
	"github.com/jhoicas/almacen-api/pkg/config"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	// Libro principal y libro de rechazos: mismo motor, juegos de tablas
	// separados y cero estado de stock compartido.
	itemRepo := postgres.NewItemRepository(pool, postgres.MainTables)
	txRepo := postgres.NewTransactionRepository(pool, postgres.MainTables)
	rejectItemRepo := postgres.NewItemRepository(pool, postgres.RejectTables)
	rejectTxRepo := postgres.NewTransactionRepository(pool, postgres.RejectTables)
	userRepo := postgres.NewUserRepository(pool)
	analyticsRepo := postgres.NewAnalyticsRepository(pool)

	ledgerUC := ledger.NewUseCase(
		postgres.NewTxRunner(pool, postgres.MainTables), ledger.Options{}, log)
	rejectUC := ledger.NewUseCase(
		postgres.NewTxRunner(pool, postgres.RejectTables), ledger.Options{RequireReason: true}, log)

	itemUC := usecase.NewItemUseCase(itemRepo)
	rejectItemUC := usecase.NewItemUseCase(rejectItemRepo)
	stockCardUC := ledger.NewStockCardUseCase(itemRepo, txRepo)
	dashboardUC := appanalytics.NewDashboardUseCase(analyticsRepo)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator()
	reportUC := usecase.NewReportUseCase(
		itemRepo, stockCardUC, pdfGenerator,
		export.NewSpreadsheetExporter(), export.NewCSVExporter())

	anthropicSvc := infraai.NewAnthropicService(cfg.AI.APIKey, cfg.AI.Model)
	aiUC := usecase.NewAIUseCase(dashboardUC, anthropicSvc)

	authUC := auth.NewAuthUseCase(userRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	// Chequeo diario de stock bajo
	sched := scheduler.New(cfg.Cron.LowStockSpec, analyticsRepo, log)
	if err := sched.Start(); err != nil {
		log.Fatal().Err(err).Msg("arranque del scheduler")
	}

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
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    "Almacén API",
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		ItemUC:       itemUC,
		RejectItemUC: rejectItemUC,
		LedgerUC:     ledgerUC,
		LedgerTxRepo: txRepo,
		RejectUC:     rejectUC,
		RejectTxRepo: rejectTxRepo,
		StockCardUC:  stockCardUC,
		ReportUC:     reportUC,
		DashboardUC:  dashboardUC,
		AIUC:         aiUC,
		AuthUC:       authUC,
		JWTSecret:    cfg.JWT.Secret,
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

	sched.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
