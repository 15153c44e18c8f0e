package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/auth"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ItemUC       *usecase.ItemUseCase
	RejectItemUC *usecase.ItemUseCase
	LedgerUC     *ledger.UseCase
	LedgerTxRepo repository.TransactionRepository
	RejectUC     *ledger.UseCase
	RejectTxRepo repository.TransactionRepository
	StockCardUC  *ledger.StockCardUseCase
	ReportUC     *usecase.ReportUseCase
	DashboardUC  *analytics.DashboardUseCase
	AIUC         *usecase.AIUseCase
	AuthUC       *auth.AuthUseCase
	JWTSecret    string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// El maestro de artículos lo mantienen admin y bodeguero; consultar puede
	// cualquier rol autenticado.
	canWrite := RequireRole(entity.RoleAdmin, entity.RoleBodeguero)

	// Items (protegido)
	items := protected.Group("/items")
	itemHandler := NewItemHandler(deps.ItemUC)
	items.Post("/", canWrite, itemHandler.Create)
	items.Get("/", itemHandler.List)
	items.Get("/:id", itemHandler.GetByID)
	items.Put("/:id", canWrite, itemHandler.Update)
	items.Delete("/:id", RequireRole(entity.RoleAdmin), itemHandler.Delete)

	// Tarjeta de stock (kardex)
	stockCardHandler := NewStockCardHandler(deps.StockCardUC, deps.ReportUC)
	items.Get("/:id/stock-card", stockCardHandler.Get)
	items.Get("/:id/stock-card/pdf", stockCardHandler.GetPDF)

	// Transacciones del libro principal (protegido)
	txs := protected.Group("/transactions")
	txHandler := NewTransactionHandler(deps.LedgerUC, deps.LedgerTxRepo)
	txs.Post("/", canWrite, txHandler.Create)
	txs.Get("/", txHandler.List)
	txs.Get("/:id", txHandler.GetByID)
	txs.Put("/:id", canWrite, txHandler.Update)
	txs.Delete("/:id", canWrite, txHandler.Delete)

	// Libro de rechazos/mermas: mismo contrato, tablas separadas y motivo
	// obligatorio por línea. Su maestro de artículos también es independiente.
	rejectItems := protected.Group("/rejects/items")
	rejectItemHandler := NewItemHandler(deps.RejectItemUC)
	rejectItems.Post("/", canWrite, rejectItemHandler.Create)
	rejectItems.Get("/", rejectItemHandler.List)
	rejectItems.Get("/:id", rejectItemHandler.GetByID)
	rejectItems.Put("/:id", canWrite, rejectItemHandler.Update)
	rejectItems.Delete("/:id", RequireRole(entity.RoleAdmin), rejectItemHandler.Delete)

	rejects := protected.Group("/rejects/transactions")
	rejectHandler := NewTransactionHandler(deps.RejectUC, deps.RejectTxRepo)
	rejects.Post("/", canWrite, rejectHandler.Create)
	rejects.Get("/", rejectHandler.List)
	rejects.Get("/:id", rejectHandler.GetByID)
	rejects.Put("/:id", canWrite, rejectHandler.Update)
	rejects.Delete("/:id", canWrite, rejectHandler.Delete)

	// Dashboard (protegido)
	dashboard := protected.Group("/dashboard")
	dashboardHandler := NewDashboardHandler(deps.DashboardUC)
	dashboard.Get("/summary", dashboardHandler.Summary)

	// Exportaciones (protegido)
	export := protected.Group("/export")
	exportHandler := NewExportHandler(deps.ReportUC)
	export.Get("/items.xml", exportHandler.ItemsSpreadsheet)
	export.Get("/items.csv", exportHandler.ItemsCSV)

	// IA (protegido)
	ai := protected.Group("/ai")
	aiHandler := NewAIHandler(deps.AIUC)
	ai.Get("/insights", aiHandler.Insights)
}
