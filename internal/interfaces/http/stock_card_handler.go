package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
)

// StockCardHandler maneja la tarjeta de stock (kardex) de un artículo.
type StockCardHandler struct {
	uc       *ledger.StockCardUseCase
	reportUC *usecase.ReportUseCase
}

// NewStockCardHandler construye el handler.
func NewStockCardHandler(uc *ledger.StockCardUseCase, reportUC *usecase.ReportUseCase) *StockCardHandler {
	return &StockCardHandler{uc: uc, reportUC: reportUC}
}

// Get godoc
// @Summary      Tarjeta de stock de un artículo
// @Description  Reconstruye el historial de saldos partiendo del stock actual
//
//	y deshaciendo cada transacción hacia atrás; los renglones van
//	del más reciente al más antiguo. Warnings lista unidades
//	históricas que ya no resuelven contra el artículo.
//
// @Tags         stock-card
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {object}  dto.StockCardResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock-card [get]
func (h *StockCardHandler) Get(c *fiber.Ctx) error {
	item, entries, warnings, err := h.uc.Build(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}

	out := dto.StockCardResponse{
		ItemID:   item.ID,
		SKU:      item.SKU,
		Name:     item.Name,
		BaseUnit: item.BaseUnit,
		Stock:    item.Stock,
		Entries:  make([]dto.StockCardEntryDTO, len(entries)),
		Warnings: warnings,
	}
	for i, e := range entries {
		out.Entries[i] = dto.StockCardEntryDTO{
			TransactionID: e.Transaction.ID,
			Type:          e.Transaction.Type,
			Date:          e.Transaction.Date,
			Delta:         e.Delta,
			BalanceAfter:  e.BalanceAfter,
		}
	}
	return c.JSON(out)
}

// GetPDF godoc
// @Summary      Tarjeta de stock en PDF
// @Tags         stock-card
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID del artículo"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/items/{id}/stock-card/pdf [get]
func (h *StockCardHandler) GetPDF(c *fiber.Ctx) error {
	pdfBytes, err := h.reportUC.StockCardPDF(c.Context(), c.Params("id"))
	if err != nil {
		if errors.Is(err, domain.ErrItemNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: "artículo no encontrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="kardex.pdf"`)
	return c.Send(pdfBytes)
}
