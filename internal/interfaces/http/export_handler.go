package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// ExportHandler maneja las exportaciones del maestro de artículos.
type ExportHandler struct {
	uc *usecase.ReportUseCase
}

// NewExportHandler construye el handler.
func NewExportHandler(uc *usecase.ReportUseCase) *ExportHandler {
	return &ExportHandler{uc: uc}
}

// ItemsSpreadsheet godoc
// @Summary      Exportar artículos a hoja de cálculo
// @Description  Libro SpreadsheetML (XML de Excel) con el maestro completo.
// @Tags         export
// @Security     Bearer
// @Produce      application/vnd.ms-excel
// @Success      200  {file}  binary
// @Router       /api/export/items.xml [get]
func (h *ExportHandler) ItemsSpreadsheet(c *fiber.Ctx) error {
	out, err := h.uc.ItemsSpreadsheet(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.ms-excel")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="articulos.xml"`)
	return c.Send(out)
}

// ItemsCSV godoc
// @Summary      Exportar artículos a CSV
// @Description  CSV con separador ';' en Windows-1252, listo para Excel.
// @Tags         export
// @Security     Bearer
// @Produce      text/csv
// @Success      200  {file}  binary
// @Router       /api/export/items.csv [get]
func (h *ExportHandler) ItemsCSV(c *fiber.Ctx) error {
	out, err := h.uc.ItemsCSV(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=windows-1252")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="articulos.csv"`)
	return c.Send(out)
}
