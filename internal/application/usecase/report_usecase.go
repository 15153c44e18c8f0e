package usecase

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ReportUseCase reportes y exportaciones: kardex en PDF y maestro de
// artículos en hoja de cálculo XML o CSV.
type ReportUseCase struct {
	itemRepo    repository.ItemRepository
	stockCardUC *ledger.StockCardUseCase
	pdfGen      ports.StockCardPDFGenerator
	xmlExporter ports.ItemExporter
	csvExporter ports.ItemExporter
}

// NewReportUseCase construye el caso de uso.
func NewReportUseCase(
	itemRepo repository.ItemRepository,
	stockCardUC *ledger.StockCardUseCase,
	pdfGen ports.StockCardPDFGenerator,
	xmlExporter, csvExporter ports.ItemExporter,
) *ReportUseCase {
	return &ReportUseCase{
		itemRepo:    itemRepo,
		stockCardUC: stockCardUC,
		pdfGen:      pdfGen,
		xmlExporter: xmlExporter,
		csvExporter: csvExporter,
	}
}

// exportLimit tope de filas por exportación.
const exportLimit = 10000

// StockCardPDF reconstruye el kardex del artículo y lo renderiza en PDF.
func (uc *ReportUseCase) StockCardPDF(ctx context.Context, itemID string) ([]byte, error) {
	item, entries, _, err := uc.stockCardUC.Build(ctx, itemID)
	if err != nil {
		return nil, err
	}
	pdf, err := uc.pdfGen.Generate(item, entries)
	if err != nil {
		return nil, fmt.Errorf("generar PDF del kardex: %w", err)
	}
	return pdf, nil
}

// ItemsSpreadsheet exporta el maestro de artículos como hoja de cálculo XML
// (SpreadsheetML, abre directo en Excel).
func (uc *ReportUseCase) ItemsSpreadsheet(ctx context.Context) ([]byte, error) {
	items, err := uc.itemRepo.List(exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return uc.xmlExporter.Export(items)
}

// ItemsCSV exporta el maestro de artículos como CSV Windows-1252
// (separador ';', el dialecto que Excel en español abre sin asistente).
func (uc *ReportUseCase) ItemsCSV(ctx context.Context) ([]byte, error) {
	items, err := uc.itemRepo.List(exportLimit, 0)
	if err != nil {
		return nil, err
	}
	return uc.csvExporter.Export(items)
}
