package ports

import "github.com/jhoicas/almacen-api/internal/domain/entity"

// StockCardPDFGenerator puerto hacia el generador de la tarjeta de stock
// (kardex) en PDF.
type StockCardPDFGenerator interface {
	Generate(item *entity.Item, entries []entity.StockCardEntry) ([]byte, error)
}

// ItemExporter puerto hacia los exportadores del maestro de artículos
// (hoja de cálculo XML y CSV compatible con Excel).
type ItemExporter interface {
	Export(items []*entity.Item) ([]byte, error)
}
