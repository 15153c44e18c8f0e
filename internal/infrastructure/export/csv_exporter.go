package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var _ ports.ItemExporter = (*CSVExporter)(nil)

// CSVExporter genera un CSV con separador ';' codificado en Windows-1252,
// el dialecto que Excel regional español abre sin asistente de importación.
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter { return &CSVExporter{} }

// Export serializa los artículos como CSV.
func (e *CSVExporter) Export(items []*entity.Item) ([]byte, error) {
	var buf bytes.Buffer
	enc := transform.NewWriter(&buf, charmap.Windows1252.NewEncoder())

	w := csv.NewWriter(enc)
	w.Comma = ';'

	records := [][]string{
		{"SKU", "Nombre", "Unidad base", "Stock", "Stock mínimo", "Conversiones"},
	}
	for _, it := range items {
		records = append(records, []string{
			it.SKU,
			it.Name,
			it.BaseUnit,
			it.Stock.String(),
			it.MinStock.String(),
			conversionsLabel(it),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return nil, fmt.Errorf("export: escribir CSV: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("export: codificar Windows-1252: %w", err)
	}
	return buf.Bytes(), nil
}
