package export

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

func articuloAzucar() *entity.Item {
	return &entity.Item{
		SKU:      "AZU-001",
		Name:     "Azúcar refinada",
		BaseUnit: "kg",
		Conversions: []entity.UnitConversion{
			{Name: "bulto", Factor: decimal.NewFromInt(50)},
		},
		Stock:    decimal.RequireFromString("12.5"),
		MinStock: decimal.NewFromInt(5),
	}
}

func TestCSV_SeparadorYCodificacion(t *testing.T) {
	out, err := NewCSVExporter().Export([]*entity.Item{articuloAzucar()})
	require.NoError(t, err)

	// Decodificar de vuelta a UTF-8 para inspeccionar el contenido.
	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), out)
	require.NoError(t, err)

	assert.Contains(t, string(decoded), "AZU-001;Azúcar refinada;kg;12.5;5;bulto=50")
	// La tilde debe viajar como un solo byte Windows-1252, no como UTF-8.
	assert.Contains(t, string(out), string([]byte{0xFA}), "ú debe codificarse como 0xFA")
}

func TestSpreadsheet_EstructuraBasica(t *testing.T) {
	out, err := NewSpreadsheetExporter().Export([]*entity.Item{articuloAzucar()})
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `progid="Excel.Sheet"`)
	assert.Contains(t, s, `ss:Name="Articulos"`)
	assert.Contains(t, s, "AZU-001")
	assert.Contains(t, s, "bulto=50")
}
