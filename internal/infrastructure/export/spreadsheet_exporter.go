// Package export exportadores del maestro de artículos: SpreadsheetML (XML de
// Excel 2003) y CSV codificado en Windows-1252 para abrir con doble clic en
// Excel regional es-ES/es-CO.
package export

import (
	"fmt"

	"github.com/beevik/etree"
	"github.com/jhoicas/almacen-api/internal/application/ports"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

var _ ports.ItemExporter = (*SpreadsheetExporter)(nil)

// SpreadsheetExporter genera un libro SpreadsheetML con una hoja "Articulos".
type SpreadsheetExporter struct{}

func NewSpreadsheetExporter() *SpreadsheetExporter { return &SpreadsheetExporter{} }

// Export serializa los artículos como hoja de cálculo XML.
func (e *SpreadsheetExporter) Export(items []*entity.Item) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateProcInst("mso-application", `progid="Excel.Sheet"`)

	wb := doc.CreateElement("Workbook")
	wb.CreateAttr("xmlns", "urn:schemas-microsoft-com:office:spreadsheet")
	wb.CreateAttr("xmlns:ss", "urn:schemas-microsoft-com:office:spreadsheet")

	styles := wb.CreateElement("Styles")
	header := styles.CreateElement("Style")
	header.CreateAttr("ss:ID", "header")
	font := header.CreateElement("Font")
	font.CreateAttr("ss:Bold", "1")

	ws := wb.CreateElement("Worksheet")
	ws.CreateAttr("ss:Name", "Articulos")
	table := ws.CreateElement("Table")

	addRow(table, "header",
		cellString("SKU"), cellString("Nombre"), cellString("Unidad base"),
		cellString("Stock"), cellString("Stock mínimo"), cellString("Conversiones"))

	for _, it := range items {
		addRow(table, "",
			cellString(it.SKU),
			cellString(it.Name),
			cellString(it.BaseUnit),
			cellNumber(it.Stock.String()),
			cellNumber(it.MinStock.String()),
			cellString(conversionsLabel(it)))
	}

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("export: serializar hoja de cálculo: %w", err)
	}
	return out, nil
}

type cell struct {
	typ   string
	value string
}

func cellString(v string) cell { return cell{typ: "String", value: v} }
func cellNumber(v string) cell { return cell{typ: "Number", value: v} }

func addRow(table *etree.Element, styleID string, cells ...cell) {
	row := table.CreateElement("Row")
	for _, c := range cells {
		el := row.CreateElement("Cell")
		if styleID != "" {
			el.CreateAttr("ss:StyleID", styleID)
		}
		data := el.CreateElement("Data")
		data.CreateAttr("ss:Type", c.typ)
		data.SetText(c.value)
	}
}

// conversionsLabel "caja=12; pack=6" en orden de declaración.
func conversionsLabel(it *entity.Item) string {
	var s string
	for i, c := range it.Conversions {
		if i > 0 {
			s += "; "
		}
		s += c.Name + "=" + c.Factor.String()
	}
	return s
}
