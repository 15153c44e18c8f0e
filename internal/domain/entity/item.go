package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// UnitConversion declara una unidad alterna de un artículo y su factor
// multiplicativo respecto a la unidad base: 1 Name == Factor unidades base.
// Factor siempre > 0 (invariante de creación).
type UnitConversion struct {
	Name   string          `json:"name"`
	Factor decimal.Decimal `json:"factor"`
}

// Item representa un artículo del inventario.
// Stock se expresa SIEMPRE en unidades base y solo lo muta el motor de libro
// (aplicación de deltas firmados); equivale a la suma de todos los deltas
// aplicados desde su creación, salvo corrección manual.
type Item struct {
	ID          string
	SKU         string // código único por libro
	Name        string
	BaseUnit    string           // nombre de la unidad canónica (ej. "pcs")
	Conversions []UnitConversion // nombres únicos, factores > 0
	Stock       decimal.Decimal  // en unidades base
	MinStock    decimal.Decimal  // umbral de stock bajo (no lo muta el libro)
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ConversionFactor devuelve el factor hacia unidad base para unitName.
// Devuelve 1 para la unidad base y ok=false si la unidad no está declarada.
func (it *Item) ConversionFactor(unitName string) (decimal.Decimal, bool) {
	if unitName == it.BaseUnit {
		return decimal.NewFromInt(1), true
	}
	for _, c := range it.Conversions {
		if c.Name == unitName {
			return c.Factor, true
		}
	}
	return decimal.Decimal{}, false
}

// IsLowStock indica si el artículo está en o por debajo de su umbral mínimo.
func (it *Item) IsLowStock() bool {
	return it.Stock.LessThanOrEqual(it.MinStock)
}
