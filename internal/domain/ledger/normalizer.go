// Package ledger contiene el motor de conversión de unidades y libro de stock:
// normalización de cantidades a unidad base, agregación de deltas firmados y
// reconstrucción del kardex. Todo con aritmética decimal (shopspring/decimal):
// el stock acumula muchos deltas pequeños a lo largo de la vida del artículo y
// el error binario de punto flotante no debe volverse una discrepancia visible.
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ToBase convierte una cantidad ingresada en unitName a unidades base del
// artículo. Si unitName no es la unidad base ni una conversión declarada,
// falla con ErrUnknownUnit: el caller debe rechazar la línea, nunca asumir
// la unidad base en silencio.
func ToBase(quantity decimal.Decimal, unitName string, item *entity.Item) (decimal.Decimal, error) {
	factor, ok := item.ConversionFactor(unitName)
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: %q no es unidad de %s (base %q)",
			domain.ErrUnknownUnit, unitName, item.ID, item.BaseUnit)
	}
	return quantity.Mul(factor), nil
}

// FromBase es la inversa: cantidad en unidad alterna = baseQuantity / factor.
// El invariante de creación garantiza factor > 0, pero se defiende contra
// datos corruptos en lugar de dividir por cero.
func FromBase(baseQuantity, factor decimal.Decimal) (decimal.Decimal, error) {
	if factor.LessThanOrEqual(decimal.Zero) {
		return decimal.Decimal{}, fmt.Errorf("%w: factor de conversión %s no positivo",
			domain.ErrInvalidInput, factor)
	}
	return baseQuantity.Div(factor), nil
}
