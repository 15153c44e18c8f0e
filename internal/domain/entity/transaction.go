package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de transacción de inventario.
const (
	TransactionTypeIN  = "IN"  // entrada
	TransactionTypeOUT = "OUT" // salida
)

// TransactionLine línea de una transacción tal como la capturó el usuario.
// Quantity está en la unidad ingresada (Unit); BaseQuantity es la cantidad
// derivada en unidades base (Quantity * factor), congelada al momento del
// registro. Si más tarde la conversión se renombra o elimina, BaseQuantity
// sigue siendo la verdad histórica y la unidad obsoleta se reporta como
// advertencia de integridad, nunca se renormaliza en silencio.
type TransactionLine struct {
	ItemID       string
	Quantity     decimal.Decimal // en Unit
	Unit         string          // unidad base del artículo o una conversión declarada
	BaseQuantity decimal.Decimal // derivada: Quantity * factor
	Reason       string          // solo libro de rechazos: motivo del daño/rechazo
}

// Transaction una entrada o salida de inventario con una o más líneas.
// El ID es estable a lo largo de las ediciones; cada edición/eliminación
// produce el ajuste compensatorio de stock de forma atómica con la
// persistencia del nuevo estado.
type Transaction struct {
	ID        string
	Type      string // IN | OUT
	Date      time.Time
	Lines     []TransactionLine
	CreatedAt time.Time
	UpdatedAt time.Time
	CreatedBy string
}

// StockCardEntry un renglón del kardex (tarjeta de stock): la transacción y
// el saldo del artículo inmediatamente después de ella. Vista derivada,
// de solo lectura.
type StockCardEntry struct {
	Transaction  *Transaction
	Delta        decimal.Decimal // efecto firmado de la transacción sobre el artículo, en unidades base
	BalanceAfter decimal.Decimal // saldo en unidades base tras aplicar la transacción
}
