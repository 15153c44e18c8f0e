package ledger

import (
	"sort"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// TransactionDelta calcula el efecto firmado (+IN / -OUT) de una transacción
// sobre un artículo, en unidades base, sumando sus líneas de ese artículo.
func TransactionDelta(tx *entity.Transaction, itemID string) decimal.Decimal {
	total := decimal.Zero
	for _, line := range tx.Lines {
		if line.ItemID == itemID {
			total = total.Add(line.BaseQuantity)
		}
	}
	return total.Mul(Sign(tx.Type, 1))
}

// BuildStockCard reconstruye el kardex de un artículo: la lista cronológica
// de saldos, de la más reciente a la más antigua.
//
// Parte del stock actual (autoritativo) y camina hacia atrás en el tiempo
// deshaciendo el efecto de cada transacción: el saldo previo a una
// transacción es el BalanceAfter candidato de la siguiente más antigua.
// Transacciones con fecha idéntica conservan su orden de inserción
// (orden estable) para que la reconstrucción sea determinista.
//
// Solo lectura: nunca muta el registro de artículos.
func BuildStockCard(item *entity.Item, txs []*entity.Transaction) []entity.StockCardEntry {
	// Orden ascendente estable por fecha; se recorre desde el final para que,
	// en empates de fecha, se deshaga primero la transacción insertada después.
	ordered := make([]*entity.Transaction, len(txs))
	copy(ordered, txs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	entries := make([]entity.StockCardEntry, 0, len(ordered))
	running := item.Stock
	for i := len(ordered) - 1; i >= 0; i-- {
		tx := ordered[i]
		delta := TransactionDelta(tx, item.ID)
		if delta.IsZero() && !touchesItem(tx, item.ID) {
			continue
		}
		entries = append(entries, entity.StockCardEntry{
			Transaction:  tx,
			Delta:        delta,
			BalanceAfter: running,
		})
		running = running.Sub(delta)
	}
	return entries
}

// StaleUnits devuelve las unidades registradas en el histórico que ya no
// resuelven contra la definición actual del artículo (conversión renombrada o
// eliminada). Son advertencias de integridad: la BaseQuantity congelada sigue
// siendo válida y no se renormaliza.
func StaleUnits(item *entity.Item, txs []*entity.Transaction) []string {
	seen := make(map[string]bool)
	var stale []string
	for _, tx := range txs {
		for _, line := range tx.Lines {
			if line.ItemID != item.ID || seen[line.Unit] {
				continue
			}
			seen[line.Unit] = true
			if _, ok := item.ConversionFactor(line.Unit); !ok {
				stale = append(stale, line.Unit)
			}
		}
	}
	return stale
}

func touchesItem(tx *entity.Transaction, itemID string) bool {
	for _, line := range tx.Lines {
		if line.ItemID == itemID {
			return true
		}
	}
	return false
}
