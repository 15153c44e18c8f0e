package ledger

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemDelta cantidad base agregada para un artículo dentro de una transacción.
type ItemDelta struct {
	ItemID       string
	BaseQuantity decimal.Decimal
}

// Sign devuelve el factor firmado de una aplicación de deltas:
// (+1 para IN, -1 para OUT) * multiplier, donde multiplier es +1 al aplicar
// una transacción y -1 al revertirla.
func Sign(txType string, multiplier int64) decimal.Decimal {
	s := decimal.NewFromInt(multiplier)
	if txType == entity.TransactionTypeOUT {
		return s.Neg()
	}
	return s
}

// GroupByItem agrupa las líneas por artículo sumando BaseQuantity.
// Varias líneas del mismo artículo en una transacción son aditivas: producen
// una sola escritura agregada, no escrituras independientes que puedan
// competir. El orden de salida es el de primera aparición.
func GroupByItem(lines []entity.TransactionLine) []ItemDelta {
	idx := make(map[string]int, len(lines))
	deltas := make([]ItemDelta, 0, len(lines))
	for _, line := range lines {
		if i, ok := idx[line.ItemID]; ok {
			deltas[i].BaseQuantity = deltas[i].BaseQuantity.Add(line.BaseQuantity)
			continue
		}
		idx[line.ItemID] = len(deltas)
		deltas = append(deltas, ItemDelta{ItemID: line.ItemID, BaseQuantity: line.BaseQuantity})
	}
	return deltas
}

// SignedDeltas agrupa las líneas y aplica el factor firmado del tipo y
// multiplicador, dejando cada delta listo para sumar al stock.
func SignedDeltas(lines []entity.TransactionLine, txType string, multiplier int64) []ItemDelta {
	sign := Sign(txType, multiplier)
	deltas := GroupByItem(lines)
	for i := range deltas {
		deltas[i].BaseQuantity = deltas[i].BaseQuantity.Mul(sign)
	}
	return deltas
}

// MergeDeltas combina dos listas de deltas firmados sumando por artículo
// (orden de primera aparición). Se usa para calcular el efecto neto de un
// revertir-y-reaplicar antes de mutar nada.
func MergeDeltas(a, b []ItemDelta) []ItemDelta {
	idx := make(map[string]int, len(a)+len(b))
	merged := make([]ItemDelta, 0, len(a)+len(b))
	for _, d := range append(append([]ItemDelta{}, a...), b...) {
		if i, ok := idx[d.ItemID]; ok {
			merged[i].BaseQuantity = merged[i].BaseQuantity.Add(d.BaseQuantity)
			continue
		}
		idx[d.ItemID] = len(merged)
		merged = append(merged, d)
	}
	return merged
}
