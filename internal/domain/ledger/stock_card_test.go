package ledger_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/ledger"
)

func txAt(id, txType string, date time.Time, itemID string, baseQty int64) *entity.Transaction {
	return &entity.Transaction{
		ID:   id,
		Type: txType,
		Date: date,
		Lines: []entity.TransactionLine{
			{ItemID: itemID, Quantity: decimal.NewFromInt(baseQty), Unit: "pcs", BaseQuantity: decimal.NewFromInt(baseQty)},
		},
	}
}

// TestBuildStockCard_SaldosHaciaAtras el kardex parte del stock actual y
// deshace cada transacción hacia atrás en el tiempo.
func TestBuildStockCard_SaldosHaciaAtras(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	item := &entity.Item{ID: "item-1", BaseUnit: "pcs", Stock: decimal.NewFromInt(55)}
	txs := []*entity.Transaction{
		txAt("t1", entity.TransactionTypeIN, base, "item-1", 45),                    // 0 -> 45
		txAt("t2", entity.TransactionTypeIN, base.Add(24*time.Hour), "item-1", 20),  // 45 -> 65
		txAt("t3", entity.TransactionTypeOUT, base.Add(48*time.Hour), "item-1", 10), // 65 -> 55
	}

	entries := ledger.BuildStockCard(item, txs)
	require.Len(t, entries, 3)

	// Más reciente primero
	assert.Equal(t, "t3", entries[0].Transaction.ID)
	assert.True(t, entries[0].BalanceAfter.Equal(decimal.NewFromInt(55)))
	assert.Equal(t, "t2", entries[1].Transaction.ID)
	assert.True(t, entries[1].BalanceAfter.Equal(decimal.NewFromInt(65)))
	assert.Equal(t, "t1", entries[2].Transaction.ID)
	assert.True(t, entries[2].BalanceAfter.Equal(decimal.NewFromInt(45)))
}

// TestBuildStockCard_ConsistenciaReplay reproducir el kardex de la más antigua
// a la más reciente (negando la dirección de reconstrucción) debe terminar en
// el mismo saldo que item.Stock.
func TestBuildStockCard_ConsistenciaReplay(t *testing.T) {
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	item := &entity.Item{ID: "item-1", BaseUnit: "pcs", Stock: decimal.NewFromInt(17)}
	txs := []*entity.Transaction{
		txAt("t1", entity.TransactionTypeIN, base, "item-1", 30),
		txAt("t2", entity.TransactionTypeOUT, base.Add(time.Hour), "item-1", 8),
		txAt("t3", entity.TransactionTypeOUT, base.Add(2*time.Hour), "item-1", 5),
	}
	entries := ledger.BuildStockCard(item, txs)
	require.NotEmpty(t, entries)

	oldest := entries[len(entries)-1]
	running := oldest.BalanceAfter.Sub(oldest.Delta) // saldo antes de la primera transacción
	for i := len(entries) - 1; i >= 0; i-- {
		running = running.Add(entries[i].Delta)
		assert.True(t, running.Equal(entries[i].BalanceAfter), "saldo en %s", entries[i].Transaction.ID)
	}
	assert.True(t, running.Equal(item.Stock), "el replay hacia adelante debe reproducir el stock actual")
}

// TestBuildStockCard_EmpateDeFechas transacciones con fecha idéntica conservan
// su orden relativo de inserción (orden estable) para un replay determinista.
func TestBuildStockCard_EmpateDeFechas(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	item := &entity.Item{ID: "item-1", BaseUnit: "pcs", Stock: decimal.NewFromInt(15)}
	txs := []*entity.Transaction{
		txAt("primera", entity.TransactionTypeIN, date, "item-1", 10),
		txAt("segunda", entity.TransactionTypeIN, date, "item-1", 5),
	}
	entries := ledger.BuildStockCard(item, txs)
	require.Len(t, entries, 2)
	assert.Equal(t, "segunda", entries[0].Transaction.ID, "la insertada después se deshace primero")
	assert.True(t, entries[0].BalanceAfter.Equal(decimal.NewFromInt(15)))
	assert.Equal(t, "primera", entries[1].Transaction.ID)
	assert.True(t, entries[1].BalanceAfter.Equal(decimal.NewFromInt(10)))
}

func TestBuildStockCard_IgnoraOtrosArticulos(t *testing.T) {
	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	item := &entity.Item{ID: "item-1", BaseUnit: "pcs", Stock: decimal.NewFromInt(10)}
	txs := []*entity.Transaction{
		txAt("t1", entity.TransactionTypeIN, date, "item-1", 10),
		txAt("ajeno", entity.TransactionTypeIN, date.Add(time.Hour), "item-2", 99),
	}
	entries := ledger.BuildStockCard(item, txs)
	require.Len(t, entries, 1)
	assert.Equal(t, "t1", entries[0].Transaction.ID)
}

func TestStaleUnits_UnidadEliminadaSeReporta(t *testing.T) {
	item := itemPcsBox()
	tx := &entity.Transaction{
		ID:   "t1",
		Type: entity.TransactionTypeIN,
		Lines: []entity.TransactionLine{
			{ItemID: item.ID, Unit: "Paquete", BaseQuantity: decimal.NewFromInt(6)}, // conversión ya eliminada
			{ItemID: item.ID, Unit: "Box", BaseQuantity: decimal.NewFromInt(10)},
		},
	}
	stale := ledger.StaleUnits(item, []*entity.Transaction{tx})
	assert.Equal(t, []string{"Paquete"}, stale,
		"una unidad histórica que ya no resuelve es advertencia de integridad, no se renormaliza")
}
