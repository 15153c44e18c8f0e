package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// ── Fakes en memoria ──────────────────────────────────────────────────────────
// El motor de libro recibe sus colaboradores por inyección, así que se prueba
// aislado con registros en memoria (sin Postgres).

type fakeItemRepo struct {
	items map[string]*entity.Item
}

func newFakeItemRepo(items ...*entity.Item) *fakeItemRepo {
	m := make(map[string]*entity.Item)
	for _, it := range items {
		m[it.ID] = it
	}
	return &fakeItemRepo{items: m}
}

func (r *fakeItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *fakeItemRepo) Update(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *fakeItemRepo) Delete(id string) error         { delete(r.items, id); return nil }

func (r *fakeItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *fakeItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.SKU == sku {
			cp := *it
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeItemRepo) List(limit, offset int) ([]*entity.Item, error)     { return nil, nil }
func (r *fakeItemRepo) ListLowStock(limit int) ([]*entity.Item, error)     { return nil, nil }
func (r *fakeItemRepo) GetForUpdate(id string) (*entity.Item, error)       { return r.GetByID(id) }
func (r *fakeItemRepo) UpdateStock(id string, stock decimal.Decimal) error {
	it, ok := r.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.Stock = stock
	return nil
}

func (r *fakeItemRepo) stock(t *testing.T, id string) decimal.Decimal {
	t.Helper()
	it, ok := r.items[id]
	require.True(t, ok, "artículo %s debe existir", id)
	return it.Stock
}

type fakeTxRepo struct {
	txs map[string]*entity.Transaction
}

func newFakeTxRepo() *fakeTxRepo { return &fakeTxRepo{txs: make(map[string]*entity.Transaction)} }

func (r *fakeTxRepo) Create(tx *entity.Transaction) error  { r.txs[tx.ID] = tx; return nil }
func (r *fakeTxRepo) Replace(tx *entity.Transaction) error { r.txs[tx.ID] = tx; return nil }
func (r *fakeTxRepo) Delete(id string) error               { delete(r.txs, id); return nil }

func (r *fakeTxRepo) GetByID(id string) (*entity.Transaction, error) {
	tx, ok := r.txs[id]
	if !ok {
		return nil, nil
	}
	return tx, nil
}

func (r *fakeTxRepo) GetForUpdate(id string) (*entity.Transaction, error) { return r.GetByID(id) }

func (r *fakeTxRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	return nil, nil
}

func (r *fakeTxRepo) ListByItem(itemID string) ([]*entity.Transaction, error) { return nil, nil }

type fakeTxRunner struct {
	itemRepo repository.ItemRepository
	txRepo   repository.TransactionRepository
}

func (f *fakeTxRunner) Run(_ context.Context, fn func(repository.ItemRepository, repository.TransactionRepository) error) error {
	return fn(f.itemRepo, f.txRepo)
}

func newLedger(t *testing.T, items ...*entity.Item) (*ledger.UseCase, *fakeItemRepo, *fakeTxRepo) {
	t.Helper()
	itemRepo := newFakeItemRepo(items...)
	txRepo := newFakeTxRepo()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := ledger.NewUseCase(&fakeTxRunner{itemRepo: itemRepo, txRepo: txRepo}, ledger.Options{}, log)
	return uc, itemRepo, txRepo
}

func articulo(id string, stock int64) *entity.Item {
	return &entity.Item{
		ID:       id,
		BaseUnit: "pcs",
		Conversions: []entity.UnitConversion{
			{Name: "Box", Factor: decimal.NewFromInt(10)},
		},
		Stock: decimal.NewFromInt(stock),
	}
}

func linea(itemID, unit string, qty int64) ledger.LineInput {
	return ledger.LineInput{ItemID: itemID, Quantity: decimal.NewFromInt(qty), Unit: unit}
}

// ── Crear ─────────────────────────────────────────────────────────────────────

// TestCreate_EjemploDeReferencia item base pcs, conversión Box=10, stock 45.
// IN de 2 Box → 20 pcs → stock 65. Luego editada a 1 Box IN → revertir -20
// (45) y aplicar +10 → stock final 55.
func TestCreate_EjemploDeReferencia(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 45))

	tx, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "Box", 2)},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(65)))
	assert.True(t, tx.Lines[0].BaseQuantity.Equal(decimal.NewFromInt(20)), "2 Box == 20 pcs")

	_, err = uc.EditTransaction(context.Background(), tx.ID, ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "Box", 1)},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(55)),
		"editar 2 Box → 1 Box debe dejar 45+10 = 55")
}

// TestCreate_AgregacionMultilinea dos líneas del mismo artículo (3 y 4 pcs, IN)
// cambian el stock exactamente en +7 mediante una sola escritura agregada.
func TestCreate_AgregacionMultilinea(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 0))

	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type: entity.TransactionTypeIN,
		Lines: []ledger.LineInput{
			linea("item-1", "pcs", 3),
			linea("item-1", "pcs", 4),
		},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(7)))
}

// TestCreate_UnidadDesconocidaNoMuta una línea con unidad "ZZZ" rechaza la
// transacción completa sin tocar el stock de ningún artículo.
func TestCreate_UnidadDesconocidaNoMuta(t *testing.T) {
	uc, items, txRepo := newLedger(t, articulo("item-1", 10), articulo("item-2", 10))

	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type: entity.TransactionTypeIN,
		Lines: []ledger.LineInput{
			linea("item-1", "pcs", 5),
			linea("item-2", "ZZZ", 5),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnknownUnit)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(10)), "sin aplicación parcial")
	assert.True(t, items.stock(t, "item-2").Equal(decimal.NewFromInt(10)))
	assert.Empty(t, txRepo.txs, "no debe persistirse nada")
}

func TestCreate_ArticuloInexistenteRechaza(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 10))

	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type: entity.TransactionTypeIN,
		Lines: []ledger.LineInput{
			linea("item-1", "pcs", 5),
			linea("fantasma", "pcs", 5),
		},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(10)))
}

// ── Stock negativo ────────────────────────────────────────────────────────────

func TestCreate_StockNegativoRequiereConfirmacion(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 5))

	in := ledger.TransactionInput{
		Type:  entity.TransactionTypeOUT,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 8)},
	}
	_, err := uc.CreateTransaction(context.Background(), in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNegativeStock)
	var negErr *domain.NegativeStockError
	require.ErrorAs(t, err, &negErr)
	assert.Equal(t, []string{"item-1"}, negErr.ItemIDs)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(5)), "rechazo sin mutación")

	// Con confirmación el stock negativo es un estado válido (backorder).
	in.AllowNegative = true
	_, err = uc.CreateTransaction(context.Background(), in)
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(-3)))
}

// ── Editar ────────────────────────────────────────────────────────────────────

// TestEdit_CambioDeDireccion con stock S, crear IN de 10 (S+10) y editarla a
// OUT de 10 debe dejar S-10: la dirección se invierte, no el delta.
func TestEdit_CambioDeDireccion(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 100))

	tx, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 10)},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(110)))

	_, err = uc.EditTransaction(context.Background(), tx.ID, ledger.TransactionInput{
		Type:  entity.TransactionTypeOUT,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 10)},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(90)),
		"IN 10 editada a OUT 10: 100+10 → revertir -10, aplicar -10 → 90")
}

// TestEdit_IdenticaEsNetoCero editar una transacción con contenido idéntico
// no cambia el stock de ningún artículo afectado.
func TestEdit_IdenticaEsNetoCero(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 45))

	in := ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "Box", 2)},
	}
	tx, err := uc.CreateTransaction(context.Background(), in)
	require.NoError(t, err)
	stockTrasCrear := items.stock(t, "item-1")

	_, err = uc.EditTransaction(context.Background(), tx.ID, in)
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(stockTrasCrear))
}

// TestEdit_RepetidasConvergen no importa cuántas veces se edite: el stock
// queda como si la transacción siempre hubiera tenido su contenido final.
func TestEdit_RepetidasConvergen(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 45))

	tx, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "Box", 2)},
	})
	require.NoError(t, err)

	for _, qty := range []int64{5, 3, 1} {
		_, err = uc.EditTransaction(context.Background(), tx.ID, ledger.TransactionInput{
			Type:  entity.TransactionTypeIN,
			Lines: []ledger.LineInput{linea("item-1", "Box", qty)},
		})
		require.NoError(t, err)
	}
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(55)),
		"45 + 1 Box (10 pcs) sin rastro de las ediciones intermedias")
}

func TestEdit_TransaccionDesaparecidaAborta(t *testing.T) {
	uc, items, _ := newLedger(t, articulo("item-1", 45))

	_, err := uc.EditTransaction(context.Background(), "no-existe", ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 10)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRevisionConflict,
		"editar sin estado antiguo debe abortar, no aplicar solo el delta nuevo")
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(45)))
}

// ── Eliminar ──────────────────────────────────────────────────────────────────

// TestDelete_Reversible el stock tras crear y eliminar una transacción es
// idéntico al stock previo a la creación.
func TestDelete_Reversible(t *testing.T) {
	uc, items, txRepo := newLedger(t, articulo("item-1", 45))

	tx, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeOUT,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 20)},
	})
	require.NoError(t, err)
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(25)))

	require.NoError(t, uc.DeleteTransaction(context.Background(), tx.ID))
	assert.True(t, items.stock(t, "item-1").Equal(decimal.NewFromInt(45)))
	assert.Empty(t, txRepo.txs)
}

func TestDelete_DesaparecidaAborta(t *testing.T) {
	uc, _, _ := newLedger(t, articulo("item-1", 45))
	err := uc.DeleteTransaction(context.Background(), "no-existe")
	assert.ErrorIs(t, err, domain.ErrRevisionConflict)
}

// ── Libro de rechazos ─────────────────────────────────────────────────────────

func TestRechazos_MotivoObligatorio(t *testing.T) {
	itemRepo := newFakeItemRepo(articulo("item-1", 10))
	txRepo := newFakeTxRepo()
	log := logger.New(logger.Config{Env: "development", Level: "error"})
	uc := ledger.NewUseCase(&fakeTxRunner{itemRepo: itemRepo, txRepo: txRepo},
		ledger.Options{RequireReason: true}, log)

	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 2)},
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	conMotivo := linea("item-1", "pcs", 2)
	conMotivo.Reason = "empaque dañado en recepción"
	_, err = uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{conMotivo},
	})
	require.NoError(t, err)
	assert.True(t, itemRepo.stock(t, "item-1").Equal(decimal.NewFromInt(12)))
}

func TestValidacion_CantidadNoPositiva(t *testing.T) {
	uc, _, _ := newLedger(t, articulo("item-1", 10))
	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  entity.TransactionTypeIN,
		Lines: []ledger.LineInput{linea("item-1", "pcs", 0)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidacion_TipoInvalido(t *testing.T) {
	uc, _, _ := newLedger(t, articulo("item-1", 10))
	_, err := uc.CreateTransaction(context.Background(), ledger.TransactionInput{
		Type:  "TRANSFER",
		Lines: []ledger.LineInput{linea("item-1", "pcs", 1)},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
