package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domledger "github.com/jhoicas/almacen-api/internal/domain/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// StockCardUseCase reconstruye el kardex de un artículo a partir del stock
// actual y el histórico completo de transacciones del libro. Solo lectura:
// puede correr en paralelo con escritores.
type StockCardUseCase struct {
	itemRepo repository.ItemRepository
	txRepo   repository.TransactionRepository
}

// NewStockCardUseCase construye el caso de uso.
func NewStockCardUseCase(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) *StockCardUseCase {
	return &StockCardUseCase{itemRepo: itemRepo, txRepo: txRepo}
}

// Build devuelve el artículo, sus renglones de kardex (más reciente primero)
// y las unidades históricas que ya no resuelven contra la definición actual
// (advertencias de integridad).
func (uc *StockCardUseCase) Build(ctx context.Context, itemID string) (*entity.Item, []entity.StockCardEntry, []string, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, nil, nil, err
	}
	if item == nil {
		return nil, nil, nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, itemID)
	}
	txs, err := uc.txRepo.ListByItem(itemID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("kardex de %s: %w", itemID, err)
	}
	entries := domledger.BuildStockCard(item, txs)
	warnings := domledger.StaleUnits(item, txs)
	return item, entries, warnings, nil
}
