package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ ledger.TxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL con
// repositorios atados a la tx y al juego de tablas de un libro. Se construye
// una instancia por libro (principal y rechazos).
type TxRunner struct {
	pool   *pgxpool.Pool
	tables Tables
}

// NewTxRunner construye el runner para el juego de tablas indicado.
func NewTxRunner(pool *pgxpool.Pool, tables Tables) *TxRunner {
	return &TxRunner{pool: pool, tables: tables}
}

// Run inicia una transacción, ejecuta fn con repos atados a la tx y hace
// Commit o Rollback. Los bloqueos FOR UPDATE que tome fn viven hasta el final:
// revertir-y-reaplicar es una unidad atómica frente a otros escritores.
func (r *TxRunner) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	txRepo repository.TransactionRepository,
) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	itemRepo := NewItemRepository(tx, r.tables)
	txRepo := NewTransactionRepository(tx, r.tables)

	if err := fn(itemRepo, txRepo); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
