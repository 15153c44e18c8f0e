package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.TransactionRepository = (*TransactionRepo)(nil)

// TransactionRepo implementación de TransactionRepository sobre PostgreSQL.
// Cabecera y líneas viven en tablas separadas; la columna position de las
// líneas conserva el orden con el que se registraron.
type TransactionRepo struct {
	q      Querier
	tables Tables
}

// NewTransactionRepository construye el adaptador para el juego de tablas
// indicado. Pasar pool o tx (Querier).
func NewTransactionRepository(q Querier, tables Tables) *TransactionRepo {
	return &TransactionRepo{q: q, tables: tables}
}

// Create persiste la cabecera y sus líneas.
func (r *TransactionRepo) Create(tx *entity.Transaction) error {
	ctx := context.Background()
	query := fmt.Sprintf(`
		INSERT INTO %s (id, type, date, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)`, r.tables.Transactions)
	_, err := r.q.Exec(ctx, query,
		tx.ID, tx.Type, tx.Date, nullIfEmpty(tx.CreatedBy), tx.CreatedAt, tx.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return r.insertLines(ctx, tx)
}

// Replace sustituye por completo el contenido (tipo, fecha y líneas)
// conservando ID y CreatedAt. Las líneas se borran y reinsertan.
func (r *TransactionRepo) Replace(tx *entity.Transaction) error {
	ctx := context.Background()
	query := fmt.Sprintf(`
		UPDATE %s SET type = $2, date = $3, updated_at = $4 WHERE id = $1`, r.tables.Transactions)
	if _, err := r.q.Exec(ctx, query, tx.ID, tx.Type, tx.Date, tx.UpdatedAt); err != nil {
		return fmt.Errorf("replace transaction: %w", err)
	}
	del := fmt.Sprintf(`DELETE FROM %s WHERE transaction_id = $1`, r.tables.Lines)
	if _, err := r.q.Exec(ctx, del, tx.ID); err != nil {
		return fmt.Errorf("replace transaction lines: %w", err)
	}
	return r.insertLines(ctx, tx)
}

// Delete elimina la transacción; las líneas caen por ON DELETE CASCADE.
func (r *TransactionRepo) Delete(id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Transactions)
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}
	return nil
}

func (r *TransactionRepo) insertLines(ctx context.Context, tx *entity.Transaction) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (transaction_id, position, item_id, quantity, unit, base_quantity, reason)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`, r.tables.Lines)
	for i, ln := range tx.Lines {
		_, err := r.q.Exec(ctx, query,
			tx.ID, i, ln.ItemID, ln.Quantity, ln.Unit, ln.BaseQuantity, nullIfEmpty(ln.Reason))
		if err != nil {
			return fmt.Errorf("insert transaction line %d: %w", i, err)
		}
	}
	return nil
}

// GetByID obtiene la transacción con sus líneas. Devuelve (nil, nil) si no existe.
func (r *TransactionRepo) GetByID(id string) (*entity.Transaction, error) {
	return r.get(id, false)
}

// GetForUpdate igual que GetByID pero bloqueando la cabecera, de modo que el
// ciclo revertir-y-reaplicar de una edición sea una unidad atómica.
func (r *TransactionRepo) GetForUpdate(id string) (*entity.Transaction, error) {
	return r.get(id, true)
}

func (r *TransactionRepo) get(id string, forUpdate bool) (*entity.Transaction, error) {
	ctx := context.Background()
	query := fmt.Sprintf(`
		SELECT id, type, date, created_by, created_at, updated_at
		FROM %s WHERE id = $1`, r.tables.Transactions)
	if forUpdate {
		query += " FOR UPDATE"
	}
	tx, err := scanTransaction(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction: %w", err)
	}
	if err := r.loadLines(ctx, []*entity.Transaction{tx}); err != nil {
		return nil, err
	}
	return tx, nil
}

// List lista transacciones dentro del rango opcional [from, to], más
// recientes primero, con paginación.
func (r *TransactionRepo) List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error) {
	ctx := context.Background()
	query := fmt.Sprintf(`
		SELECT id, type, date, created_by, created_at, updated_at
		FROM %s
		WHERE ($1::timestamptz IS NULL OR date >= $1)
		  AND ($2::timestamptz IS NULL OR date <= $2)
		ORDER BY date DESC, created_at DESC
		LIMIT $3 OFFSET $4`, r.tables.Transactions)
	rows, err := r.q.Query(ctx, query, from, to, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

// ListByItem transacciones que tocan el artículo, ascendentes por fecha y,
// en empate, por orden de inserción (created_at). Es el orden que necesita la
// reconstrucción del kardex.
func (r *TransactionRepo) ListByItem(itemID string) ([]*entity.Transaction, error) {
	ctx := context.Background()
	query := fmt.Sprintf(`
		SELECT t.id, t.type, t.date, t.created_by, t.created_at, t.updated_at
		FROM %s t
		WHERE EXISTS (SELECT 1 FROM %s l WHERE l.transaction_id = t.id AND l.item_id = $1)
		ORDER BY t.date ASC, t.created_at ASC`, r.tables.Transactions, r.tables.Lines)
	rows, err := r.q.Query(ctx, query, itemID)
	if err != nil {
		return nil, fmt.Errorf("list transactions by item: %w", err)
	}
	txs, err := collectTransactions(rows)
	if err != nil {
		return nil, err
	}
	if err := r.loadLines(ctx, txs); err != nil {
		return nil, err
	}
	return txs, nil
}

func (r *TransactionRepo) loadLines(ctx context.Context, txs []*entity.Transaction) error {
	if len(txs) == 0 {
		return nil
	}
	ids := make([]string, len(txs))
	byID := make(map[string]*entity.Transaction, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
		byID[tx.ID] = tx
	}
	query := fmt.Sprintf(`
		SELECT transaction_id, item_id, quantity, unit, base_quantity, COALESCE(reason, '')
		FROM %s WHERE transaction_id = ANY($1)
		ORDER BY transaction_id, position`, r.tables.Lines)
	rows, err := r.q.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load transaction lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var txID string
		var ln entity.TransactionLine
		if err := rows.Scan(&txID, &ln.ItemID, &ln.Quantity, &ln.Unit, &ln.BaseQuantity, &ln.Reason); err != nil {
			return fmt.Errorf("scan transaction line: %w", err)
		}
		if tx, ok := byID[txID]; ok {
			tx.Lines = append(tx.Lines, ln)
		}
	}
	return rows.Err()
}

func scanTransaction(row pgx.Row) (*entity.Transaction, error) {
	var tx entity.Transaction
	var createdBy *string
	err := row.Scan(&tx.ID, &tx.Type, &tx.Date, &createdBy, &tx.CreatedAt, &tx.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if createdBy != nil {
		tx.CreatedBy = *createdBy
	}
	return &tx, nil
}

func collectTransactions(rows pgx.Rows) ([]*entity.Transaction, error) {
	defer rows.Close()
	var txs []*entity.Transaction
	for rows.Next() {
		tx, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}
