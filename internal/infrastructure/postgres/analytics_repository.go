package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas read-only para el dashboard. Lee directamente del
// pool (nunca dentro de una transacción de escritura) y no bloquea filas.
type AnalyticsRepo struct {
	pool *pgxpool.Pool
}

func NewAnalyticsRepository(pool *pgxpool.Pool) *AnalyticsRepo {
	return &AnalyticsRepo{pool: pool}
}

func (r *AnalyticsRepo) CountItems(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM items`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// ListLowStock artículos con stock en o por debajo del mínimo, más críticos primero.
func (r *AnalyticsRepo) ListLowStock(ctx context.Context, limit int) ([]*entity.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM items
		WHERE stock <= min_stock
		ORDER BY stock - min_stock ASC
		LIMIT $1`, itemColumns)
	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	repo := NewItemRepository(r.pool, MainTables)
	return repo.collect(rows)
}

// MovementTotals suma de cantidades base de entradas y salidas en el rango.
func (r *AnalyticsRepo) MovementTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, decimal.Decimal, error) {
	query := `
		SELECT
			COALESCE(SUM(l.base_quantity) FILTER (WHERE t.type = 'IN'), 0),
			COALESCE(SUM(l.base_quantity) FILTER (WHERE t.type = 'OUT'), 0)
		FROM transactions t
		JOIN transaction_lines l ON l.transaction_id = t.id
		WHERE t.date >= $1 AND t.date <= $2`
	var in, out decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&in, &out); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("movement totals: %w", err)
	}
	return in, out, nil
}

// RejectTotals cantidad base total y número de transacciones del libro de
// rechazos en el rango.
func (r *AnalyticsRepo) RejectTotals(ctx context.Context, from, to time.Time) (decimal.Decimal, int, error) {
	query := `
		SELECT COALESCE(SUM(l.base_quantity), 0), COUNT(DISTINCT t.id)
		FROM reject_transactions t
		JOIN reject_transaction_lines l ON l.transaction_id = t.id
		WHERE t.date >= $1 AND t.date <= $2`
	var qty decimal.Decimal
	var count int
	if err := r.pool.QueryRow(ctx, query, from, to).Scan(&qty, &count); err != nil {
		return decimal.Zero, 0, fmt.Errorf("reject totals: %w", err)
	}
	return qty, count, nil
}
