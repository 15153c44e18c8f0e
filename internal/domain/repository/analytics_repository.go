package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// AnalyticsRepository consultas read-only para el dashboard y los reportes.
// Tolera ver un stock pre o post actualización de una transacción en vuelo;
// nunca bloquea filas.
type AnalyticsRepository interface {
	CountItems(ctx context.Context) (int, error)
	// ListLowStock artículos con Stock <= MinStock, más críticos primero.
	ListLowStock(ctx context.Context, limit int) ([]*entity.Item, error)
	// MovementTotals suma de cantidades base de entradas y salidas en el rango.
	MovementTotals(ctx context.Context, from, to time.Time) (in, out decimal.Decimal, err error)
	// RejectTotals cantidad base total y número de transacciones del libro de
	// rechazos en el rango.
	RejectTotals(ctx context.Context, from, to time.Time) (qty decimal.Decimal, count int, err error)
}
