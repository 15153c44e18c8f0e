package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Querier abstrae *pgxpool.Pool y pgx.Tx: los repositorios funcionan igual
// por fuera o por dentro de una transacción.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Tables identifica el juego de tablas de un libro. Los libros principal y de
// rechazos comparten esquema pero jamás estado de stock.
type Tables struct {
	Items        string
	Transactions string
	Lines        string
}

// Juegos de tablas de los dos libros.
var (
	MainTables   = Tables{Items: "items", Transactions: "transactions", Lines: "transaction_lines"}
	RejectTables = Tables{Items: "reject_items", Transactions: "reject_transactions", Lines: "reject_transaction_lines"}
)
