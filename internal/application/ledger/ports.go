package ledger

import (
	"context"

	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando
// repositorios atados a esa tx y al juego de tablas del libro (principal o
// rechazos). Garantiza que crear/editar/eliminar una transacción de inventario
// mute el stock y persista el registro como una sola unidad atómica.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txRepo repository.TransactionRepository,
	) error) error
}
