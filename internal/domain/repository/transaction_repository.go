package repository

import (
	"time"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// TransactionRepository almacén de transacciones de un libro.
// GetByID/GetForUpdate devuelven (nil, nil) cuando la transacción no existe.
type TransactionRepository interface {
	Create(tx *entity.Transaction) error
	// Replace sustituye por completo el contenido (tipo, fecha y líneas)
	// conservando el ID y CreatedAt.
	Replace(tx *entity.Transaction) error
	Delete(id string) error
	GetByID(id string) (*entity.Transaction, error)
	// GetForUpdate bloquea la fila de la transacción para que el ciclo
	// revertir-y-reaplicar de una edición sea una unidad atómica.
	GetForUpdate(id string) (*entity.Transaction, error)
	List(from, to *time.Time, limit, offset int) ([]*entity.Transaction, error)
	// ListByItem devuelve todas las transacciones que tocan el artículo,
	// ascendentes por fecha y, en empate, por orden de inserción.
	ListByItem(itemID string) ([]*entity.Transaction, error)
}
