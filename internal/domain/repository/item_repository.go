package repository

import (
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

// ItemRepository registro de artículos de un libro (principal o rechazos).
// Los métodos devuelven (nil, nil) cuando el artículo no existe.
type ItemRepository interface {
	Create(item *entity.Item) error
	Update(item *entity.Item) error
	Delete(id string) error
	GetByID(id string) (*entity.Item, error)
	GetBySKU(sku string) (*entity.Item, error)
	List(limit, offset int) ([]*entity.Item, error)
	ListLowStock(limit int) ([]*entity.Item, error)

	// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE)
	// para serializar las escrituras de stock sobre el mismo artículo.
	GetForUpdate(id string) (*entity.Item, error)

	// UpdateStock escribe el nuevo saldo en unidades base como una sola
	// actualización atómica (sin read-modify-write repartido entre componentes).
	UpdateStock(id string, stock decimal.Decimal) error
}
