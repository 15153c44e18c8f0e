package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo implementación de ItemRepository sobre PostgreSQL (usable con pool
// o tx). La tabla de conversiones se guarda como JSONB conservando el orden de
// declaración.
type ItemRepo struct {
	q      Querier
	tables Tables
}

// NewItemRepository construye el adaptador para el juego de tablas indicado.
// Pasar pool o tx (Querier).
func NewItemRepository(q Querier, tables Tables) *ItemRepo {
	return &ItemRepo{q: q, tables: tables}
}

const itemColumns = "id, sku, name, base_unit, conversions, stock, min_stock, created_at, updated_at"

func (r *ItemRepo) scanItem(row pgx.Row) (*entity.Item, error) {
	var it entity.Item
	var convs []byte
	err := row.Scan(&it.ID, &it.SKU, &it.Name, &it.BaseUnit, &convs,
		&it.Stock, &it.MinStock, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(convs) > 0 {
		if err := json.Unmarshal(convs, &it.Conversions); err != nil {
			return nil, fmt.Errorf("decodificar conversiones de %s: %w", it.ID, err)
		}
	}
	return &it, nil
}

// Create persiste un artículo nuevo.
func (r *ItemRepo) Create(item *entity.Item) error {
	convs, err := json.Marshal(item.Conversions)
	if err != nil {
		return fmt.Errorf("codificar conversiones: %w", err)
	}
	query := fmt.Sprintf(`
		INSERT INTO %s (id, sku, name, base_unit, conversions, stock, min_stock, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`, r.tables.Items)
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.BaseUnit, convs,
		item.Stock, item.MinStock, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("create item: %w", err)
	}
	return nil
}

// Update actualiza los datos maestros (no el stock; ver UpdateStock).
func (r *ItemRepo) Update(item *entity.Item) error {
	convs, err := json.Marshal(item.Conversions)
	if err != nil {
		return fmt.Errorf("codificar conversiones: %w", err)
	}
	query := fmt.Sprintf(`
		UPDATE %s SET sku = $2, name = $3, base_unit = $4, conversions = $5, min_stock = $6, updated_at = $7
		WHERE id = $1`, r.tables.Items)
	_, err = r.q.Exec(context.Background(), query,
		item.ID, item.SKU, item.Name, item.BaseUnit, convs, item.MinStock, item.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update item: %w", err)
	}
	return nil
}

// Delete elimina el artículo.
func (r *ItemRepo) Delete(id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE id = $1`, r.tables.Items)
	if _, err := r.q.Exec(context.Background(), query, id); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID. Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetByID(id string) (*entity.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, itemColumns, r.tables.Items)
	it, err := r.scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item: %w", err)
	}
	return it, nil
}

// GetBySKU obtiene un artículo por SKU. Devuelve (nil, nil) si no existe.
func (r *ItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE sku = $1`, itemColumns, r.tables.Items)
	it, err := r.scanItem(r.q.QueryRow(context.Background(), query, sku))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item by sku: %w", err)
	}
	return it, nil
}

// GetForUpdate obtiene el artículo bloqueando la fila (SELECT FOR UPDATE)
// para serializar las escrituras de stock sobre el mismo artículo.
func (r *ItemRepo) GetForUpdate(id string) (*entity.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1 FOR UPDATE`, itemColumns, r.tables.Items)
	it, err := r.scanItem(r.q.QueryRow(context.Background(), query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get item for update: %w", err)
	}
	return it, nil
}

// UpdateStock escribe el nuevo saldo como una sola actualización atómica.
func (r *ItemRepo) UpdateStock(id string, stock decimal.Decimal) error {
	query := fmt.Sprintf(`UPDATE %s SET stock = $2, updated_at = now() WHERE id = $1`, r.tables.Items)
	if _, err := r.q.Exec(context.Background(), query, id, stock); err != nil {
		return fmt.Errorf("update stock: %w", err)
	}
	return nil
}

// List lista artículos ordenados por SKU con paginación.
func (r *ItemRepo) List(limit, offset int) ([]*entity.Item, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY sku LIMIT $1 OFFSET $2`, itemColumns, r.tables.Items)
	rows, err := r.q.Query(context.Background(), query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

// ListLowStock artículos con stock en o por debajo del mínimo, más críticos primero.
func (r *ItemRepo) ListLowStock(limit int) ([]*entity.Item, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s
		WHERE stock <= min_stock
		ORDER BY stock - min_stock ASC
		LIMIT $1`, itemColumns, r.tables.Items)
	rows, err := r.q.Query(context.Background(), query, limit)
	if err != nil {
		return nil, fmt.Errorf("list low stock: %w", err)
	}
	defer rows.Close()
	return r.collect(rows)
}

func (r *ItemRepo) collect(rows pgx.Rows) ([]*entity.Item, error) {
	var items []*entity.Item
	for rows.Next() {
		it, err := r.scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}
