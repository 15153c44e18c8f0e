package usecase

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

// ItemUseCase casos de uso CRUD para artículos de un libro (principal o
// rechazos). El Stock solo se fija al crear; después lo maneja el motor de
// libro vía transacciones.
type ItemUseCase struct {
	repo repository.ItemRepository
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository) *ItemUseCase {
	return &ItemUseCase{repo: repo}
}

// validateConversions verifica nombres únicos, distintos de la unidad base y
// factores estrictamente positivos.
func validateConversions(baseUnit string, in []dto.ConversionDTO) ([]entity.UnitConversion, error) {
	seen := make(map[string]bool, len(in))
	out := make([]entity.UnitConversion, 0, len(in))
	for _, c := range in {
		if c.Name == "" {
			return nil, fmt.Errorf("%w: conversión sin nombre", domain.ErrInvalidInput)
		}
		if c.Name == baseUnit {
			return nil, fmt.Errorf("%w: la conversión %q repite la unidad base", domain.ErrInvalidInput, c.Name)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("%w: conversión %q duplicada", domain.ErrInvalidInput, c.Name)
		}
		if !c.Factor.GreaterThan(decimal.Zero) {
			return nil, fmt.Errorf("%w: conversión %q con factor no positivo", domain.ErrInvalidInput, c.Name)
		}
		seen[c.Name] = true
		out = append(out, entity.UnitConversion{Name: c.Name, Factor: c.Factor})
	}
	return out, nil
}

// Create crea un artículo. InitialStock se toma como saldo de apertura en
// unidades base.
func (uc *ItemUseCase) Create(in dto.SaveItemRequest) (*dto.ItemResponse, error) {
	existing, _ := uc.repo.GetBySKU(in.SKU)
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if in.BaseUnit == "" {
		return nil, fmt.Errorf("%w: unidad base vacía", domain.ErrInvalidInput)
	}
	if in.MinStock.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: min_stock negativo", domain.ErrInvalidInput)
	}
	conversions, err := validateConversions(in.BaseUnit, in.Conversions)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	item := &entity.Item{
		ID:          uuid.New().String(),
		SKU:         in.SKU,
		Name:        in.Name,
		BaseUnit:    in.BaseUnit,
		Conversions: conversions,
		Stock:       in.InitialStock,
		MinStock:    in.MinStock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := uc.repo.Create(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetByID obtiene un artículo por ID. Devuelve (nil, nil) si no existe.
func (uc *ItemUseCase) GetByID(id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	return toItemResponse(item), nil
}

// Update actualiza los datos maestros del artículo. No permite modificar el
// Stock (se maneja vía transacciones). Renombrar o eliminar una conversión no
// reescribe el histórico: las líneas antiguas conservan su cantidad base y la
// unidad obsoleta aparecerá como advertencia de integridad en el kardex.
func (uc *ItemUseCase) Update(id string, in dto.SaveItemRequest) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}
	if in.BaseUnit == "" {
		return nil, fmt.Errorf("%w: unidad base vacía", domain.ErrInvalidInput)
	}
	if in.MinStock.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: min_stock negativo", domain.ErrInvalidInput)
	}
	conversions, err := validateConversions(in.BaseUnit, in.Conversions)
	if err != nil {
		return nil, err
	}
	if in.SKU != item.SKU {
		existing, _ := uc.repo.GetBySKU(in.SKU)
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	item.SKU = in.SKU
	item.Name = in.Name
	item.BaseUnit = in.BaseUnit
	item.Conversions = conversions
	item.MinStock = in.MinStock
	item.UpdatedAt = time.Now()
	if err := uc.repo.Update(item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// Delete elimina un artículo del registro. Las transacciones históricas que
// lo referencien pasan a reportarse como errores de integridad al revertirse.
func (uc *ItemUseCase) Delete(id string) error {
	item, err := uc.repo.GetByID(id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(id)
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(limit, offset int) ([]dto.ItemResponse, error) {
	items, err := uc.repo.List(limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ItemResponse, 0, len(items))
	for _, it := range items {
		out = append(out, *toItemResponse(it))
	}
	return out, nil
}

func toItemResponse(item *entity.Item) *dto.ItemResponse {
	convs := make([]dto.ConversionDTO, 0, len(item.Conversions))
	for _, c := range item.Conversions {
		convs = append(convs, dto.ConversionDTO{Name: c.Name, Factor: c.Factor})
	}
	return &dto.ItemResponse{
		ID:          item.ID,
		SKU:         item.SKU,
		Name:        item.Name,
		BaseUnit:    item.BaseUnit,
		Conversions: convs,
		Stock:       item.Stock,
		MinStock:    item.MinStock,
		LowStock:    item.IsLowStock(),
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
