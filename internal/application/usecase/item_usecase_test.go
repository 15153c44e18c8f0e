package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

type memItemRepo struct {
	items map[string]*entity.Item
}

func newMemItemRepo() *memItemRepo { return &memItemRepo{items: make(map[string]*entity.Item)} }

func (r *memItemRepo) Create(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *memItemRepo) Update(item *entity.Item) error { r.items[item.ID] = item; return nil }
func (r *memItemRepo) Delete(id string) error         { delete(r.items, id); return nil }

func (r *memItemRepo) GetByID(id string) (*entity.Item, error) {
	it, ok := r.items[id]
	if !ok {
		return nil, nil
	}
	return it, nil
}

func (r *memItemRepo) GetBySKU(sku string) (*entity.Item, error) {
	for _, it := range r.items {
		if it.SKU == sku {
			return it, nil
		}
	}
	return nil, nil
}

func (r *memItemRepo) List(limit, offset int) ([]*entity.Item, error)       { return nil, nil }
func (r *memItemRepo) ListLowStock(limit int) ([]*entity.Item, error)       { return nil, nil }
func (r *memItemRepo) GetForUpdate(id string) (*entity.Item, error)         { return r.GetByID(id) }
func (r *memItemRepo) UpdateStock(id string, stock decimal.Decimal) error   { return nil }

func validRequest() dto.SaveItemRequest {
	return dto.SaveItemRequest{
		SKU:      "TORN-01",
		Name:     "Tornillo 3mm",
		BaseUnit: "pcs",
		Conversions: []dto.ConversionDTO{
			{Name: "Caja", Factor: decimal.NewFromInt(100)},
		},
		InitialStock: decimal.NewFromInt(500),
		MinStock:     decimal.NewFromInt(50),
	}
}

func TestItemCreate_ConConversiones(t *testing.T) {
	uc := usecase.NewItemUseCase(newMemItemRepo())
	resp, err := uc.Create(validRequest())
	require.NoError(t, err)
	assert.Equal(t, "pcs", resp.BaseUnit)
	assert.True(t, resp.Stock.Equal(decimal.NewFromInt(500)), "el stock inicial es el saldo de apertura")
	require.Len(t, resp.Conversions, 1)
}

func TestItemCreate_SKUDuplicado(t *testing.T) {
	uc := usecase.NewItemUseCase(newMemItemRepo())
	_, err := uc.Create(validRequest())
	require.NoError(t, err)
	_, err = uc.Create(validRequest())
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestItemCreate_ConversionInvalida(t *testing.T) {
	cases := []struct {
		name string
		conv dto.ConversionDTO
	}{
		{"factor cero", dto.ConversionDTO{Name: "Caja", Factor: decimal.Zero}},
		{"factor negativo", dto.ConversionDTO{Name: "Caja", Factor: decimal.NewFromInt(-2)}},
		{"repite unidad base", dto.ConversionDTO{Name: "pcs", Factor: decimal.NewFromInt(10)}},
		{"sin nombre", dto.ConversionDTO{Factor: decimal.NewFromInt(10)}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			uc := usecase.NewItemUseCase(newMemItemRepo())
			in := validRequest()
			in.Conversions = []dto.ConversionDTO{tc.conv}
			_, err := uc.Create(in)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestItemCreate_NombresDuplicados(t *testing.T) {
	uc := usecase.NewItemUseCase(newMemItemRepo())
	in := validRequest()
	in.Conversions = []dto.ConversionDTO{
		{Name: "Caja", Factor: decimal.NewFromInt(10)},
		{Name: "Caja", Factor: decimal.NewFromInt(20)},
	}
	_, err := uc.Create(in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestItemUpdate_NoTocaStock(t *testing.T) {
	repo := newMemItemRepo()
	uc := usecase.NewItemUseCase(repo)
	created, err := uc.Create(validRequest())
	require.NoError(t, err)

	in := validRequest()
	in.Name = "Tornillo 3mm galvanizado"
	in.InitialStock = decimal.NewFromInt(9999) // ignorado en update
	resp, err := uc.Update(created.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "Tornillo 3mm galvanizado", resp.Name)
	assert.True(t, resp.Stock.Equal(decimal.NewFromInt(500)), "el stock solo lo muta el libro")
}
