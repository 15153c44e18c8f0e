package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ConversionDTO una unidad alterna declarada: 1 name == factor unidades base.
type ConversionDTO struct {
	Name   string          `json:"name" validate:"required"`
	Factor decimal.Decimal `json:"factor"`
}

// SaveItemRequest body para crear o actualizar un artículo.
// InitialStock solo se honra en la creación; después el stock únicamente
// lo muta el libro.
type SaveItemRequest struct {
	SKU          string          `json:"sku" validate:"required"`
	Name         string          `json:"name" validate:"required"`
	BaseUnit     string          `json:"base_unit" validate:"required"`
	Conversions  []ConversionDTO `json:"conversions" validate:"omitempty,dive"`
	InitialStock decimal.Decimal `json:"initial_stock"`
	MinStock     decimal.Decimal `json:"min_stock"`
}

// ItemResponse representación de un artículo en respuestas.
type ItemResponse struct {
	ID          string          `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	BaseUnit    string          `json:"base_unit"`
	Conversions []ConversionDTO `json:"conversions"`
	Stock       decimal.Decimal `json:"stock"`
	MinStock    decimal.Decimal `json:"min_stock"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
