package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionLineRequest línea tal como la captura el usuario: cantidad en la
// unidad ingresada. La cantidad base se deriva en el motor de libro.
type TransactionLineRequest struct {
	ItemID   string          `json:"item_id" validate:"required"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit" validate:"required"`
	Reason   string          `json:"reason,omitempty"` // obligatorio en el libro de rechazos
}

// SaveTransactionRequest body para crear o editar una transacción.
type SaveTransactionRequest struct {
	Type string    `json:"type" validate:"required,oneof=IN OUT"`
	Date time.Time `json:"date"`
	// AllowNegative confirma dejar stock negativo (backorder) si la operación
	// lo produce; sin confirmación se responde 409 con los artículos afectados.
	AllowNegative bool                     `json:"allow_negative"`
	Lines         []TransactionLineRequest `json:"lines" validate:"required,min=1,dive"`
}

// TransactionLineResponse línea con su cantidad base derivada.
type TransactionLineResponse struct {
	ItemID       string          `json:"item_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	BaseQuantity decimal.Decimal `json:"base_quantity"`
	Reason       string          `json:"reason,omitempty"`
}

// TransactionResponse representación de una transacción en respuestas.
type TransactionResponse struct {
	ID        string                    `json:"id"`
	Type      string                    `json:"type"`
	Date      time.Time                 `json:"date"`
	Lines     []TransactionLineResponse `json:"lines"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// StockCardEntryDTO un renglón del kardex: la transacción, su efecto firmado
// sobre el artículo y el saldo después de ella, en unidades base.
type StockCardEntryDTO struct {
	TransactionID string          `json:"transaction_id"`
	Type          string          `json:"type"`
	Date          time.Time       `json:"date"`
	Delta         decimal.Decimal `json:"delta"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
}

// StockCardResponse kardex completo de un artículo, más reciente primero.
type StockCardResponse struct {
	ItemID   string              `json:"item_id"`
	SKU      string              `json:"sku"`
	Name     string              `json:"name"`
	BaseUnit string              `json:"base_unit"`
	Stock    decimal.Decimal     `json:"stock"`
	Entries  []StockCardEntryDTO `json:"entries"`
	// Warnings unidades históricas que ya no resuelven contra la definición
	// actual del artículo (advertencias de integridad).
	Warnings []string `json:"warnings,omitempty"`
}
