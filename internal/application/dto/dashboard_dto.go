package dto

import "github.com/shopspring/decimal"

// LowStockItemDTO artículo en o por debajo de su umbral mínimo.
type LowStockItemDTO struct {
	ItemID   string          `json:"item_id"`
	SKU      string          `json:"sku"`
	Name     string          `json:"name"`
	BaseUnit string          `json:"base_unit"`
	Stock    decimal.Decimal `json:"stock"`
	MinStock decimal.Decimal `json:"min_stock"`
}

// DashboardSummaryDTO resumen del dashboard: conteos, totales de movimiento
// de hoy y del mes, stock bajo y rechazos del mes.
type DashboardSummaryDTO struct {
	TotalItems   int               `json:"total_items"`
	TodayIn      decimal.Decimal   `json:"today_in"`
	TodayOut     decimal.Decimal   `json:"today_out"`
	MonthIn      decimal.Decimal   `json:"month_in"`
	MonthOut     decimal.Decimal   `json:"month_out"`
	LowStock     []LowStockItemDTO `json:"low_stock"`
	MonthRejects int               `json:"month_rejects"`
	RejectedQty  decimal.Decimal   `json:"rejected_qty"`
}
