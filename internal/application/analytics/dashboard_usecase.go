// Package analytics contiene los casos de uso read-only para el dashboard
// del inventario.
package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
)

const dashboardLowStockLimit = 10 // artículos en el widget de stock bajo

// DashboardUseCase genera el resumen del día y del mes en curso.
//
// Fuente de datos: AnalyticsRepository (consultas read-only). Puede correr en
// paralelo con escritores; tolera ver un stock pre o post actualización de una
// transacción en vuelo.
type DashboardUseCase struct {
	analyticsRepo repository.AnalyticsRepository
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(analyticsRepo repository.AnalyticsRepository) *DashboardUseCase {
	return &DashboardUseCase{analyticsRepo: analyticsRepo}
}

// GetSummary construye el DashboardSummaryDTO.
//
// Cuatro llamadas en paralelo:
//  1. CountItems
//  2. MovementTotals(hoy) y MovementTotals(mes)
//  3. ListLowStock
//  4. RejectTotals(mes)
func (uc *DashboardUseCase) GetSummary(ctx context.Context) (*dto.DashboardSummaryDTO, error) {
	now := time.Now()
	todayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	todayEnd := todayStart.Add(24*time.Hour - time.Nanosecond)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	type totalsResult struct {
		in, out decimal.Decimal
		err     error
	}
	type lowStockResult struct {
		items []dto.LowStockItemDTO
		err   error
	}
	type rejectsResult struct {
		qty   decimal.Decimal
		count int
		err   error
	}
	type countResult struct {
		n   int
		err error
	}

	countCh := make(chan countResult, 1)
	todayCh := make(chan totalsResult, 1)
	monthCh := make(chan totalsResult, 1)
	lowCh := make(chan lowStockResult, 1)
	rejCh := make(chan rejectsResult, 1)

	go func() {
		n, err := uc.analyticsRepo.CountItems(ctx)
		countCh <- countResult{n, err}
	}()
	go func() {
		in, out, err := uc.analyticsRepo.MovementTotals(ctx, todayStart, todayEnd)
		todayCh <- totalsResult{in, out, err}
	}()
	go func() {
		in, out, err := uc.analyticsRepo.MovementTotals(ctx, monthStart, todayEnd)
		monthCh <- totalsResult{in, out, err}
	}()
	go func() {
		items, err := uc.analyticsRepo.ListLowStock(ctx, dashboardLowStockLimit)
		if err != nil {
			lowCh <- lowStockResult{nil, err}
			return
		}
		dtos := make([]dto.LowStockItemDTO, 0, len(items))
		for _, it := range items {
			dtos = append(dtos, dto.LowStockItemDTO{
				ItemID:   it.ID,
				SKU:      it.SKU,
				Name:     it.Name,
				BaseUnit: it.BaseUnit,
				Stock:    it.Stock,
				MinStock: it.MinStock,
			})
		}
		lowCh <- lowStockResult{dtos, nil}
	}()
	go func() {
		qty, count, err := uc.analyticsRepo.RejectTotals(ctx, monthStart, todayEnd)
		rejCh <- rejectsResult{qty, count, err}
	}()

	count := <-countCh
	today := <-todayCh
	month := <-monthCh
	low := <-lowCh
	rej := <-rejCh

	if count.err != nil {
		return nil, fmt.Errorf("dashboard: conteo de artículos: %w", count.err)
	}
	if today.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos de hoy: %w", today.err)
	}
	if month.err != nil {
		return nil, fmt.Errorf("dashboard: movimientos del mes: %w", month.err)
	}
	if low.err != nil {
		return nil, fmt.Errorf("dashboard: stock bajo: %w", low.err)
	}
	if rej.err != nil {
		return nil, fmt.Errorf("dashboard: rechazos: %w", rej.err)
	}

	return &dto.DashboardSummaryDTO{
		TotalItems:   count.n,
		TodayIn:      today.in,
		TodayOut:     today.out,
		MonthIn:      month.in,
		MonthOut:     month.out,
		LowStock:     low.items,
		MonthRejects: rej.count,
		RejectedQty:  rej.qty,
	}, nil
}
