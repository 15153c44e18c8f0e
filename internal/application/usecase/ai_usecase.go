package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/almacen-api/internal/application/analytics"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ports"
)

// llamada al LLM acotada aparte del timeout de red del cliente HTTP
const insightsTimeout = 15 * time.Second

// AIUseCase genera recomendaciones de inventario en lenguaje natural a partir
// del resumen del dashboard.
type AIUseCase struct {
	dashboardUC *analytics.DashboardUseCase
	llm         ports.LLMService
}

// NewAIUseCase construye el caso de uso.
func NewAIUseCase(dashboardUC *analytics.DashboardUseCase, llm ports.LLMService) *AIUseCase {
	return &AIUseCase{dashboardUC: dashboardUC, llm: llm}
}

// GetInsights arma el resumen de inventario y pide al LLM recomendaciones.
func (uc *AIUseCase) GetInsights(ctx context.Context) (*dto.InsightsResponse, error) {
	summary, err := uc.dashboardUC.GetSummary(ctx)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, insightsTimeout)
	defer cancel()

	text, err := uc.llm.GenerateInsights(ctx, buildSummaryPrompt(summary))
	if err != nil {
		return nil, fmt.Errorf("insights: %w", err)
	}
	return &dto.InsightsResponse{Insights: text}, nil
}

func buildSummaryPrompt(s *dto.DashboardSummaryDTO) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Artículos registrados: %d\n", s.TotalItems)
	fmt.Fprintf(&b, "Entradas del mes (unidades base): %s\n", s.MonthIn)
	fmt.Fprintf(&b, "Salidas del mes (unidades base): %s\n", s.MonthOut)
	fmt.Fprintf(&b, "Rechazos del mes: %d transacciones, %s unidades\n", s.MonthRejects, s.RejectedQty)
	if len(s.LowStock) > 0 {
		b.WriteString("Artículos con stock bajo:\n")
		for _, it := range s.LowStock {
			fmt.Fprintf(&b, "- %s (%s): %s de mínimo %s %s\n", it.Name, it.SKU, it.Stock, it.MinStock, it.BaseUnit)
		}
	}
	return b.String()
}
