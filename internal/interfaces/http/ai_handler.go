package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/usecase"
)

// AIHandler maneja las recomendaciones generadas por IA.
type AIHandler struct {
	uc *usecase.AIUseCase
}

// NewAIHandler construye el handler.
func NewAIHandler(uc *usecase.AIUseCase) *AIHandler {
	return &AIHandler{uc: uc}
}

// Insights godoc
// @Summary      Recomendaciones de inventario
// @Description  Envía el resumen actual del almacén al LLM y devuelve
//
//	recomendaciones de reposición y mermas en texto plano.
//
// @Tags         ai
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.InsightsResponse
// @Failure      502  {object}  dto.ErrorResponse
// @Router       /api/ai/insights [get]
func (h *AIHandler) Insights(c *fiber.Ctx) error {
	out, err := h.uc.GetInsights(c.Context())
	if err != nil {
		// El upstream es un servicio externo: sus fallos son 502, no 500.
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "AI_UNAVAILABLE", Message: err.Error()})
	}
	return c.JSON(out)
}
