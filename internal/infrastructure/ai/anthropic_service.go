package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/jhoicas/almacen-api/internal/application/ports"
)

// Verificar en tiempo de compilación que AnthropicService implementa LLMService.
var _ ports.LLMService = (*AnthropicService)(nil)

const (
	anthropicMessagesURL = "https://api.anthropic.com/v1/messages"
	anthropicVersion     = "2023-06-01"
	maxTokens            = 1024

	anthropicSystemPrompt = `Eres un asesor de operaciones para pequeños negocios con inventario físico.
Recibirás un resumen del estado actual del almacén (totales de entradas y salidas, artículos con stock bajo y rechazos/mermas recientes).

Responde en español, texto plano sin markdown, máximo 5 viñetas numeradas.
Cada viñeta: una observación concreta sobre el inventario y una acción recomendada.
Prioriza reposición de artículos críticos y causas probables de mermas.
No inventes datos que no estén en el resumen.`
)

// AnthropicService adaptador que implementa LLMService usando la API REST de
// Anthropic (Claude) a través de resty; no requiere el SDK oficial.
type AnthropicService struct {
	apiKey     string
	model      string
	httpClient *resty.Client
}

// NewAnthropicService construye el adaptador.
// model suele ser "claude-3-5-haiku-20241022".
// Si apiKey está vacío las llamadas devuelven error descriptivo en lugar de panic.
func NewAnthropicService(apiKey, model string) *AnthropicService {
	client := resty.New().
		SetHeader("x-api-key", apiKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("content-type", "application/json").
		// Timeout de red de 25 s; el use case impone además su propio context.WithTimeout.
		SetTimeout(25 * time.Second)

	return &AnthropicService{apiKey: apiKey, model: model, httpClient: client}
}

// ── Estructuras internas del protocolo Anthropic Messages API ─────────────────

type anthropicRequest struct {
	Model     string             `json:"model"`
	MaxTokens int                `json:"max_tokens"`
	System    string             `json:"system"`
	Messages  []anthropicMessage `json:"messages"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Error *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// ── Implementación del puerto ─────────────────────────────────────────────────

// GenerateInsights envía el resumen del almacén a Claude y devuelve sus
// recomendaciones como texto plano.
func (s *AnthropicService) GenerateInsights(ctx context.Context, summary string) (string, error) {
	if s.apiKey == "" {
		return "", fmt.Errorf("AI: ANTHROPIC_API_KEY no configurado")
	}

	payload := anthropicRequest{
		Model:     s.model,
		MaxTokens: maxTokens,
		System:    anthropicSystemPrompt,
		Messages: []anthropicMessage{
			{Role: "user", Content: summary},
		},
	}

	var parsed anthropicResponse
	resp, err := s.httpClient.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&parsed).
		SetError(&parsed).
		Post(anthropicMessagesURL)
	if err != nil {
		if ctx.Err() != nil {
			return "", fmt.Errorf("AI: timeout o cancelación: %w", ctx.Err())
		}
		return "", fmt.Errorf("AI: llamada HTTP fallida: %w", err)
	}
	if resp.IsError() {
		if parsed.Error != nil {
			return "", fmt.Errorf("AI: Anthropic error (%s): %s", parsed.Error.Type, parsed.Error.Message)
		}
		return "", fmt.Errorf("AI: Anthropic HTTP %d: %s", resp.StatusCode(), resp.String())
	}
	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("AI: Claude devolvió respuesta vacía")
	}

	return strings.TrimSpace(parsed.Content[0].Text), nil
}
