package ports

import "context"

// LLMService puerto hacia el proveedor de modelos de lenguaje que genera el
// texto de recomendaciones del inventario. La capa de aplicación no conoce el
// protocolo HTTP ni el proveedor concreto.
type LLMService interface {
	// GenerateInsights recibe el resumen del inventario en texto plano y
	// devuelve recomendaciones en español.
	GenerateInsights(ctx context.Context, summary string) (string, error)
}
