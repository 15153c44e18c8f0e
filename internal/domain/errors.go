package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound           = errors.New("recurso no encontrado")
	ErrUserNotFound       = errors.New("usuario no encontrado")
	ErrEmailAlreadyExists = errors.New("el email ya está registrado")
	ErrInvalidInput       = errors.New("entrada inválida")
	ErrDuplicate          = errors.New("recurso duplicado")
	ErrUnauthorized       = errors.New("no autorizado")
	ErrForbidden          = errors.New("acceso denegado")

	// ErrUnknownUnit la línea referencia una unidad que no es la unidad base
	// del artículo ni una de sus conversiones declaradas. Nunca se asume la
	// unidad base en silencio: la transacción completa se rechaza.
	ErrUnknownUnit = errors.New("unidad desconocida")

	// ErrItemNotFound la línea referencia un artículo inexistente en el registro.
	ErrItemNotFound = errors.New("artículo no encontrado")

	// ErrRevisionConflict la transacción a editar/eliminar ya no existe
	// (por ejemplo, eliminada de forma concurrente). El caller debe recargar y reintentar.
	ErrRevisionConflict = errors.New("conflicto de revisión")

	// ErrNegativeStock la operación dejaría stock negativo y el caller no lo confirmó.
	// El stock negativo es un estado válido (backorder) pero requiere confirmación explícita.
	ErrNegativeStock = errors.New("la operación dejaría stock negativo")
)

// NegativeStockError detalla qué artículos quedarían con stock negativo.
// Envuelve ErrNegativeStock para que errors.Is siga funcionando en los handlers.
type NegativeStockError struct {
	ItemIDs []string
}

func (e *NegativeStockError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNegativeStock.Error(), strings.Join(e.ItemIDs, ", "))
}

func (e *NegativeStockError) Unwrap() error { return ErrNegativeStock }
