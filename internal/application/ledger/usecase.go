// Package ledger orquesta el ciclo de vida de las transacciones de inventario
// contra el motor de libro: creación, edición como revertir-y-reaplicar y
// eliminación como reversión. Una instancia por libro (principal y rechazos);
// los dos registros nunca comparten estado de stock.
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	domledger "github.com/jhoicas/almacen-api/internal/domain/ledger"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/logger"
)

// Options comportamiento específico del libro.
type Options struct {
	// RequireReason exige motivo en cada línea (libro de rechazos).
	RequireReason bool
}

// UseCase casos de uso del libro de stock: registrar, editar y eliminar
// transacciones de forma transaccional, con bloqueo de fila y Commit/Rollback.
type UseCase struct {
	txRunner TxRunner
	opts     Options
	log      *logger.Logger
}

// NewUseCase construye el caso de uso del libro.
func NewUseCase(txRunner TxRunner, opts Options, log *logger.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, opts: opts, log: log}
}

// LineInput línea tal como llega de la capa HTTP/importación, ya tipada y
// validada en forma; la resolución de unidades ocurre aquí, antes de cualquier
// mutación (admisión todo-o-nada).
type LineInput struct {
	ItemID   string
	Quantity decimal.Decimal // en Unit, > 0
	Unit     string
	Reason   string // obligatorio solo en el libro de rechazos
}

// TransactionInput entrada para crear o editar una transacción.
type TransactionInput struct {
	Type  string // IN | OUT
	Date  time.Time
	Lines []LineInput
	// AllowNegative confirma que el caller acepta dejar stock negativo
	// (sobreventa/backorder). Sin confirmación la operación se rechaza con
	// NegativeStockError detallando los artículos afectados.
	AllowNegative bool
	UserID        string
}

func (in *TransactionInput) validate(requireReason bool) error {
	if in.Type != entity.TransactionTypeIN && in.Type != entity.TransactionTypeOUT {
		return fmt.Errorf("%w: tipo %q", domain.ErrInvalidInput, in.Type)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la transacción no tiene líneas", domain.ErrInvalidInput)
	}
	for i, line := range in.Lines {
		if line.ItemID == "" || line.Unit == "" {
			return fmt.Errorf("%w: línea %d incompleta", domain.ErrInvalidInput, i+1)
		}
		if !line.Quantity.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: línea %d con cantidad no positiva", domain.ErrInvalidInput, i+1)
		}
		if requireReason && line.Reason == "" {
			return fmt.Errorf("%w: línea %d sin motivo de rechazo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// CreateTransaction valida y normaliza todas las líneas, verifica el stock
// resultante y aplica el delta agregado por artículo junto con la persistencia
// del registro, todo dentro de una transacción de BD.
func (uc *UseCase) CreateTransaction(ctx context.Context, in TransactionInput) (*entity.Transaction, error) {
	if err := in.validate(uc.opts.RequireReason); err != nil {
		return nil, err
	}
	now := time.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	tx := &entity.Transaction{
		ID:        uuid.New().String(),
		Type:      in.Type,
		Date:      date,
		CreatedAt: now,
		UpdatedAt: now,
		CreatedBy: in.UserID,
	}

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) error {
		lines, err := uc.normalizeLines(itemRepo, in.Lines)
		if err != nil {
			return err
		}
		tx.Lines = lines

		deltas := domledger.SignedDeltas(lines, tx.Type, +1)
		if err := uc.checkNegative(itemRepo, deltas, in.AllowNegative); err != nil {
			return err
		}
		if err := txRepo.Create(tx); err != nil {
			return err
		}
		return uc.applyDeltas(itemRepo, deltas)
	})
	if err != nil {
		return nil, err
	}
	return tx, nil
}

// EditTransaction reemplaza el contenido de una transacción existente.
//
// Primero revierte el delta de la transacción ANTIGUA usando su propio tipo y
// líneas registradas, y luego aplica el delta del contenido nuevo. Este
// revertir-y-reaplicar es la propiedad de corrección central del libro: tras
// la edición el stock queda como si la transacción siempre hubiera tenido su
// contenido nuevo, sin importar cuántas veces se haya editado antes.
// Si la transacción antigua ya no existe se aborta todo con
// ErrRevisionConflict; aplicar solo el delta nuevo corrompería el stock en
// silencio.
func (uc *UseCase) EditTransaction(ctx context.Context, id string, in TransactionInput) (*entity.Transaction, error) {
	if err := in.validate(uc.opts.RequireReason); err != nil {
		return nil, err
	}
	var updated *entity.Transaction

	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) error {
		old, err := txRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("%w: transacción %s", domain.ErrRevisionConflict, id)
		}

		lines, err := uc.normalizeLines(itemRepo, in.Lines)
		if err != nil {
			return err
		}

		revert := domledger.SignedDeltas(old.Lines, old.Type, -1)
		apply := domledger.SignedDeltas(lines, in.Type, +1)
		// El efecto neto se verifica antes de mutar nada: ninguna otra
		// escritura puede intercalarse entre revertir y reaplicar.
		if err := uc.checkNegative(itemRepo, domledger.MergeDeltas(revert, apply), in.AllowNegative); err != nil {
			return err
		}

		if err := uc.applyDeltas(itemRepo, revert); err != nil {
			return err
		}
		if err := uc.applyDeltas(itemRepo, apply); err != nil {
			return err
		}

		date := in.Date
		if date.IsZero() {
			date = old.Date
		}
		updated = &entity.Transaction{
			ID:        old.ID,
			Type:      in.Type,
			Date:      date,
			Lines:     lines,
			CreatedAt: old.CreatedAt,
			UpdatedAt: time.Now(),
			CreatedBy: old.CreatedBy,
		}
		return txRepo.Replace(updated)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteTransaction revierte el delta de la transacción (usando su tipo y
// líneas registradas) y elimina el registro, en una sola transacción de BD.
// El stock queda igual que antes de haberla creado.
func (uc *UseCase) DeleteTransaction(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, txRepo repository.TransactionRepository) error {
		old, err := txRepo.GetForUpdate(id)
		if err != nil {
			return err
		}
		if old == nil {
			return fmt.Errorf("%w: transacción %s", domain.ErrRevisionConflict, id)
		}
		if err := uc.applyDeltas(itemRepo, domledger.SignedDeltas(old.Lines, old.Type, -1)); err != nil {
			return err
		}
		return txRepo.Delete(id)
	})
}

// normalizeLines resuelve cada línea a unidades base bloqueando la fila del
// artículo (la validación ocurre antes de cualquier mutación y deja las filas
// serializadas para el resto de la operación). Artículo inexistente o unidad
// desconocida rechazan la transacción completa.
func (uc *UseCase) normalizeLines(itemRepo repository.ItemRepository, in []LineInput) ([]entity.TransactionLine, error) {
	lines := make([]entity.TransactionLine, 0, len(in))
	for _, li := range in {
		item, err := itemRepo.GetForUpdate(li.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, fmt.Errorf("%w: %s", domain.ErrItemNotFound, li.ItemID)
		}
		baseQty, err := domledger.ToBase(li.Quantity, li.Unit, item)
		if err != nil {
			return nil, err
		}
		lines = append(lines, entity.TransactionLine{
			ItemID:       li.ItemID,
			Quantity:     li.Quantity,
			Unit:         li.Unit,
			BaseQuantity: baseQty,
			Reason:       li.Reason,
		})
	}
	return lines, nil
}

// checkNegative verifica qué artículos quedarían con saldo negativo tras
// aplicar los deltas. Sin confirmación del caller se rechaza con el detalle.
func (uc *UseCase) checkNegative(itemRepo repository.ItemRepository, deltas []domledger.ItemDelta, allow bool) error {
	if allow {
		return nil
	}
	var negative []string
	for _, d := range deltas {
		item, err := itemRepo.GetForUpdate(d.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			continue // se reporta al aplicar
		}
		if item.Stock.Add(d.BaseQuantity).LessThan(decimal.Zero) {
			negative = append(negative, d.ItemID)
		}
	}
	if len(negative) > 0 {
		return &domain.NegativeStockError{ItemIDs: negative}
	}
	return nil
}

// applyDeltas suma cada delta agregado al stock del artículo como un solo
// incremento atómico. Un artículo referenciado que ya no existe se salta y se
// reporta como error de integridad; el libro jamás crea artículos fantasma
// (la autocreación, donde exista, es decisión del flujo de importación).
func (uc *UseCase) applyDeltas(itemRepo repository.ItemRepository, deltas []domledger.ItemDelta) error {
	for _, d := range deltas {
		item, err := itemRepo.GetForUpdate(d.ItemID)
		if err != nil {
			return err
		}
		if item == nil {
			uc.log.Warn().Str("item_id", d.ItemID).
				Msg("delta sobre artículo inexistente: línea omitida (error de integridad)")
			continue
		}
		if err := itemRepo.UpdateStock(d.ItemID, item.Stock.Add(d.BaseQuantity)); err != nil {
			return err
		}
	}
	return nil
}
