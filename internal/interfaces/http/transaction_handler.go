package http

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/almacen-api/internal/application/dto"
	"github.com/jhoicas/almacen-api/internal/application/ledger"
	"github.com/jhoicas/almacen-api/internal/domain"
	"github.com/jhoicas/almacen-api/internal/domain/entity"
	"github.com/jhoicas/almacen-api/internal/domain/repository"
	"github.com/jhoicas/almacen-api/pkg/validator"
)

// TransactionHandler maneja las transacciones de un libro de stock. Se
// instancia dos veces: una contra el libro principal y otra contra el de
// rechazos; la única diferencia observable es que el de rechazos exige motivo
// por línea.
type TransactionHandler struct {
	uc     *ledger.UseCase
	txRepo repository.TransactionRepository
}

// NewTransactionHandler construye el handler para un libro.
func NewTransactionHandler(uc *ledger.UseCase, txRepo repository.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{uc: uc, txRepo: txRepo}
}

func toTransactionInput(in dto.SaveTransactionRequest, userID string) ledger.TransactionInput {
	lines := make([]ledger.LineInput, len(in.Lines))
	for i, l := range in.Lines {
		lines[i] = ledger.LineInput{
			ItemID:   l.ItemID,
			Quantity: l.Quantity,
			Unit:     l.Unit,
			Reason:   l.Reason,
		}
	}
	return ledger.TransactionInput{
		Type:          in.Type,
		Date:          in.Date,
		Lines:         lines,
		AllowNegative: in.AllowNegative,
		UserID:        userID,
	}
}

func toTransactionResponse(tx *entity.Transaction) dto.TransactionResponse {
	lines := make([]dto.TransactionLineResponse, len(tx.Lines))
	for i, l := range tx.Lines {
		lines[i] = dto.TransactionLineResponse{
			ItemID:       l.ItemID,
			Quantity:     l.Quantity,
			Unit:         l.Unit,
			BaseQuantity: l.BaseQuantity,
			Reason:       l.Reason,
		}
	}
	return dto.TransactionResponse{
		ID:        tx.ID,
		Type:      tx.Type,
		Date:      tx.Date,
		Lines:     lines,
		CreatedAt: tx.CreatedAt,
		UpdatedAt: tx.UpdatedAt,
	}
}

// Create godoc
// @Summary      Registrar transacción
// @Description  Registra una entrada o salida de stock. Las cantidades llegan
//
//	en la unidad capturada y se normalizan a unidades base; si el
//	resultado dejaría stock negativo se responde 409 con los
//	artículos afectados, salvo que allow_negative confirme.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.SaveTransactionRequest  true  "type, date, lines, allow_negative"
// @Success      201   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions [post]
func (h *TransactionHandler) Create(c *fiber.Ctx) error {
	var in dto.SaveTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	tx, err := h.uc.CreateTransaction(c.Context(), toTransactionInput(in, GetUserID(c)))
	if err != nil {
		return transactionError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransactionResponse(tx))
}

// Update godoc
// @Summary      Editar transacción
// @Description  Reemplaza el contenido de la transacción. El stock queda como
//
//	si siempre hubiera tenido el contenido nuevo, sin importar
//	cuántas veces se haya editado antes.
//
// @Tags         transactions
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                      true  "ID de la transacción"
// @Param        body  body  dto.SaveTransactionRequest  true  "contenido nuevo completo"
// @Success      200   {object}  dto.TransactionResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [put]
func (h *TransactionHandler) Update(c *fiber.Ctx) error {
	var in dto.SaveTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	if err := validator.Struct(in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	tx, err := h.uc.EditTransaction(c.Context(), c.Params("id"), toTransactionInput(in, GetUserID(c)))
	if err != nil {
		return transactionError(c, err)
	}
	return c.JSON(toTransactionResponse(tx))
}

// Delete godoc
// @Summary      Eliminar transacción
// @Description  Revierte el efecto de la transacción sobre el stock y elimina
//
//	el registro, como si nunca hubiera existido.
//
// @Tags         transactions
// @Security     Bearer
// @Param        id  path  string  true  "ID de la transacción"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [delete]
func (h *TransactionHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.DeleteTransaction(c.Context(), c.Params("id")); err != nil {
		return transactionError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetByID godoc
// @Summary      Consultar transacción
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la transacción"
// @Success      200  {object}  dto.TransactionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/transactions/{id} [get]
func (h *TransactionHandler) GetByID(c *fiber.Ctx) error {
	tx, err := h.txRepo.GetByID(c.Params("id"))
	if err != nil {
		return transactionError(c, err)
	}
	if tx == nil {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "transacción no encontrada"})
	}
	return c.JSON(toTransactionResponse(tx))
}

// List godoc
// @Summary      Listar transacciones
// @Tags         transactions
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "fecha inicial (RFC 3339)"
// @Param        to      query  string  false  "fecha final (RFC 3339)"
// @Param        limit   query  int     false  "máximo por página (default 20)"
// @Param        offset  query  int     false  "desplazamiento"
// @Success      200  {array}  dto.TransactionResponse
// @Router       /api/transactions [get]
func (h *TransactionHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	from, err := parseTimeQuery(c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "from debe ser RFC 3339"})
	}
	to, err := parseTimeQuery(c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "to debe ser RFC 3339"})
	}

	txs, err := h.txRepo.List(from, to, page.Limit, page.Offset)
	if err != nil {
		return transactionError(c, err)
	}
	out := make([]dto.TransactionResponse, len(txs))
	for i, tx := range txs {
		out[i] = toTransactionResponse(tx)
	}
	return c.JSON(fiber.Map{
		"transactions": out,
		"page":         dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

func parseTimeQuery(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// transactionError mapea los errores del motor de libro a HTTP.
func transactionError(c *fiber.Ctx, err error) error {
	var negErr *domain.NegativeStockError
	switch {
	case errors.As(err, &negErr):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code:    "NEGATIVE_STOCK",
			Message: "la operación dejaría stock negativo; repita con allow_negative para confirmar",
			Items:   negErr.ItemIDs,
		})
	case errors.Is(err, domain.ErrRevisionConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "REVISION_CONFLICT", Message: "la transacción ya no existe; recargue y reintente"})
	case errors.Is(err, domain.ErrUnknownUnit):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "UNKNOWN_UNIT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrItemNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "ITEM_NOT_FOUND", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
