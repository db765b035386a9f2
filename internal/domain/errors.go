package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
)

// Error agrega contexto (ítem, campo) a un error de dominio.
// Unwrap devuelve el sentinel, así que errors.Is(err, ErrNotFound) sigue funcionando.
type Error struct {
	Kind    error
	Message string
	ItemID  string
	Field   string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Kind }

// Validation construye un error de validación sobre un campo de entrada.
func Validation(field, format string, args ...any) error {
	return &Error{Kind: ErrInvalidInput, Field: field, Message: fmt.Sprintf(format, args...)}
}

// NotFound indica que el recurso (ítem, movimiento, batch) con ese id no existe.
func NotFound(resource, id string) error {
	return &Error{Kind: ErrNotFound, ItemID: id, Message: fmt.Sprintf("%s %s no existe", resource, id)}
}

// InsufficientStock indica que una operación dejaría un saldo negativo en el ítem.
// logID identifica el primer movimiento cuyo saldo quedaría negativo (vacío si no aplica).
func InsufficientStock(itemID, logID string, balance decimal.Decimal) error {
	msg := fmt.Sprintf("el saldo quedaría en %s", balance.String())
	if logID != "" {
		msg = fmt.Sprintf("el saldo del movimiento %s quedaría en %s", logID, balance.String())
	}
	return &Error{Kind: ErrInsufficientStock, ItemID: itemID, Field: "quantity", Message: msg}
}

// Conflict indica contención de locks o una petición ya procesada.
func Conflict(itemID, format string, args ...any) error {
	return &Error{Kind: ErrConflict, ItemID: itemID, Message: fmt.Sprintf(format, args...)}
}

// Details extrae ItemID y Field de un error de dominio (vacíos si no los tiene).
func Details(err error) (itemID, field string) {
	var de *Error
	if errors.As(err, &de) {
		return de.ItemID, de.Field
	}
	return "", ""
}
