package service

import (
	"errors"
	"fmt"

	"ecommerce/internal/model"

	"github.com/google/uuid"
)

// Sentinel errors. Callers distinguish three classes:
//   - business-rule rejections (do not retry as-is),
//   - concurrency conflicts (nothing was committed, safe to resubmit),
//   - storage failures (opaque, logged upstream).
var (
	ErrOrdenNoEncontrada   = errors.New("orden no encontrada")
	ErrClienteNoEncontrado = errors.New("cliente no encontrado")
	ErrAlertaNoEncontrada  = errors.New("alerta no encontrada")
	ErrAlertaYaRevisada    = errors.New("la alerta ya fue revisada")
	ErrCarritoNoEncontrado = errors.New("carrito no encontrado")
	ErrItemNoEncontrado    = errors.New("item de carrito no encontrado")
	ErrCarritoVacio        = errors.New("el carrito está vacío")
	ErrOrdenSinItems       = errors.New("la orden debe contener al menos un producto")
	ErrCantidadInvalida    = errors.New("la cantidad debe ser mayor a cero")

	// ErrConflictoOrden: two same-day orders raced the number generator and
	// the unique index rejected the second insert. Nothing was committed.
	ErrConflictoOrden = errors.New("conflicto de concurrencia al generar el número de orden")

	// ErrConflictoStock: the guarded decrement found less stock than the
	// locked pre-flight read. Nothing was committed.
	ErrConflictoStock = errors.New("conflicto de concurrencia al descontar stock")
)

// ProductoNoEncontradoError identifies which requested product is missing or
// inactive so the caller can render a per-line message.
type ProductoNoEncontradoError struct {
	ProductoID uuid.UUID
}

func (e *ProductoNoEncontradoError) Error() string {
	return fmt.Sprintf("producto %s no encontrado", e.ProductoID)
}

// StockInsuficienteError carries available vs requested quantities.
type StockInsuficienteError struct {
	ProductoID uuid.UUID
	Nombre     string
	Disponible int
	Solicitado int
}

func (e *StockInsuficienteError) Error() string {
	return fmt.Sprintf("stock insuficiente para %s: disponible %d, solicitado %d",
		e.Nombre, e.Disponible, e.Solicitado)
}

// TransicionInvalidaError reports an order status change the state machine
// does not allow.
type TransicionInvalidaError struct {
	Desde model.EstadoOrden
	Hacia model.EstadoOrden
}

func (e *TransicionInvalidaError) Error() string {
	return fmt.Sprintf("transición de estado inválida: %s → %s", e.Desde, e.Hacia)
}

// EsConflicto reports whether err is a retryable concurrency conflict: the
// operation committed nothing and the caller may resubmit the same request.
func EsConflicto(err error) bool {
	return errors.Is(err, ErrConflictoOrden) || errors.Is(err, ErrConflictoStock)
}
