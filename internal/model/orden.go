package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EstadoOrden is the closed order status enumeration. Transitions between
// states are governed exclusively by service.OrdenService.
type EstadoOrden string

const (
	EstadoPendiente  EstadoOrden = "Pendiente"
	EstadoConfirmado EstadoOrden = "Confirmado"
	EstadoEnviado    EstadoOrden = "Enviado"
	EstadoEntregado  EstadoOrden = "Entregado"
	EstadoCancelado  EstadoOrden = "Cancelado"
)

// Valido reports whether e is one of the known order states.
func (e EstadoOrden) Valido() bool {
	switch e {
	case EstadoPendiente, EstadoConfirmado, EstadoEnviado, EstadoEntregado, EstadoCancelado:
		return true
	}
	return false
}

// Terminal reports whether no further transition is allowed from e.
func (e EstadoOrden) Terminal() bool {
	return e == EstadoEntregado || e == EstadoCancelado
}

// Orden is created once by the checkout orchestrator and then only advances
// through the state machine; it is never deleted. Totals satisfy
// Total = sum(detalle.Subtotal) - Descuento + Impuesto + CostoEnvio and are
// computed exactly once at creation.
type Orden struct {
	ID          uuid.UUID   `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	NumeroOrden string      `gorm:"uniqueIndex;not null"` // "20250413-0007"
	ClienteID   uuid.UUID   `gorm:"type:uuid;not null;index"`
	Estado      EstadoOrden `gorm:"type:varchar(20);not null;default:'Pendiente'"`

	Subtotal   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Descuento  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Impuesto   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	CostoEnvio decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Total      decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	DireccionEnvio *string
	NotasCliente   *string
	// NotasInternas is an append-only log of administrative actions
	// (cancellations etc.); lines are added, never rewritten.
	NotasInternas *string

	FechaPago    *time.Time
	FechaEnvio   *time.Time
	FechaEntrega *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	Cliente  *Cliente       `gorm:"foreignKey:ClienteID"`
	Detalles []OrdenDetalle `gorm:"foreignKey:OrdenID"`
}

// TableName overrides GORM's default pluralization (ordens → ordenes).
func (Orden) TableName() string { return "ordenes" }

// OrdenDetalle is one order line. PrecioUnitario is snapshotted from the
// product at creation time; later catalog price changes never touch it.
type OrdenDetalle struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrdenID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductoID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	Cantidad       int             `gorm:"not null"`
	PrecioUnitario decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Descuento      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null"`

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (OrdenDetalle) TableName() string { return "orden_detalles" }
