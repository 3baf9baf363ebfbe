package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoMovimiento is the closed movement-kind enumeration for the kardex.
type TipoMovimiento string

const (
	MovSalidaVenta   TipoMovimiento = "SALIDA_VENTA"
	MovDevolucion    TipoMovimiento = "DEVOLUCION"
	MovAjusteEntrada TipoMovimiento = "AJUSTE_ENTRADA"
	MovAjusteSalida  TipoMovimiento = "AJUSTE_SALIDA"
)

// EsEntrada reports whether the movement increases stock.
func (t TipoMovimiento) EsEntrada() bool {
	return t == MovDevolucion || t == MovAjusteEntrada
}

// Valido reports whether t is a known movement kind.
func (t TipoMovimiento) Valido() bool {
	switch t {
	case MovSalidaVenta, MovDevolucion, MovAjusteEntrada, MovAjusteSalida:
		return true
	}
	return false
}

// Kardex is one immutable entry of the inventory movement ledger. Rows are
// append-only: they are created as a side effect of a stock mutation, in the
// same transaction, and never updated or deleted afterwards.
// Invariant: StockNuevo = StockAnterior + Cantidad for inbound kinds and
// StockAnterior - Cantidad for outbound kinds.
type Kardex struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID     uuid.UUID      `gorm:"type:uuid;not null;index"`
	TipoMovimiento TipoMovimiento `gorm:"type:varchar(30);not null"`
	Cantidad       int            `gorm:"not null"` // always positive; direction comes from TipoMovimiento
	StockAnterior  int            `gorm:"not null"`
	StockNuevo     int            `gorm:"not null"`
	Referencia     string         // usually the order number
	Descripcion    *string
	UsuarioID      *string `gorm:"type:varchar(100)"`
	CreatedAt      time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName keeps the traditional singular ledger name.
func (Kardex) TableName() string { return "kardex" }
