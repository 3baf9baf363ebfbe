package model

import (
	"time"

	"github.com/google/uuid"
)

// TipoAlerta classifies how far below its minimum a product's stock has fallen.
type TipoAlerta string

const (
	AlertaStockAgotado TipoAlerta = "StockAgotado"
	AlertaStockCritico TipoAlerta = "StockCritico"
	AlertaStockBajo    TipoAlerta = "StockBajo"
)

// severidad orders alert types from least to most severe.
var severidad = map[TipoAlerta]int{
	AlertaStockBajo:    1,
	AlertaStockCritico: 2,
	AlertaStockAgotado: 3,
}

// MasSevera reports whether t is strictly more severe than otra.
func (t TipoAlerta) MasSevera(otra TipoAlerta) bool {
	return severidad[t] > severidad[otra]
}

// ClasificarStock is the single canonical threshold function:
//
//	stock == 0                      → StockAgotado
//	0 < stock ≤ 0.5 × stockMinimo   → StockCritico
//	0.5 × min < stock ≤ stockMinimo → StockBajo
//	otherwise                       → no alert
//
// The critical boundary is stock*2 <= stockMinimo, computed in integers so the
// comparison cannot drift between call sites.
func ClasificarStock(stock, stockMinimo int) (TipoAlerta, bool) {
	switch {
	case stock <= 0:
		return AlertaStockAgotado, true
	case stock*2 <= stockMinimo:
		return AlertaStockCritico, true
	case stock <= stockMinimo:
		return AlertaStockBajo, true
	default:
		return "", false
	}
}

// EstadoAlerta is the review state of a stock alert.
type EstadoAlerta string

const (
	AlertaPendiente EstadoAlerta = "Pendiente"
	AlertaRevisada  EstadoAlerta = "Revisado"
)

// AlertaStock is opened when a product crosses a stock threshold downwards and
// closed (never deleted) when an operator reviews it. At most one pending
// alert may exist per product; a partial unique index on
// (producto_id) WHERE estado = 'Pendiente' backs that guarantee.
type AlertaStock struct {
	ID         uuid.UUID    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductoID uuid.UUID    `gorm:"type:uuid;not null;index"`
	Tipo       TipoAlerta   `gorm:"type:varchar(20);not null"`
	Mensaje    string       `gorm:"not null"`
	Estado     EstadoAlerta `gorm:"type:varchar(20);not null;default:'Pendiente'"`

	FechaRevision *time.Time
	RevisadoPor   *string `gorm:"type:varchar(100)"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

// TableName overrides GORM's default pluralization.
func (AlertaStock) TableName() string { return "alertas_stock" }
