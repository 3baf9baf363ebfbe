package model

import (
	"time"

	"github.com/google/uuid"
)

// Carrito accumulates line items prior to checkout. It belongs either to an
// authenticated user or to an anonymous session.
type Carrito struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UsuarioID *string   `gorm:"type:varchar(100);index"`
	SessionID *string   `gorm:"type:varchar(100);index"`
	CreatedAt time.Time
	UpdatedAt time.Time

	Items []CarritoItem `gorm:"foreignKey:CarritoID"`
}

func (Carrito) TableName() string { return "carritos" }

// CarritoItem holds no price snapshot: prices are read from the catalog at
// checkout time, when the order line freezes them.
type CarritoItem struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	CarritoID  uuid.UUID `gorm:"type:uuid;not null;index"`
	ProductoID uuid.UUID `gorm:"type:uuid;not null;index"`
	Cantidad   int       `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Producto *Producto `gorm:"foreignKey:ProductoID"`
}

func (CarritoItem) TableName() string { return "carrito_items" }
