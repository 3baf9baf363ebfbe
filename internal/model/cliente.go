package model

import (
	"time"

	"github.com/google/uuid"
)

// Cliente is owned by the identity/customer subsystem; the order engine only
// reads it to validate the buyer and default the shipping address.
type Cliente struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Nombre    string    `gorm:"not null"`
	Email     string    `gorm:"uniqueIndex;not null"`
	Telefono  *string
	Direccion *string
	Activo    bool `gorm:"not null;default:true"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
