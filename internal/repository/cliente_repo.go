package repository

import (
	"context"

	"ecommerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ClienteRepository is read-only from the engine's point of view: customers
// are created and maintained by the identity subsystem.
type ClienteRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error)
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Cliente, error) {
	var c model.Cliente
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}
