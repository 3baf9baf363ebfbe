package repository

import (
	"context"

	"ecommerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CarritoRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*model.Carrito, error)
	FindByOwner(ctx context.Context, usuarioID, sessionID *string) (*model.Carrito, error)
	Create(ctx context.Context, c *model.Carrito) error

	FindItem(ctx context.Context, carritoID, productoID uuid.UUID) (*model.CarritoItem, error)
	FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.CarritoItem, error)
	CreateItem(ctx context.Context, item *model.CarritoItem) error
	UpdateItem(ctx context.Context, item *model.CarritoItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, carritoID uuid.UUID) error
}

type carritoRepo struct{ db *gorm.DB }

func NewCarritoRepository(db *gorm.DB) CarritoRepository { return &carritoRepo{db: db} }

func (r *carritoRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Carrito, error) {
	var c model.Carrito
	err := r.db.WithContext(ctx).Preload("Items.Producto").First(&c, "id = ?", id).Error
	return &c, err
}

func (r *carritoRepo) FindByOwner(ctx context.Context, usuarioID, sessionID *string) (*model.Carrito, error) {
	q := r.db.WithContext(ctx).Preload("Items.Producto")
	switch {
	case usuarioID != nil:
		q = q.Where("usuario_id = ?", *usuarioID)
	case sessionID != nil:
		q = q.Where("session_id = ?", *sessionID)
	default:
		return nil, gorm.ErrRecordNotFound
	}
	var c model.Carrito
	err := q.First(&c).Error
	return &c, err
}

func (r *carritoRepo) Create(ctx context.Context, c *model.Carrito) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *carritoRepo) FindItem(ctx context.Context, carritoID, productoID uuid.UUID) (*model.CarritoItem, error) {
	var item model.CarritoItem
	err := r.db.WithContext(ctx).
		Where("carrito_id = ? AND producto_id = ?", carritoID, productoID).
		First(&item).Error
	return &item, err
}

func (r *carritoRepo) FindItemByID(ctx context.Context, itemID uuid.UUID) (*model.CarritoItem, error) {
	var item model.CarritoItem
	err := r.db.WithContext(ctx).First(&item, "id = ?", itemID).Error
	return &item, err
}

func (r *carritoRepo) CreateItem(ctx context.Context, item *model.CarritoItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *carritoRepo) UpdateItem(ctx context.Context, item *model.CarritoItem) error {
	return r.db.WithContext(ctx).Omit("Producto").Save(item).Error
}

func (r *carritoRepo) DeleteItem(ctx context.Context, itemID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CarritoItem{}, "id = ?", itemID).Error
}

func (r *carritoRepo) DeleteItems(ctx context.Context, carritoID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.CarritoItem{}, "carrito_id = ?", carritoID).Error
}
