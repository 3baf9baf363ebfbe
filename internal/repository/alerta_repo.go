package repository

import (
	"context"

	"ecommerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AlertaRepository interface {
	CreateTx(tx *gorm.DB, a *model.AlertaStock) error
	UpdateTx(tx *gorm.DB, a *model.AlertaStock) error

	// FindPendientePorProductoTx returns the single pending alert for a
	// product, or gorm.ErrRecordNotFound.
	FindPendientePorProductoTx(tx *gorm.DB, productoID uuid.UUID) (*model.AlertaStock, error)

	FindByID(ctx context.Context, id uuid.UUID) (*model.AlertaStock, error)
	Update(ctx context.Context, a *model.AlertaStock) error
	ListPendientes(ctx context.Context) ([]model.AlertaStock, error)
}

type alertaRepo struct{ db *gorm.DB }

func NewAlertaRepository(db *gorm.DB) AlertaRepository { return &alertaRepo{db: db} }

func (r *alertaRepo) CreateTx(tx *gorm.DB, a *model.AlertaStock) error {
	return tx.Create(a).Error
}

func (r *alertaRepo) UpdateTx(tx *gorm.DB, a *model.AlertaStock) error {
	return tx.Omit("Producto").Save(a).Error
}

func (r *alertaRepo) FindPendientePorProductoTx(tx *gorm.DB, productoID uuid.UUID) (*model.AlertaStock, error) {
	var a model.AlertaStock
	err := tx.Where("producto_id = ? AND estado = ?", productoID, model.AlertaPendiente).First(&a).Error
	return &a, err
}

func (r *alertaRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.AlertaStock, error) {
	var a model.AlertaStock
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	return &a, err
}

func (r *alertaRepo) Update(ctx context.Context, a *model.AlertaStock) error {
	return r.db.WithContext(ctx).Omit("Producto").Save(a).Error
}

func (r *alertaRepo) ListPendientes(ctx context.Context) ([]model.AlertaStock, error) {
	var alertas []model.AlertaStock
	err := r.db.WithContext(ctx).
		Preload("Producto").
		Where("estado = ?", model.AlertaPendiente).
		Order("created_at DESC").
		Find(&alertas).Error
	return alertas, err
}
