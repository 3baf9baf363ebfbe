package repository

import (
	"context"

	"ecommerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type OrdenRepository interface {
	CreateTx(tx *gorm.DB, o *model.Orden) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error)

	// FindByIDForUpdateTx locks the order row so concurrent transitions on the
	// same order serialize (double-cancel guard).
	FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Orden, error)

	UpdateTx(tx *gorm.DB, o *model.Orden) error
	ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Orden, error)

	// UltimaSecuenciaDelDiaTx returns the highest sequence already issued under
	// the day prefix ("20250413"), or 0 when no order exists for that day.
	// The suffix is compared numerically: past 9999 the width grows, so the
	// lexical order of numero_orden stops matching the numeric one.
	// Must be called inside the same transaction that inserts the new order;
	// the unique index on numero_orden backstops any remaining race.
	UltimaSecuenciaDelDiaTx(tx *gorm.DB, prefijo string) (int, error)

	DB() *gorm.DB
}

type ordenRepo struct{ db *gorm.DB }

func NewOrdenRepository(db *gorm.DB) OrdenRepository { return &ordenRepo{db: db} }

func (r *ordenRepo) CreateTx(tx *gorm.DB, o *model.Orden) error {
	return tx.Create(o).Error
}

func (r *ordenRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Detalles.Producto").
		First(&o, "id = ?", id).Error
	return &o, err
}

func (r *ordenRepo) FindByIDForUpdateTx(tx *gorm.DB, id uuid.UUID) (*model.Orden, error) {
	var o model.Orden
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	// Preload separately: FOR UPDATE cannot lock an outer-joined row set.
	if err := tx.Where("orden_id = ?", id).Find(&o.Detalles).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *ordenRepo) UpdateTx(tx *gorm.DB, o *model.Orden) error {
	return tx.Omit("Detalles", "Cliente").Save(o).Error
}

func (r *ordenRepo) ListByCliente(ctx context.Context, clienteID uuid.UUID) ([]model.Orden, error) {
	var ordenes []model.Orden
	err := r.db.WithContext(ctx).
		Preload("Detalles.Producto").
		Where("cliente_id = ?", clienteID).
		Order("created_at DESC").
		Find(&ordenes).Error
	return ordenes, err
}

func (r *ordenRepo) UltimaSecuenciaDelDiaTx(tx *gorm.DB, prefijo string) (int, error) {
	var secuencia int
	err := tx.Model(&model.Orden{}).
		Select("COALESCE(MAX(split_part(numero_orden, '-', 2)::int), 0)").
		Where("numero_orden LIKE ?", prefijo+"-%").
		Scan(&secuencia).Error
	return secuencia, err
}

func (r *ordenRepo) DB() *gorm.DB { return r.db }
