package repository

import (
	"context"
	"time"

	"ecommerce/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// KardexFilter narrows ledger queries; nil fields mean "no filter".
type KardexFilter struct {
	ProductoID *uuid.UUID
	Desde      *time.Time
	Hasta      *time.Time
	Page       int
	Limit      int
}

// KardexRepository is append-only by construction: there is no update or
// delete method, and entries are always created through a live transaction.
type KardexRepository interface {
	CreateTx(tx *gorm.DB, k *model.Kardex) error
	List(ctx context.Context, filter KardexFilter) ([]model.Kardex, int64, error)
}

type kardexRepo struct{ db *gorm.DB }

func NewKardexRepository(db *gorm.DB) KardexRepository { return &kardexRepo{db: db} }

func (r *kardexRepo) CreateTx(tx *gorm.DB, k *model.Kardex) error {
	return tx.Create(k).Error
}

func (r *kardexRepo) List(ctx context.Context, filter KardexFilter) ([]model.Kardex, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Kardex{}).Preload("Producto")
	if filter.ProductoID != nil {
		q = q.Where("producto_id = ?", *filter.ProductoID)
	}
	if filter.Desde != nil {
		q = q.Where("created_at >= ?", *filter.Desde)
	}
	if filter.Hasta != nil {
		q = q.Where("created_at <= ?", *filter.Hasta)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := filter.Page
	limit := filter.Limit
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 500 {
		limit = 100
	}
	offset := (page - 1) * limit

	var entradas []model.Kardex
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&entradas).Error
	return entradas, total, err
}
