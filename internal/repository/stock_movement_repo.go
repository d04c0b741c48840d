package repository

import (
	"context"

	"invtrack/internal/dto"
	"invtrack/internal/model"

	"gorm.io/gorm"
)

// StockMovementRepository is the append-only ledger of stock changes.
// Movements are never updated or deleted.
type StockMovementRepository interface {
	Create(ctx context.Context, m *model.StockMovement) error
	CreateTx(tx *gorm.DB, m *model.StockMovement) error
	List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error)
}

type stockMovementRepo struct{ db *gorm.DB }

func NewStockMovementRepository(db *gorm.DB) StockMovementRepository {
	return &stockMovementRepo{db: db}
}

func (r *stockMovementRepo) Create(ctx context.Context, m *model.StockMovement) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *stockMovementRepo) CreateTx(tx *gorm.DB, m *model.StockMovement) error {
	return tx.Create(m).Error
}

func (r *stockMovementRepo) List(ctx context.Context, filter dto.MovementFilter) ([]model.StockMovement, int64, error) {
	var movements []model.StockMovement
	var total int64

	q := r.db.WithContext(ctx).Model(&model.StockMovement{}).
		Preload("Product")

	if filter.ProductID != "" {
		q = q.Where("product_id = ?", filter.ProductID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&movements).Error
	return movements, total, err
}
