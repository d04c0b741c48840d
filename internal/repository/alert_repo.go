package repository

import (
	"context"

	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AlertRepository manages low-stock alerts.
type AlertRepository interface {
	Create(ctx context.Context, a *model.LowStockAlert) error
	Update(ctx context.Context, a *model.LowStockAlert) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.LowStockAlert, error)
	// FindUnreadByProduct returns the open alert for a product, if any.
	// Used to deduplicate: a product keeps at most one unread alert.
	FindUnreadByProduct(ctx context.Context, productID uuid.UUID) (*model.LowStockAlert, error)
	List(ctx context.Context, filter dto.AlertFilter) ([]model.LowStockAlert, int64, error)
	MarkRead(ctx context.Context, id uuid.UUID) error
	CountUnread(ctx context.Context) (int64, error)
}

type alertRepo struct{ db *gorm.DB }

func NewAlertRepository(db *gorm.DB) AlertRepository { return &alertRepo{db: db} }

func (r *alertRepo) Create(ctx context.Context, a *model.LowStockAlert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *alertRepo) Update(ctx context.Context, a *model.LowStockAlert) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *alertRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.LowStockAlert, error) {
	var a model.LowStockAlert
	err := r.db.WithContext(ctx).Preload("Product").First(&a, id).Error
	return &a, err
}

func (r *alertRepo) FindUnreadByProduct(ctx context.Context, productID uuid.UUID) (*model.LowStockAlert, error) {
	var a model.LowStockAlert
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_read = false", productID).
		First(&a).Error
	return &a, err
}

func (r *alertRepo) List(ctx context.Context, filter dto.AlertFilter) ([]model.LowStockAlert, int64, error) {
	var alerts []model.LowStockAlert
	var total int64

	q := r.db.WithContext(ctx).Model(&model.LowStockAlert{}).Preload("Product")

	if filter.UnreadOnly {
		q = q.Where("is_read = false")
	}
	if filter.Severity != "" {
		q = q.Where("severity = ?", filter.Severity)
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at DESC").Limit(filter.Limit).Offset(offset).Find(&alerts).Error
	return alerts, total, err
}

func (r *alertRepo) MarkRead(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.LowStockAlert{}).
		Where("id = ?", id).Update("is_read", true).Error
}

func (r *alertRepo) CountUnread(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.LowStockAlert{}).
		Where("is_read = false").Count(&n).Error
	return n, err
}
