package repository

import (
	"context"
	"time"

	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProductRepository defines the data access contract for products.
type ProductRepository interface {
	Create(ctx context.Context, p *model.Product) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
	FindBySKU(ctx context.Context, sku string) (*model.Product, error)
	List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error)
	Update(ctx context.Context, p *model.Product) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
	CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error)
	CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error)

	// DecrementStockTx runs the conditional decrement
	//   stock_quantity = stock_quantity - qty WHERE stock_quantity >= qty
	// inside the caller's transaction and returns the number of rows
	// affected. Zero rows means the precondition failed at commit time.
	DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error)

	// IncrementStockTx adds qty back (order cancellation restore).
	IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// SetStockTx sets an absolute quantity inside the caller's transaction.
	SetStockTx(tx *gorm.DB, id uuid.UUID, qty int) error

	// FindBelowReorder returns active products with stock at or below their
	// reorder level (dashboard counts and the alert sweep).
	FindBelowReorder(ctx context.Context) ([]model.Product, error)

	Count(ctx context.Context) (int64, error)
	CountOutOfStock(ctx context.Context) (int64, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type productRepo struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository { return &productRepo{db: db} }

func (r *productRepo) Create(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *productRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Preload("Category").Preload("Supplier").
		Where("id = ? AND is_deleted = false", id).
		First(&p).Error
	return &p, err
}

func (r *productRepo) FindByIDTx(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	var p model.Product
	err := tx.Where("id = ? AND is_deleted = false", id).First(&p).Error
	return &p, err
}

func (r *productRepo) FindBySKU(ctx context.Context, sku string) (*model.Product, error) {
	var p model.Product
	err := r.db.WithContext(ctx).
		Where("sku = ? AND is_deleted = false", sku).
		First(&p).Error
	return &p, err
}

func (r *productRepo) List(ctx context.Context, filter dto.ProductFilter) ([]model.Product, int64, error) {
	var products []model.Product
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Product{}).
		Preload("Category").Preload("Supplier").
		Where("is_deleted = false")

	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("name ILIKE ? OR sku ILIKE ?", pattern, pattern)
	}
	if filter.CategoryID != "" {
		q = q.Where("category_id = ?", filter.CategoryID)
	}
	if filter.SupplierID != "" {
		q = q.Where("supplier_id = ?", filter.SupplierID)
	}
	if filter.LowStock {
		q = q.Where("stock_quantity <= reorder_level")
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("name ASC").Limit(filter.Limit).Offset(offset).Find(&products).Error
	return products, total, err
}

func (r *productRepo) Update(ctx context.Context, p *model.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *productRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{"is_deleted": true, "is_active": false}).Error
}

func (r *productRepo) CountByCategory(ctx context.Context, categoryID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("category_id = ? AND is_deleted = false", categoryID).
		Count(&n).Error
	return n, err
}

func (r *productRepo) CountBySupplier(ctx context.Context, supplierID uuid.UUID) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("supplier_id = ? AND is_deleted = false", supplierID).
		Count(&n).Error
	return n, err
}

func (r *productRepo) DecrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) (int64, error) {
	res := tx.Model(&model.Product{}).
		Where("id = ? AND is_deleted = false AND stock_quantity >= ?", id, qty).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity - ?", qty),
			"updated_at":     time.Now().UTC(),
		})
	return res.RowsAffected, res.Error
}

func (r *productRepo) IncrementStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": gorm.Expr("stock_quantity + ?", qty),
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *productRepo) SetStockTx(tx *gorm.DB, id uuid.UUID, qty int) error {
	return tx.Model(&model.Product{}).Where("id = ?", id).
		Updates(map[string]interface{}{
			"stock_quantity": qty,
			"updated_at":     time.Now().UTC(),
		}).Error
}

func (r *productRepo) FindBelowReorder(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	err := r.db.WithContext(ctx).
		Where("is_deleted = false AND is_active = true AND stock_quantity <= reorder_level").
		Find(&products).Error
	return products, err
}

func (r *productRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_deleted = false").Count(&n).Error
	return n, err
}

func (r *productRepo) CountOutOfStock(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Product{}).
		Where("is_deleted = false AND stock_quantity = 0").Count(&n).Error
	return n, err
}

func (r *productRepo) DB() *gorm.DB { return r.db }
