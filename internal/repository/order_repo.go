package repository

import (
	"context"
	"time"

	"invtrack/internal/authz"
	"invtrack/internal/dto"
	"invtrack/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderRepository defines data access for orders and their per-year
// sequence counter.
type OrderRepository interface {
	CreateTx(tx *gorm.DB, o *model.Order) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error)
	List(ctx context.Context, scope authz.OrderScope, filter dto.OrderFilter) ([]model.Order, int64, error)
	// UpdateStatusTx flips the status only while the order still holds the
	// expected prior status. Returns rows affected: zero means a concurrent
	// request moved the order first and the caller must not act on the
	// stale read.
	UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (int64, error)

	// NextSequenceTx atomically bumps the counter row for the year inside
	// the caller's transaction and returns the new sequence. Concurrent
	// order creations serialize on the row, so numbers are unique.
	NextSequenceTx(tx *gorm.DB, year int) (int, error)

	// Aggregates for summary and dashboard.
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
	CountSince(ctx context.Context, since time.Time) (int64, error)
	TotalRevenue(ctx context.Context) (decimal.Decimal, error)
	RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error)
	TopProducts(ctx context.Context, limit int) ([]dto.TopProductStat, error)
	Recent(ctx context.Context, limit int) ([]model.Order, error)

	DB() *gorm.DB
}

type orderRepo struct{ db *gorm.DB }

func NewOrderRepository(db *gorm.DB) OrderRepository { return &orderRepo{db: db} }

func (r *orderRepo) CreateTx(tx *gorm.DB, o *model.Order) error {
	return tx.Create(o).Error
}

func (r *orderRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&o, id).Error
	return &o, err
}

func (r *orderRepo) List(ctx context.Context, scope authz.OrderScope, filter dto.OrderFilter) ([]model.Order, int64, error) {
	var orders []model.Order
	var total int64

	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product")

	// Scope narrows before any user-supplied filter so a customer cannot
	// widen their view by filtering on someone else's id.
	if scope.CustomerID != nil {
		q = q.Where("customer_id = ?", *scope.CustomerID)
	}
	if scope.StaffID != nil {
		q = q.Where("assigned_staff_id = ?", *scope.StaffID)
	}

	if filter.Search != "" {
		q = q.Where("order_number ILIKE ?", "%"+filter.Search+"%")
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Customer != "" {
		q = q.Where("customer_id = ?", filter.Customer)
	}
	if filter.FromDate != "" {
		if from, err := time.Parse("2006-01-02", filter.FromDate); err == nil {
			q = q.Where("order_date >= ?", from)
		}
	}
	if filter.ToDate != "" {
		if to, err := time.Parse("2006-01-02", filter.ToDate); err == nil {
			q = q.Where("order_date < ?", to.AddDate(0, 0, 1))
		}
	}

	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (filter.Page - 1) * filter.Limit
	err := q.Order("created_at ASC").Limit(filter.Limit).Offset(offset).Find(&orders).Error
	return orders, total, err
}

func (r *orderRepo) UpdateStatusTx(tx *gorm.DB, id uuid.UUID, from, to string) (int64, error) {
	res := tx.Model(&model.Order{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	return res.RowsAffected, res.Error
}

func (r *orderRepo) NextSequenceTx(tx *gorm.DB, year int) (int, error) {
	var seq int
	err := tx.Raw(`
		INSERT INTO order_counters (year, last_seq) VALUES (?, 1)
		ON CONFLICT (year) DO UPDATE SET last_seq = order_counters.last_seq + 1
		RETURNING last_seq
	`, year).Scan(&seq).Error
	return seq, err
}

func (r *orderRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&n).Error
	return n, err
}

func (r *orderRepo) CountByStatus(ctx context.Context, status string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ?", status).Count(&n).Error
	return n, err
}

func (r *orderRepo) CountSince(ctx context.Context, since time.Time) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("order_date >= ?", since).Count(&n).Error
	return n, err
}

func (r *orderRepo) TotalRevenue(ctx context.Context) (decimal.Decimal, error) {
	return r.sumRevenue(ctx, time.Time{})
}

func (r *orderRepo) RevenueSince(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	return r.sumRevenue(ctx, since)
}

func (r *orderRepo) sumRevenue(ctx context.Context, since time.Time) (decimal.Decimal, error) {
	var sum decimal.NullDecimal
	q := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status <> ?", model.OrderStatusCancelled)
	if !since.IsZero() {
		q = q.Where("order_date >= ?", since)
	}
	err := q.Select("SUM(total_amount)").Scan(&sum).Error
	if err != nil || !sum.Valid {
		return decimal.Zero, err
	}
	return sum.Decimal, nil
}

func (r *orderRepo) TopProducts(ctx context.Context, limit int) ([]dto.TopProductStat, error) {
	var stats []dto.TopProductStat
	err := r.db.WithContext(ctx).Raw(`
		SELECT p.id AS product_id, p.name AS product_name,
		       COALESCE(SUM(oi.quantity), 0) AS total_sold,
		       COALESCE(SUM(oi.total_price), 0) AS revenue
		FROM order_items oi
		JOIN products p ON p.id = oi.product_id
		GROUP BY p.id, p.name
		ORDER BY total_sold DESC
		LIMIT ?
	`, limit).Scan(&stats).Error
	return stats, err
}

func (r *orderRepo) Recent(ctx context.Context, limit int) ([]model.Order, error) {
	var orders []model.Order
	err := r.db.WithContext(ctx).
		Preload("Customer").
		Order("order_date DESC").
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

func (r *orderRepo) DB() *gorm.DB { return r.db }
