package service

import (
	"context"
	"time"

	"invtrack/internal/dto"
	"invtrack/internal/model"
	"invtrack/internal/repository"
)

const (
	topProductsLimit  = 5
	recentOrdersLimit = 5
)

type DashboardService interface {
	Stats(ctx context.Context) (*dto.DashboardStatsResponse, error)
}

type dashboardService struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	alerts   repository.AlertRepository
}

func NewDashboardService(
	products repository.ProductRepository,
	orders repository.OrderRepository,
	alerts repository.AlertRepository,
) DashboardService {
	return &dashboardService{products: products, orders: orders, alerts: alerts}
}

func (s *dashboardService) Stats(ctx context.Context) (*dto.DashboardStatsResponse, error) {
	totalProducts, err := s.products.Count(ctx)
	if err != nil {
		return nil, err
	}
	belowReorder, err := s.products.FindBelowReorder(ctx)
	if err != nil {
		return nil, err
	}
	outOfStock, err := s.products.CountOutOfStock(ctx)
	if err != nil {
		return nil, err
	}
	totalOrders, err := s.orders.Count(ctx)
	if err != nil {
		return nil, err
	}
	pendingOrders, err := s.orders.CountByStatus(ctx, model.OrderStatusPending)
	if err != nil {
		return nil, err
	}
	revenue, err := s.orders.TotalRevenue(ctx)
	if err != nil {
		return nil, err
	}
	top, err := s.orders.TopProducts(ctx, topProductsLimit)
	if err != nil {
		return nil, err
	}
	recent, err := s.orders.Recent(ctx, recentOrdersLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.alerts.CountUnread(ctx)
	if err != nil {
		return nil, err
	}

	stats := &dto.DashboardStatsResponse{
		TotalProducts:      totalProducts,
		LowStockProducts:   int64(len(belowReorder)),
		OutOfStockProducts: outOfStock,
		TotalOrders:        totalOrders,
		PendingOrders:      pendingOrders,
		TotalRevenue:       revenue,
		TopProducts:        top,
		UnreadAlerts:       unread,
	}
	for i := range recent {
		o := &recent[i]
		ro := dto.RecentOrderStat{
			OrderID:     o.ID.String(),
			OrderNumber: o.OrderNumber,
			OrderDate:   o.OrderDate.UTC().Format(time.RFC3339),
			TotalAmount: o.TotalAmount,
		}
		if o.Customer != nil {
			ro.CustomerName = o.Customer.FullName()
		}
		stats.RecentOrders = append(stats.RecentOrders, ro)
	}
	return stats, nil
}
