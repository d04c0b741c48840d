package dto

import "github.com/shopspring/decimal"

// DashboardStatsResponse backs GET /dashboard/stats.
type DashboardStatsResponse struct {
	TotalProducts      int64              `json:"total_products"`
	LowStockProducts   int64              `json:"low_stock_products"`
	OutOfStockProducts int64              `json:"out_of_stock_products"`
	TotalOrders        int64              `json:"total_orders"`
	PendingOrders      int64              `json:"pending_orders"`
	TotalRevenue       decimal.Decimal    `json:"total_revenue"`
	TopProducts        []TopProductStat   `json:"top_products"`
	RecentOrders       []RecentOrderStat  `json:"recent_orders"`
	UnreadAlerts       int64              `json:"unread_alerts"`
}

type TopProductStat struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	TotalSold   int64           `json:"total_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

type RecentOrderStat struct {
	OrderID      string          `json:"order_id"`
	OrderNumber  string          `json:"order_number"`
	CustomerName string          `json:"customer_name"`
	OrderDate    string          `json:"order_date"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
}
