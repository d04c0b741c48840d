package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,uuid"`
	Quantity  int    `json:"quantity"   validate:"required,min=1"`
}

type CreateOrderRequest struct {
	// CustomerID may be set by an admin/staff creating an order on a
	// customer's behalf; customers always order for themselves.
	CustomerID string             `json:"customer_id" validate:"omitempty,uuid"`
	Notes      string             `json:"notes"       validate:"max=500"`
	Items      []OrderItemRequest `json:"items"       validate:"required,min=1,dive"`
}

type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed shipped delivered cancelled"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type OrderFilter struct {
	Search   string `form:"search"`    // matched against order number
	Status   string `form:"status"`    // exact status
	Customer string `form:"customer"`  // uuid
	FromDate string `form:"from_date"` // YYYY-MM-DD inclusive
	ToDate   string `form:"to_date"`   // YYYY-MM-DD inclusive
	Page     int    `form:"page,default=1"  validate:"min=1"`
	Limit    int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type OrderItemResponse struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	TotalPrice  decimal.Decimal `json:"total_price"`
}

type OrderResponse struct {
	ID           string              `json:"id"`
	OrderNumber  string              `json:"order_number"`
	OrderDate    string              `json:"order_date"`
	Status       string              `json:"status"`
	TotalAmount  decimal.Decimal     `json:"total_amount"`
	Notes        string              `json:"notes"`
	CustomerID   string              `json:"customer_id"`
	CustomerName string              `json:"customer_name"`
	Items        []OrderItemResponse `json:"items"`
}

type OrderListResponse struct {
	Data  []OrderResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}

// OrderSummaryResponse backs GET /orders/summary.
type OrderSummaryResponse struct {
	TotalOrders     int64           `json:"total_orders"`
	PendingOrders   int64           `json:"pending_orders"`
	CompletedOrders int64           `json:"completed_orders"`
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TodayOrders     int64           `json:"today_orders"`
	TodayRevenue    decimal.Decimal `json:"today_revenue"`
}
