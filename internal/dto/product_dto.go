package dto

import "github.com/shopspring/decimal"

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=2,max=120"`
	Description   string          `json:"description"    validate:"max=500"`
	SKU           string          `json:"sku"            validate:"required,min=2,max=40"`
	Price         decimal.Decimal `json:"price"          validate:"required,gt=0"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	ReorderLevel  int             `json:"reorder_level"  validate:"min=0"`
	CategoryID    string          `json:"category_id"    validate:"required,uuid"`
	SupplierID    string          `json:"supplier_id"    validate:"required,uuid"`
}

type UpdateProductRequest struct {
	Name          string          `json:"name"           validate:"required,min=2,max=120"`
	Description   string          `json:"description"    validate:"max=500"`
	SKU           string          `json:"sku"            validate:"required,min=2,max=40"`
	Price         decimal.Decimal `json:"price"          validate:"required,gt=0"`
	StockQuantity int             `json:"stock_quantity" validate:"min=0"`
	ReorderLevel  int             `json:"reorder_level"  validate:"min=0"`
	CategoryID    string          `json:"category_id"    validate:"required,uuid"`
	SupplierID    string          `json:"supplier_id"    validate:"required,uuid"`
	IsActive      bool            `json:"is_active"`
}

// AdjustStockRequest sets a product's stock to an absolute quantity.
type AdjustStockRequest struct {
	Quantity int    `json:"quantity" validate:"min=0"`
	Reason   string `json:"reason"   validate:"required,min=3,max=200"`
}

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type ProductFilter struct {
	Search     string `form:"search"`      // name or SKU, ILIKE
	CategoryID string `form:"category_id"` // uuid
	SupplierID string `form:"supplier_id"` // uuid
	LowStock   bool   `form:"low_stock"`   // only products at/below reorder level
	Page       int    `form:"page,default=1"  validate:"min=1"`
	Limit      int    `form:"limit,default=20" validate:"min=1,max=100"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	SKU           string          `json:"sku"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ReorderLevel  int             `json:"reorder_level"`
	CategoryID    string          `json:"category_id"`
	CategoryName  string          `json:"category_name,omitempty"`
	SupplierID    string          `json:"supplier_id"`
	SupplierName  string          `json:"supplier_name,omitempty"`
	IsActive      bool            `json:"is_active"`
	CreatedAt     string          `json:"created_at"`
	UpdatedAt     string          `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}
