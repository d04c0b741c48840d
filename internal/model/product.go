package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a stocked catalog item. Products referenced by order items are
// never hard-deleted; IsDeleted marks them removed from the catalog.
type Product struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"index;not null"`
	Description   string
	SKU           string          `gorm:"uniqueIndex;not null"`
	Price         decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	StockQuantity int             `gorm:"not null;default:0"`
	ReorderLevel  int             `gorm:"not null;default:5"`
	CategoryID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SupplierID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	IsActive      bool            `gorm:"not null;default:true"`
	IsDeleted     bool            `gorm:"not null;default:false"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Category *Category `gorm:"foreignKey:CategoryID"`
	Supplier *Supplier `gorm:"foreignKey:SupplierID"`
}
