package model

import (
	"time"

	"github.com/google/uuid"
)

// Alert severity tiers, derived solely from current stock vs reorder level:
// out_of_stock when 0, critical when ≤ floor(reorder/2), low otherwise.
const (
	SeverityLow        = "low"
	SeverityCritical   = "critical"
	SeverityOutOfStock = "out_of_stock"
)

// LowStockAlert is created when a product's stock crosses at or below its
// reorder level. At most one unread alert exists per product at a time.
type LowStockAlert struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID    uuid.UUID `gorm:"type:uuid;not null;index"`
	CurrentStock int       `gorm:"not null"`
	ReorderLevel int       `gorm:"not null"`
	Severity     string    `gorm:"type:varchar(20);not null"`
	IsRead       bool      `gorm:"not null;default:false"`
	CreatedAt    time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// SeverityFor applies the alert severity rule.
func SeverityFor(stock, reorderLevel int) string {
	switch {
	case stock == 0:
		return SeverityOutOfStock
	case stock <= reorderLevel/2:
		return SeverityCritical
	default:
		return SeverityLow
	}
}
