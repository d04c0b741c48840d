package model

import (
	"time"

	"github.com/google/uuid"
)

// Movement direction, derived from the sign of the quantity delta.
const (
	MovementIn  = "in"
	MovementOut = "out"
)

// StockMovement records a single stock quantity change and its cause.
// Append-only: rows are never updated or deleted.
type StockMovement struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index"`
	UserID    uuid.UUID `gorm:"type:uuid;not null"` // actor
	Quantity  int       `gorm:"not null"`           // positive = in, negative = out
	Type      string    `gorm:"type:varchar(10);not null"`
	Reason    string
	Reference string // e.g. order number
	CreatedAt time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}
