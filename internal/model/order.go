package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order status values. Transitions are enforced by the order service:
// pending → confirmed|cancelled, confirmed → shipped|cancelled,
// shipped → delivered; delivered and cancelled are terminal.
const (
	OrderStatusPending   = "pending"
	OrderStatusConfirmed = "confirmed"
	OrderStatusShipped   = "shipped"
	OrderStatusDelivered = "delivered"
	OrderStatusCancelled = "cancelled"
)

// Order is a customer purchase. TotalAmount equals the sum of its items'
// TotalPrice, fixed at creation time.
type Order struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderNumber     string    `gorm:"uniqueIndex;not null"` // ORD-<year>-<6-digit-seq>
	OrderDate       time.Time `gorm:"not null"`
	Status          string    `gorm:"type:varchar(20);not null;default:'pending'"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Notes           string
	CustomerID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	AssignedStaffID *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Customer      *User       `gorm:"foreignKey:CustomerID"`
	AssignedStaff *User       `gorm:"foreignKey:AssignedStaffID"`
	Items         []OrderItem `gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots the product price at order time; TotalPrice is always
// Quantity × UnitPrice.
type OrderItem struct {
	ID         uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OrderID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID       `gorm:"type:uuid;not null;index"`
	Quantity   int             `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	CreatedAt  time.Time

	Product *Product `gorm:"foreignKey:ProductID"`
}

// OrderCounter hands out gap-checked per-year order sequences. The row is
// bumped atomically inside the order transaction, so concurrent creates
// cannot mint duplicate order numbers.
type OrderCounter struct {
	Year    int `gorm:"primaryKey"`
	LastSeq int `gorm:"not null;default:0"`
}

func (OrderCounter) TableName() string { return "order_counters" }
