package model

import (
	"time"

	"github.com/google/uuid"
)

// Supplier holds commercial contact data for a product source. Deletion is
// restricted while products reference it.
type Supplier struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name          string    `gorm:"not null"`
	ContactPerson string
	Email         string
	Phone         string
	Address       string
	IsActive      bool `gorm:"not null;default:true"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Products []Product `gorm:"foreignKey:SupplierID"`
}
