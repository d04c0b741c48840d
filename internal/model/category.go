package model

import (
	"time"

	"github.com/google/uuid"
)

// Category classifies products. Deletion is restricted while products
// reference it.
type Category struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Name        string    `gorm:"uniqueIndex;not null"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []Product `gorm:"foreignKey:CategoryID"`
}
