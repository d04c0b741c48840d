package model

import (
	"time"

	"github.com/google/uuid"
)

// Roles recognised by the access policy. See internal/authz for the
// role→permission mapping.
const (
	RoleAdmin    = "admin"
	RoleStaff    = "staff"
	RoleCustomer = "customer"
)

// User stores system users with role-based access.
type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Email        string    `gorm:"uniqueIndex;not null"`
	PasswordHash string    `gorm:"not null"`
	FirstName    string    `gorm:"not null"`
	LastName     string
	Role         string `gorm:"type:varchar(20);not null"`
	IsActive     bool   `gorm:"not null;default:true"`
	IsDeleted    bool   `gorm:"not null;default:false"`
	LastLoginAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// FullName joins first and last name for display in order responses.
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
