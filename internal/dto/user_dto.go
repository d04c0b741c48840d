package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateUserRequest struct {
	Email     string `json:"email"      validate:"required,email"`
	Password  string `json:"password"   validate:"required,min=8"`
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name"  validate:"max=80"`
	Role      string `json:"role"       validate:"required,oneof=admin staff customer"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=80"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=80"`
	Role      *string `json:"role"       validate:"omitempty,oneof=admin staff customer"`
	Password  *string `json:"password"   validate:"omitempty,min=8"`
	IsActive  *bool   `json:"is_active"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type UserResponse struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	FirstName   string   `json:"first_name"`
	LastName    string   `json:"last_name"`
	Role        string   `json:"role"`
	IsActive    bool     `json:"is_active"`
	Permissions []string `json:"permissions,omitempty"`
}
