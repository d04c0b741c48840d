package dto

type CreateCategoryRequest struct {
	Name        string `json:"name"        validate:"required,min=2,max=80"`
	Description string `json:"description" validate:"max=500"`
}

type UpdateCategoryRequest struct {
	Name        *string `json:"name"        validate:"omitempty,min=2,max=80"`
	Description *string `json:"description" validate:"omitempty,max=500"`
	IsActive    *bool   `json:"is_active"`
}

type CategoryResponse struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	IsActive     bool   `json:"is_active"`
	ProductCount int64  `json:"product_count"`
}
