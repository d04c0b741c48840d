package dto

type CreateSupplierRequest struct {
	Name          string `json:"name"           validate:"required,min=2,max=120"`
	ContactPerson string `json:"contact_person" validate:"max=120"`
	Email         string `json:"email"          validate:"omitempty,email"`
	Phone         string `json:"phone"          validate:"max=40"`
	Address       string `json:"address"        validate:"max=300"`
}

type UpdateSupplierRequest struct {
	Name          *string `json:"name"           validate:"omitempty,min=2,max=120"`
	ContactPerson *string `json:"contact_person" validate:"omitempty,max=120"`
	Email         *string `json:"email"          validate:"omitempty,email"`
	Phone         *string `json:"phone"          validate:"omitempty,max=40"`
	Address       *string `json:"address"        validate:"omitempty,max=300"`
	IsActive      *bool   `json:"is_active"`
}

type SupplierResponse struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	ContactPerson string `json:"contact_person"`
	Email         string `json:"email"`
	Phone         string `json:"phone"`
	Address       string `json:"address"`
	IsActive      bool   `json:"is_active"`
	ProductCount  int64  `json:"product_count"`
}
