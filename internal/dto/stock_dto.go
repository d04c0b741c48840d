package dto

// ─── Filter / Pagination ─────────────────────────────────────────────────────

type MovementFilter struct {
	ProductID string `form:"product_id"` // uuid
	Type      string `form:"type"`       // in | out
	Page      int    `form:"page,default=1"   validate:"min=1"`
	Limit     int    `form:"limit,default=100" validate:"min=1,max=500"`
}

type AlertFilter struct {
	UnreadOnly bool   `form:"unread_only"`
	Severity   string `form:"severity" validate:"omitempty,oneof=low critical out_of_stock"`
	Page       int    `form:"page,default=1"  validate:"min=1"`
	Limit      int    `form:"limit,default=50" validate:"min=1,max=200"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type MovementResponse struct {
	ID          string `json:"id"`
	ProductID   string `json:"product_id"`
	ProductName string `json:"product_name"`
	Quantity    int    `json:"quantity"`
	Type        string `json:"type"`
	Reason      string `json:"reason"`
	Reference   string `json:"reference,omitempty"`
	CreatedAt   string `json:"created_at"`
}

type MovementListResponse struct {
	Data  []MovementResponse `json:"data"`
	Total int64              `json:"total"`
	Page  int                `json:"page"`
	Limit int                `json:"limit"`
}

type AlertResponse struct {
	ID           string `json:"id"`
	ProductID    string `json:"product_id"`
	ProductName  string `json:"product_name"`
	CurrentStock int    `json:"current_stock"`
	ReorderLevel int    `json:"reorder_level"`
	Severity     string `json:"severity"`
	IsRead       bool   `json:"is_read"`
	CreatedAt    string `json:"created_at"`
}

type AlertListResponse struct {
	Data  []AlertResponse `json:"data"`
	Total int64           `json:"total"`
	Page  int             `json:"page"`
	Limit int             `json:"limit"`
}
